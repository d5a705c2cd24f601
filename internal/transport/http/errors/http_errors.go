package errors

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RateLimitError is the 429 body. ResetAt is set only for the daily like quota.
type RateLimitError struct {
	Code          string     `json:"code"`
	Message       string     `json:"message"`
	RetryAfterSec int64      `json:"retry_after_sec"`
	ResetAt       *time.Time `json:"reset_at,omitempty"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	Write(w, status, APIError{Code: code, Message: message})
}

// WriteRateLimited mirrors RetryAfterSec into the Retry-After header.
func WriteRateLimited(w http.ResponseWriter, body RateLimitError) {
	if body.RetryAfterSec > 0 {
		w.Header().Set("Retry-After", strconv.FormatInt(body.RetryAfterSec, 10))
	}
	Write(w, http.StatusTooManyRequests, body)
}
