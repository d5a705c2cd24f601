package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ivankudzin/naranja/internal/domain/rules"
	limitssvc "github.com/ivankudzin/naranja/internal/services/limits"
	matchingsvc "github.com/ivankudzin/naranja/internal/services/matching"
	"github.com/ivankudzin/naranja/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

type LikesHandler struct {
	matching *matchingsvc.Service
}

func NewLikesHandler(matching *matchingsvc.Service) *LikesHandler {
	return &LikesHandler{matching: matching}
}

func (h *LikesHandler) Like(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.matching == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}
	targetID, ok := targetOf(w, r, identity.UserID)
	if !ok {
		return
	}

	outcome, status, err := h.matching.LikeWithQuota(r.Context(), identity.UserID, targetID, identity.IsPremium)
	if err != nil {
		switch {
		case errors.Is(err, matchingsvc.ErrDailyLimit):
			var retryAfter int64
			if status.ResetAt != nil {
				retryAfter = int64(time.Until(*status.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
			}
			httperrors.WriteRateLimited(w, httperrors.RateLimitError{
				Code:          "LIKE_LIMIT_REACHED",
				Message:       "daily likes limit reached",
				RetryAfterSec: retryAfter,
				ResetAt:       status.ResetAt,
			})
		case errors.Is(err, matchingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid like request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to record like")
		}
		return
	}

	resp := dto.LikeResponse{
		Matched:   outcome.Matched,
		ChannelID: outcome.ChannelID,
		Quota:     mapQuota(status),
	}
	if outcome.Profile != nil {
		profile := mapProfile(*outcome.Profile)
		resp.Profile = &profile
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func (h *LikesHandler) Pass(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.matching == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}
	targetID, ok := targetOf(w, r, identity.UserID)
	if !ok {
		return
	}

	if err := h.matching.ProcessPass(r.Context(), identity.UserID, targetID); err != nil {
		switch {
		case errors.Is(err, matchingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid pass request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to record pass")
		}
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func mapQuota(status limitssvc.Status) dto.QuotaResponse {
	return dto.QuotaResponse{
		Allowed:   status.Allowed,
		Remaining: status.Remaining,
		Unlimited: status.Remaining == rules.UnlimitedRemaining,
		ResetAt:   status.ResetAt,
	}
}
