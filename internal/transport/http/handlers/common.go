package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/pkg/validate"
	authsvc "github.com/ivankudzin/naranja/internal/services/auth"
	"github.com/ivankudzin/naranja/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object into target and runs its validate tags.
func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if decoder.More() {
		return fmt.Errorf("invalid request body: unexpected trailing data")
	}
	return validate.Struct(target)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var fe *validate.FieldError
	if errors.As(err, &fe) {
		writeBadRequest(w, "VALIDATION_ERROR", fe.Error())
		return
	}
	writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusBadRequest, code, message)
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusUnauthorized, code, message)
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusForbidden, code, message)
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusNotFound, code, message)
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusConflict, code, message)
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.WriteError(w, http.StatusInternalServerError, code, message)
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

// targetOf validates a {target_id} body and rejects self-targeting.
func targetOf(w http.ResponseWriter, r *http.Request, callerID string) (string, bool) {
	var req dto.TargetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return "", false
	}
	targetID := strings.TrimSpace(req.TargetID)
	if targetID == callerID {
		writeBadRequest(w, "SELF_TARGET", "target must be another user")
		return "", false
	}
	return targetID, true
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func mapProfile(p model.Profile) dto.ProfileResponse {
	var avatar *string
	if p.AvatarURL != "" {
		url := p.AvatarURL
		avatar = &url
	}
	hobbies := p.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}
	return dto.ProfileResponse{
		ID:              p.ID,
		DisplayName:     p.DisplayName,
		Gender:          p.Gender,
		Orientation:     p.Orientation,
		AcceptsMatching: p.AcceptsMatching,
		IsPremium:       p.IsPremium,
		AvatarURL:       avatar,
		Age:             p.Age,
		BirthDate:       p.BirthDate,
		Bio:             p.Bio,
		Profession:      p.Profession,
		Zodiac:          p.Zodiac,
		Hobbies:         hobbies,
		CreatedAt:       p.CreatedAt,
	}
}
