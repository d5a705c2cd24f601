package handlers

import (
	"errors"
	"net/http"

	profilesvc "github.com/ivankudzin/naranja/internal/services/profiles"
	"github.com/ivankudzin/naranja/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not created yet")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}
	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.SaveProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	profile, err := h.service.Save(r.Context(), identity.UserID, profilesvc.Input{
		DisplayName:     req.DisplayName,
		Gender:          req.Gender,
		Orientation:     req.Orientation,
		AcceptsMatching: req.AcceptsMatching,
		AvatarKey:       req.AvatarKey,
		BirthDate:       req.BirthDate,
		Bio:             req.Bio,
		Profession:      req.Profession,
		Hobbies:         req.Hobbies,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrAgeRejected):
			writeBadRequest(w, "AGE_REJECTED", "user must be at least 18 years old")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		}
		return
	}
	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}
