package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/ivankudzin/naranja/internal/services/auth"
	"github.com/ivankudzin/naranja/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	if err := h.service.Logout(r.Context(), identity); err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidInput):
			writeBadRequest(w, "INVALID_REQUEST", "token cannot be revoked")
		default:
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
		}
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}
