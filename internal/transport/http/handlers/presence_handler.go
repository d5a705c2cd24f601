package handlers

import (
	"errors"
	"net/http"
	"strings"

	presencesvc "github.com/ivankudzin/naranja/internal/services/presence"
	"github.com/ivankudzin/naranja/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

type PresenceHandler struct {
	service *presencesvc.Service
}

func NewPresenceHandler(service *presencesvc.Service) *PresenceHandler {
	return &PresenceHandler{service: service}
}

func (h *PresenceHandler) Touch(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PRESENCE_SERVICE_UNAVAILABLE", "presence service is unavailable")
		return
	}

	if err := h.service.Touch(r.Context(), identity.UserID); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to update presence")
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "PRESENCE_SERVICE_UNAVAILABLE", "presence service is unavailable")
		return
	}

	var ids []string
	for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, id)
		}
	}

	online, err := h.service.Online(r.Context(), ids)
	if err != nil {
		switch {
		case errors.Is(err, presencesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "too many ids")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load presence")
		}
		return
	}
	if online == nil {
		online = []string{}
	}
	httperrors.Write(w, http.StatusOK, dto.PresenceResponse{Online: online})
}
