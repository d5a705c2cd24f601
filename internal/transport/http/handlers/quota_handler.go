package handlers

import (
	"net/http"

	limitssvc "github.com/ivankudzin/naranja/internal/services/limits"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

type QuotaHandler struct {
	service *limitssvc.Service
}

func NewQuotaHandler(service *limitssvc.Service) *QuotaHandler {
	return &QuotaHandler{service: service}
}

func (h *QuotaHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "QUOTA_SERVICE_UNAVAILABLE", "quota service is unavailable")
		return
	}

	status, err := h.service.CanLike(r.Context(), identity.UserID, identity.IsPremium)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load quota")
		return
	}
	httperrors.Write(w, http.StatusOK, mapQuota(status))
}
