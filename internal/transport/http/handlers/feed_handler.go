package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	feedsvc "github.com/ivankudzin/naranja/internal/services/feed"
	"github.com/ivankudzin/naranja/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	query := r.URL.Query()
	items, err := h.service.NextCandidates(r.Context(), identity.UserID, feedsvc.Filters{
		Limit:       parseIntOrDefault(query.Get("limit"), 0),
		Gender:      query.Get("gender"),
		Orientation: query.Get("orientation"),
	})
	if err != nil {
		switch {
		case errors.Is(err, feedsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid feed request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load feed")
		}
		return
	}

	out := make([]dto.ProfileResponse, 0, len(items))
	for _, item := range items {
		out = append(out, mapProfile(item))
	}
	httperrors.Write(w, http.StatusOK, dto.FeedResponse{Items: out})
}

func (h *FeedHandler) Candidate(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	profile, err := h.service.Candidate(r.Context(), identity.UserID, strings.TrimSpace(chi.URLParam(r, "user_id")))
	if err != nil {
		switch {
		case errors.Is(err, feedsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid candidate id")
		case errors.Is(err, feedsvc.ErrNotFound):
			writeNotFound(w, "NOT_FOUND", "candidate not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load candidate")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}
