package handlers

import (
	"errors"
	"net/http"

	matchingsvc "github.com/ivankudzin/naranja/internal/services/matching"
	"github.com/ivankudzin/naranja/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

type MatchesHandler struct {
	matching *matchingsvc.Service
}

func NewMatchesHandler(matching *matchingsvc.Service) *MatchesHandler {
	return &MatchesHandler{matching: matching}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.matching == nil {
		writeInternal(w, "MATCHING_SERVICE_UNAVAILABLE", "matching service is unavailable")
		return
	}

	views, err := h.matching.ListMatches(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		return
	}

	items := make([]dto.MatchResponse, 0, len(views))
	for _, view := range views {
		item := dto.MatchResponse{
			ID:        view.Match.ID,
			UserID:    view.Match.Counterpart(identity.UserID),
			CreatedAt: view.Match.CreatedAt,
		}
		if view.Profile != nil {
			profile := mapProfile(*view.Profile)
			item.Profile = &profile
		}
		items = append(items, item)
	}
	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: items})
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
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

	unmatched, err := h.matching.Unmatch(r.Context(), identity.UserID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, matchingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid unmatch request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to unmatch")
		}
		return
	}
	httperrors.Write(w, http.StatusOK, dto.UnmatchResponse{Unmatched: unmatched})
}
