package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/naranja/internal/domain/model"
	channelssvc "github.com/ivankudzin/naranja/internal/services/channels"
	"github.com/ivankudzin/naranja/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/naranja/internal/transport/http/errors"
)

// ChatGate reports whether two users may open a direct conversation.
type ChatGate interface {
	CanChat(ctx context.Context, userID, otherID string) (bool, error)
}

type ChannelsHandler struct {
	service *channelssvc.Service
	gate    ChatGate
	log     *zap.Logger
}

func NewChannelsHandler(service *channelssvc.Service, gate ChatGate, log *zap.Logger) *ChannelsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChannelsHandler{service: service, gate: gate, log: log}
}

func (h *ChannelsHandler) Direct(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	var req dto.DirectChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	otherID := strings.TrimSpace(req.UserID)
	if otherID == identity.UserID {
		writeBadRequest(w, "SELF_TARGET", "target must be another user")
		return
	}

	if h.gate != nil {
		allowed, err := h.gate.CanChat(r.Context(), identity.UserID, otherID)
		if err != nil {
			h.log.Warn("chat gate lookup failed", zap.String("user_id", identity.UserID), zap.Error(err))
			writeInternal(w, "INTERNAL_ERROR", "failed to open channel")
			return
		}
		if !allowed {
			writeForbidden(w, "NOT_MATCHED", "direct chat requires an active match")
			return
		}
	}

	channelID, err := h.service.ResolveDirectChannel(r.Context(), identity.UserID, otherID)
	if err != nil {
		h.writeError(w, err, "failed to open channel")
		return
	}
	httperrors.Write(w, http.StatusOK, dto.DirectChannelResponse{ChannelID: channelID})
}

func (h *ChannelsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	channels, err := h.service.ListChannels(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		h.writeError(w, err, "failed to load channels")
		return
	}

	items := make([]dto.ChannelResponse, 0, len(channels))
	for _, c := range channels {
		items = append(items, mapChannel(c))
	}
	httperrors.Write(w, http.StatusOK, dto.ChannelsResponse{Items: items})
}

func (h *ChannelsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	channel, err := h.service.Channel(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		h.writeError(w, err, "failed to load channel")
		return
	}
	httperrors.Write(w, http.StatusOK, mapChannel(channel))
}

func (h *ChannelsHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	messages, err := h.service.ListMessages(r.Context(), chi.URLParam(r, "id"), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		h.writeError(w, err, "failed to load messages")
		return
	}

	items := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		items = append(items, mapMessage(m))
	}
	httperrors.Write(w, http.StatusOK, dto.MessagesResponse{Items: items})
}

func (h *ChannelsHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), chi.URLParam(r, "id"), identity.UserID, req.Content)
	if err != nil {
		h.writeError(w, err, "failed to send message")
		return
	}
	httperrors.Write(w, http.StatusCreated, mapMessage(msg))
}

func (h *ChannelsHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	var req dto.GroupChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	channel, err := h.service.CreateGroupChannel(r.Context(), identity.UserID, req.Name, req.IsPrivate)
	if err != nil {
		h.writeError(w, err, "failed to create group")
		return
	}
	httperrors.Write(w, http.StatusCreated, mapChannel(channel))
}

func (h *ChannelsHandler) Invite(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	var req dto.InviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	inv, err := h.service.InviteToGroup(r.Context(), chi.URLParam(r, "id"), identity.UserID, req.UserID)
	if err != nil {
		h.writeError(w, err, "failed to invite user")
		return
	}
	httperrors.Write(w, http.StatusCreated, mapInvitation(inv))
}

func (h *ChannelsHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	invitations, err := h.service.ListInvitations(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		h.writeError(w, err, "failed to load invitations")
		return
	}

	items := make([]dto.InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		items = append(items, mapInvitation(inv))
	}
	httperrors.Write(w, http.StatusOK, dto.InvitationsResponse{Items: items})
}

func (h *ChannelsHandler) AnswerInvitation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	var req dto.InvitationAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	inv, err := h.service.RespondToInvitation(r.Context(), chi.URLParam(r, "id"), identity.UserID, req.Accept)
	if err != nil {
		h.writeError(w, err, "failed to answer invitation")
		return
	}
	httperrors.Write(w, http.StatusOK, mapInvitation(inv))
}

func (h *ChannelsHandler) Members(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHANNELS_SERVICE_UNAVAILABLE", "channels service is unavailable")
		return
	}

	members, err := h.service.Members(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		h.writeError(w, err, "failed to load members")
		return
	}
	httperrors.Write(w, http.StatusOK, dto.MembersResponse{Items: members})
}

func (h *ChannelsHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, channelssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid channel request")
	case errors.Is(err, channelssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "channel not found")
	case errors.Is(err, channelssvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a channel participant")
	case errors.Is(err, channelssvc.ErrNotGroup):
		writeBadRequest(w, "NOT_A_GROUP", "channel is not a group")
	case errors.Is(err, channelssvc.ErrMember):
		writeConflict(w, "ALREADY_MEMBER", "user is already a member")
	case errors.Is(err, channelssvc.ErrInvitation):
		writeNotFound(w, "INVITATION_NOT_FOUND", "invitation not found")
	default:
		h.log.Error("channel request failed", zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}

func mapChannel(c model.Channel) dto.ChannelResponse {
	return dto.ChannelResponse{
		ID:          c.ID,
		Kind:        string(c.Kind),
		Name:        c.Name,
		CreatedBy:   c.CreatedBy,
		RecipientID: c.RecipientID,
		IsPrivate:   c.IsPrivate,
		CreatedAt:   c.CreatedAt,
	}
}

func mapInvitation(inv model.Invitation) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:        inv.ID,
		ChannelID: inv.ChannelID,
		UserID:    inv.UserID,
		InvitedBy: inv.InvitedBy,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
	}
}

func mapMessage(m model.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Kind:      string(m.Kind),
		CreatedAt: m.CreatedAt,
	}
}
