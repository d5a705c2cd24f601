package dto

import "time"

type DirectChannelRequest struct {
	UserID string `json:"user_id" validate:"notblank,max=64"`
}

type DirectChannelResponse struct {
	ChannelID string `json:"channel_id"`
}

type GroupChannelRequest struct {
	Name      string `json:"name" validate:"notblank,max=80"`
	IsPrivate bool   `json:"is_private"`
}

type InviteRequest struct {
	UserID string `json:"user_id" validate:"notblank,max=64"`
}

type InvitationAnswerRequest struct {
	Accept bool `json:"accept"`
}

type InvitationResponse struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	InvitedBy string    `json:"invited_by"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type InvitationsResponse struct {
	Items []InvitationResponse `json:"items"`
}

type MembersResponse struct {
	Items []string `json:"items"`
}

type ChannelResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name,omitempty"`
	CreatedBy   string    `json:"created_by"`
	RecipientID string    `json:"recipient_id,omitempty"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChannelsResponse struct {
	Items []ChannelResponse `json:"items"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"notblank,max=4000"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type MessagesResponse struct {
	Items []MessageResponse `json:"items"`
}
