package model

import "time"

const (
	TableChannels    = "channels"
	TableMessages    = "messages"
	TableMembers     = "channel_members"
	TableInvitations = "channel_invitations"
)

type ChannelKind string

const (
	ChannelDirect ChannelKind = "direct"
	ChannelGroup  ChannelKind = "group"
)

type Channel struct {
	ID          string      `json:"id"`
	Kind        ChannelKind `json:"kind"`
	Name        string      `json:"name,omitempty"`
	CreatedBy   string      `json:"created_by"`
	RecipientID string      `json:"recipient_id,omitempty"`
	PairKey     string      `json:"-"`
	IsPrivate   bool        `json:"is_private"`
	CreatedAt   time.Time   `json:"created_at"`
}

// HasParticipant covers direct channels only: their participants are the
// creator and the recipient. Group membership is stored per member.
func (c Channel) HasParticipant(userID string) bool {
	return c.Kind == ChannelDirect && userID != "" && (c.CreatedBy == userID || c.RecipientID == userID)
}

// Member is one user's seat in a group channel.
type Member struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`
}

// MemberKey identifies a user's seat in a channel.
func MemberKey(channelID, userID string) string {
	return channelID + ":" + userID
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation asks UserID to join a group channel. There is at most one per
// channel and user; inviting again after a decline reopens it.
type Invitation struct {
	ID        string           `json:"id"`
	ChannelID string           `json:"channel_id"`
	UserID    string           `json:"user_id"`
	InvitedBy string           `json:"invited_by"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

type MessageKind string

const MessageText MessageKind = "text"

type Message struct {
	ID        string      `json:"id"`
	ChannelID string      `json:"channel_id"`
	SenderID  string      `json:"sender_id"`
	Kind      MessageKind `json:"kind"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}
