package rowmap

import (
	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

func ChannelRecord(c model.Channel) rowstore.Record {
	rec := rowstore.Record{
		"id":         c.ID,
		"kind":       string(c.Kind),
		"created_by": c.CreatedBy,
		"is_private": c.IsPrivate,
		"created_at": c.CreatedAt,
	}
	if c.Name != "" {
		rec["name"] = c.Name
	}
	if c.RecipientID != "" {
		rec["recipient_id"] = c.RecipientID
	}
	if c.PairKey != "" {
		rec["pair_key"] = c.PairKey
	}
	return rec
}

func Channel(rec rowstore.Record) model.Channel {
	return model.Channel{
		ID:          stringValue(rec, "id"),
		Kind:        model.ChannelKind(stringValue(rec, "kind")),
		Name:        stringValue(rec, "name"),
		CreatedBy:   stringValue(rec, "created_by"),
		RecipientID: stringValue(rec, "recipient_id"),
		PairKey:     stringValue(rec, "pair_key"),
		IsPrivate:   boolValue(rec, "is_private"),
		CreatedAt:   timeValue(rec, "created_at"),
	}
}

func MemberRecord(m model.Member) rowstore.Record {
	return rowstore.Record{
		"id":         m.ID,
		"channel_id": m.ChannelID,
		"user_id":    m.UserID,
		"member_key": model.MemberKey(m.ChannelID, m.UserID),
		"joined_at":  m.JoinedAt,
	}
}

func Member(rec rowstore.Record) model.Member {
	return model.Member{
		ID:        stringValue(rec, "id"),
		ChannelID: stringValue(rec, "channel_id"),
		UserID:    stringValue(rec, "user_id"),
		JoinedAt:  timeValue(rec, "joined_at"),
	}
}

func InvitationRecord(i model.Invitation) rowstore.Record {
	return rowstore.Record{
		"id":         i.ID,
		"channel_id": i.ChannelID,
		"user_id":    i.UserID,
		"invite_key": model.MemberKey(i.ChannelID, i.UserID),
		"invited_by": i.InvitedBy,
		"status":     string(i.Status),
		"created_at": i.CreatedAt,
	}
}

func Invitation(rec rowstore.Record) model.Invitation {
	return model.Invitation{
		ID:        stringValue(rec, "id"),
		ChannelID: stringValue(rec, "channel_id"),
		UserID:    stringValue(rec, "user_id"),
		InvitedBy: stringValue(rec, "invited_by"),
		Status:    model.InvitationStatus(stringValue(rec, "status")),
		CreatedAt: timeValue(rec, "created_at"),
	}
}

func MessageRecord(m model.Message) rowstore.Record {
	return rowstore.Record{
		"id":         m.ID,
		"channel_id": m.ChannelID,
		"sender_id":  m.SenderID,
		"kind":       string(m.Kind),
		"content":    m.Content,
		"created_at": m.CreatedAt,
	}
}

func Message(rec rowstore.Record) model.Message {
	return model.Message{
		ID:        stringValue(rec, "id"),
		ChannelID: stringValue(rec, "channel_id"),
		SenderID:  stringValue(rec, "sender_id"),
		Kind:      model.MessageKind(stringValue(rec, "kind")),
		Content:   stringValue(rec, "content"),
		CreatedAt: timeValue(rec, "created_at"),
	}
}
