package channels

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/repo/rowmap"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

// CreateGroupChannel opens a named group with the creator as its first member.
// Everyone else joins by invitation.
func (s *Service) CreateGroupChannel(ctx context.Context, creatorID, name string, isPrivate bool) (model.Channel, error) {
	creatorID = strings.TrimSpace(creatorID)
	name = strings.TrimSpace(name)
	if creatorID == "" || name == "" || utf8.RuneCountInString(name) > maxGroupNameRunes {
		return model.Channel{}, ErrValidation
	}

	channel := model.Channel{
		ID:        s.newID(),
		Kind:      model.ChannelGroup,
		Name:      name,
		CreatedBy: creatorID,
		IsPrivate: isPrivate,
		CreatedAt: s.now().UTC(),
	}
	rec, err := s.store.Insert(ctx, model.TableChannels, rowmap.ChannelRecord(channel))
	if err != nil {
		return model.Channel{}, fmt.Errorf("create group channel: %w", err)
	}
	channel = rowmap.Channel(rec)

	if err := s.join(ctx, channel.ID, creatorID); err != nil {
		return model.Channel{}, err
	}
	return channel, nil
}

// InviteToGroup asks inviteeID to join. Only members may invite. A declined
// invitation is reopened rather than duplicated.
func (s *Service) InviteToGroup(ctx context.Context, channelID, inviterID, inviteeID string) (model.Invitation, error) {
	inviteeID = strings.TrimSpace(inviteeID)
	if inviteeID == "" || strings.TrimSpace(inviterID) == inviteeID {
		return model.Invitation{}, ErrValidation
	}

	channel, err := s.Channel(ctx, channelID, inviterID)
	if err != nil {
		return model.Invitation{}, err
	}
	if channel.Kind != model.ChannelGroup {
		return model.Invitation{}, ErrNotGroup
	}

	member, err := s.isParticipant(ctx, channel, inviteeID)
	if err != nil {
		return model.Invitation{}, err
	}
	if member {
		return model.Invitation{}, ErrMember
	}

	inv := model.Invitation{
		ID:        s.newID(),
		ChannelID: channel.ID,
		UserID:    inviteeID,
		InvitedBy: strings.TrimSpace(inviterID),
		Status:    model.InvitationPending,
		CreatedAt: s.now().UTC(),
	}
	rec, err := s.store.Insert(ctx, model.TableInvitations, rowmap.InvitationRecord(inv))
	if err == nil {
		return rowmap.Invitation(rec), nil
	}
	if !rowstore.IsConflict(err) {
		return model.Invitation{}, fmt.Errorf("create invitation: %w", err)
	}

	rec, err = s.store.Update(ctx, model.TableInvitations,
		rowstore.Where(rowstore.Eq("invite_key", model.MemberKey(channel.ID, inviteeID))),
		rowstore.Record{
			"invited_by": inv.InvitedBy,
			"status":     string(model.InvitationPending),
			"created_at": inv.CreatedAt,
		})
	if err != nil {
		return model.Invitation{}, fmt.Errorf("reopen invitation: %w", err)
	}
	return rowmap.Invitation(rec), nil
}

// ListInvitations returns the user's pending invitations, newest first.
func (s *Service) ListInvitations(ctx context.Context, userID string, limit int) ([]model.Invitation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrValidation
	}

	rows, err := s.store.SelectMany(ctx, model.TableInvitations,
		rowstore.Where(rowstore.Eq("user_id", userID), rowstore.Eq("status", string(model.InvitationPending))),
		rowstore.OrderBy("created_at", true),
		rowstore.Range(0, pageSize(limit, defaultChannelsPage, maxChannelsPage)),
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	out := make([]model.Invitation, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowmap.Invitation(row))
	}
	return out, nil
}

// RespondToInvitation accepts or declines a pending invitation addressed to
// userID. Accepting adds the membership.
func (s *Service) RespondToInvitation(ctx context.Context, invitationID, userID string, accept bool) (model.Invitation, error) {
	invitationID = strings.TrimSpace(invitationID)
	userID = strings.TrimSpace(userID)
	if invitationID == "" || userID == "" {
		return model.Invitation{}, ErrValidation
	}

	status := model.InvitationDeclined
	if accept {
		status = model.InvitationAccepted
	}

	// The status guard makes a second answer to the same invitation a miss.
	rec, err := s.store.Update(ctx, model.TableInvitations,
		rowstore.Where(
			rowstore.Eq("id", invitationID),
			rowstore.Eq("user_id", userID),
			rowstore.Eq("status", string(model.InvitationPending)),
		),
		rowstore.Record{"status": string(status)})
	if err != nil {
		if rowstore.IsNoRows(err) {
			return model.Invitation{}, ErrInvitation
		}
		return model.Invitation{}, fmt.Errorf("answer invitation: %w", err)
	}
	inv := rowmap.Invitation(rec)

	if accept {
		if err := s.join(ctx, inv.ChannelID, userID); err != nil {
			return model.Invitation{}, err
		}
	}
	return inv, nil
}

// Members lists the user ids taking part in a channel the caller can see.
func (s *Service) Members(ctx context.Context, channelID, userID string) ([]string, error) {
	channel, err := s.Channel(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}
	if channel.Kind != model.ChannelGroup {
		return []string{channel.CreatedBy, channel.RecipientID}, nil
	}

	rows, err := s.store.SelectMany(ctx, model.TableMembers,
		rowstore.Where(rowstore.Eq("channel_id", channel.ID)),
		rowstore.OrderBy("joined_at", false),
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowmap.Member(row).UserID)
	}
	return out, nil
}

// join is idempotent: an existing seat is kept.
func (s *Service) join(ctx context.Context, channelID, userID string) error {
	member := model.Member{
		ID:        s.newID(),
		ChannelID: channelID,
		UserID:    userID,
		JoinedAt:  s.now().UTC(),
	}
	if _, err := s.store.Insert(ctx, model.TableMembers, rowmap.MemberRecord(member)); err != nil && !rowstore.IsConflict(err) {
		return fmt.Errorf("add channel member: %w", err)
	}
	return nil
}
