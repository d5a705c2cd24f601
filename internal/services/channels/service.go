package channels

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/repo/rowmap"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

const (
	maxMessageRunes     = 4000
	defaultMessagesPage = 50
	maxMessagesPage     = 200
	defaultChannelsPage = 50
	maxChannelsPage     = 200
	maxGroupNameRunes   = 80
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("channel not found")
	ErrForbidden  = errors.New("not a channel participant")
	ErrNotGroup   = errors.New("channel is not a group")
	ErrMember     = errors.New("user is already a member")
	ErrInvitation = errors.New("invitation not found")
)

type Service struct {
	store rowstore.Store
	now   func() time.Time
	newID func() string
}

func NewService(store rowstore.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// ResolveDirectChannel returns the direct channel between userA and userB, creating it
// with userA as creator when none exists. A concurrent creation that loses on the
// unique pair key resolves to the winner's channel.
func (s *Service) ResolveDirectChannel(ctx context.Context, userA, userB string) (string, error) {
	userA = strings.TrimSpace(userA)
	userB = strings.TrimSpace(userB)
	if userA == "" || userB == "" || userA == userB {
		return "", ErrValidation
	}

	existing, err := s.findDirect(ctx, userA, userB)
	if err == nil {
		return existing.ID, nil
	}
	if !rowstore.IsNoRows(err) {
		return "", fmt.Errorf("lookup direct channel: %w", err)
	}

	channel := model.Channel{
		ID:          s.newID(),
		Kind:        model.ChannelDirect,
		CreatedBy:   userA,
		RecipientID: userB,
		PairKey:     model.PairKey(userA, userB),
		IsPrivate:   true,
		CreatedAt:   s.now().UTC(),
	}
	rec, err := s.store.Insert(ctx, model.TableChannels, rowmap.ChannelRecord(channel))
	if err == nil {
		return rowmap.Channel(rec).ID, nil
	}
	if !rowstore.IsConflict(err) {
		return "", fmt.Errorf("create direct channel: %w", err)
	}

	winner, err := s.findDirect(ctx, userA, userB)
	if err != nil {
		return "", fmt.Errorf("reload direct channel after conflict: %w", err)
	}
	return winner.ID, nil
}

// ListChannels returns the direct channels userID takes part in and the groups
// they joined, newest first.
func (s *Service) ListChannels(ctx context.Context, userID string, limit int) ([]model.Channel, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrValidation
	}
	size := pageSize(limit, defaultChannelsPage, maxChannelsPage)

	f := rowstore.Where(rowstore.Eq("kind", string(model.ChannelDirect))).
		Or(rowstore.Eq("created_by", userID)).
		Or(rowstore.Eq("recipient_id", userID))
	rows, err := s.store.SelectMany(ctx, model.TableChannels, f,
		rowstore.OrderBy("created_at", true),
		rowstore.Range(0, size),
	)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	groupIDs, err := s.memberChannelIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) > 0 {
		groups, err := s.store.SelectMany(ctx, model.TableChannels,
			rowstore.Where(rowstore.Eq("kind", string(model.ChannelGroup)), rowstore.In("id", groupIDs...)),
			rowstore.OrderBy("created_at", true),
			rowstore.Range(0, size),
		)
		if err != nil {
			return nil, fmt.Errorf("list group channels: %w", err)
		}
		rows = append(rows, groups...)
	}

	out := make([]model.Channel, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowmap.Channel(row))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > size {
		out = out[:size]
	}
	return out, nil
}

// Channel loads a channel the user participates in.
func (s *Service) Channel(ctx context.Context, channelID, userID string) (model.Channel, error) {
	channelID = strings.TrimSpace(channelID)
	userID = strings.TrimSpace(userID)
	if channelID == "" || userID == "" {
		return model.Channel{}, ErrValidation
	}

	channel, err := s.load(ctx, channelID)
	if err != nil {
		return model.Channel{}, err
	}

	ok, err := s.isParticipant(ctx, channel, userID)
	if err != nil {
		return model.Channel{}, err
	}
	if !ok {
		return model.Channel{}, ErrForbidden
	}
	return channel, nil
}

func (s *Service) SendMessage(ctx context.Context, channelID, senderID, content string) (model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxMessageRunes {
		return model.Message{}, fmt.Errorf("invalid message content: %w", ErrValidation)
	}

	channel, err := s.Channel(ctx, channelID, senderID)
	if err != nil {
		return model.Message{}, err
	}

	msg := model.Message{
		ID:        s.newID(),
		ChannelID: channel.ID,
		SenderID:  senderID,
		Kind:      model.MessageText,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	rec, err := s.store.Insert(ctx, model.TableMessages, rowmap.MessageRecord(msg))
	if err != nil {
		return model.Message{}, fmt.Errorf("send message: %w", err)
	}
	return rowmap.Message(rec), nil
}

// ListMessages returns the latest messages of a channel, newest first.
func (s *Service) ListMessages(ctx context.Context, channelID, userID string, limit int) ([]model.Message, error) {
	channel, err := s.Channel(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.SelectMany(ctx, model.TableMessages,
		rowstore.Where(rowstore.Eq("channel_id", channel.ID)),
		rowstore.OrderBy("created_at", true),
		rowstore.Range(0, pageSize(limit, defaultMessagesPage, maxMessagesPage)),
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowmap.Message(row))
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, channelID string) (model.Channel, error) {
	rec, err := s.store.SelectOne(ctx, model.TableChannels, rowstore.Where(rowstore.Eq("id", channelID)))
	if err != nil {
		if rowstore.IsNoRows(err) {
			return model.Channel{}, ErrNotFound
		}
		return model.Channel{}, fmt.Errorf("get channel: %w", err)
	}
	return rowmap.Channel(rec), nil
}

func (s *Service) isParticipant(ctx context.Context, channel model.Channel, userID string) (bool, error) {
	if channel.Kind != model.ChannelGroup {
		return channel.HasParticipant(userID), nil
	}

	_, err := s.store.SelectOne(ctx, model.TableMembers,
		rowstore.Where(rowstore.Eq("member_key", model.MemberKey(channel.ID, userID))))
	switch {
	case err == nil:
		return true, nil
	case rowstore.IsNoRows(err):
		return false, nil
	default:
		return false, fmt.Errorf("check channel membership: %w", err)
	}
}

func (s *Service) memberChannelIDs(ctx context.Context, userID string) ([]any, error) {
	rows, err := s.store.SelectMany(ctx, model.TableMembers, rowstore.Where(rowstore.Eq("user_id", userID)))
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, rowmap.Member(row).ChannelID)
	}
	return ids, nil
}

func (s *Service) findDirect(ctx context.Context, userA, userB string) (model.Channel, error) {
	f := rowstore.Where(rowstore.Eq("kind", string(model.ChannelDirect))).
		Or(rowstore.Eq("created_by", userA), rowstore.Eq("recipient_id", userB)).
		Or(rowstore.Eq("created_by", userB), rowstore.Eq("recipient_id", userA))

	rec, err := s.store.SelectOne(ctx, model.TableChannels, f)
	if err != nil {
		return model.Channel{}, err
	}
	return rowmap.Channel(rec), nil
}

func pageSize(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
