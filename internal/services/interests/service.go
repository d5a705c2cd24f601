package interests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/repo/rowmap"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

var ErrValidation = errors.New("validation error")

// Service is the append-only interest ledger. Every call writes a new row;
// repeated dispositions for the same pair are kept.
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

// RecordInterest appends one disposition. actorID != targetID is left to the caller.
func (s *Service) RecordInterest(ctx context.Context, actorID, targetID string, disposition model.Disposition) error {
	actorID = strings.TrimSpace(actorID)
	targetID = strings.TrimSpace(targetID)
	if actorID == "" || targetID == "" || !disposition.Valid() {
		return ErrValidation
	}

	interest := model.Interest{
		ID:          s.newID(),
		ActorID:     actorID,
		TargetID:    targetID,
		Disposition: disposition,
		CreatedAt:   s.now().UTC(),
	}
	if _, err := s.store.Insert(ctx, model.TableInterests, rowmap.InterestRecord(interest)); err != nil {
		return fmt.Errorf("record %s interest: %w", disposition, err)
	}
	return nil
}

// HasReciprocalLike reports whether targetID has already liked actorID.
func (s *Service) HasReciprocalLike(ctx context.Context, actorID, targetID string) (bool, error) {
	actorID = strings.TrimSpace(actorID)
	targetID = strings.TrimSpace(targetID)
	if actorID == "" || targetID == "" {
		return false, ErrValidation
	}

	_, err := s.store.SelectOne(ctx, model.TableInterests, rowstore.Where(
		rowstore.Eq("actor_id", targetID),
		rowstore.Eq("target_id", actorID),
		rowstore.Eq("disposition", string(model.DispositionLike)),
	))
	if err != nil {
		if rowstore.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("lookup reciprocal like: %w", err)
	}
	return true, nil
}

// DispositionedTargets returns every user the actor has liked or passed.
func (s *Service) DispositionedTargets(ctx context.Context, actorID string) (map[string]struct{}, error) {
	rows, err := s.list(ctx, rowstore.Where(rowstore.Eq("actor_id", actorID)))
	if err != nil {
		return nil, err
	}

	out := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		out[row.TargetID] = struct{}{}
	}
	return out, nil
}

// Liked lists the users actorID has liked, most recent first, without duplicates.
func (s *Service) Liked(ctx context.Context, actorID string) ([]string, error) {
	rows, err := s.list(ctx, rowstore.Where(
		rowstore.Eq("actor_id", actorID),
		rowstore.Eq("disposition", string(model.DispositionLike)),
	))
	if err != nil {
		return nil, err
	}
	return uniqueIDs(rows, func(i model.Interest) string { return i.TargetID }), nil
}

// LikedBy lists the users who liked userID, most recent first, without duplicates.
func (s *Service) LikedBy(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.list(ctx, rowstore.Where(
		rowstore.Eq("target_id", userID),
		rowstore.Eq("disposition", string(model.DispositionLike)),
	))
	if err != nil {
		return nil, err
	}
	return uniqueIDs(rows, func(i model.Interest) string { return i.ActorID }), nil
}

func (s *Service) list(ctx context.Context, f rowstore.Filter) ([]model.Interest, error) {
	for _, c := range f.All {
		if v, _ := c.Value.(string); strings.TrimSpace(v) == "" {
			return nil, ErrValidation
		}
	}

	rows, err := s.store.SelectMany(ctx, model.TableInterests, f, rowstore.OrderBy("created_at", true))
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}

	out := make([]model.Interest, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowmap.Interest(row))
	}
	return out, nil
}

func uniqueIDs(rows []model.Interest, pick func(model.Interest) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		id := pick(row)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
