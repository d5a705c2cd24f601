package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/domain/rules"
	"github.com/ivankudzin/naranja/internal/repo/rowmap"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
	"github.com/ivankudzin/naranja/internal/services/profiles"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

type ExclusionSource interface {
	DispositionedTargets(ctx context.Context, actorID string) (map[string]struct{}, error)
}

type ProfileSource interface {
	Get(ctx context.Context, userID string) (model.Profile, error)
	Present(ctx context.Context, items []model.Profile)
}

// Filters narrows a feed page. Gender and Orientation describe the viewer; when
// either is empty the viewer's saved profile supplies it.
type Filters struct {
	Limit       int
	Gender      string
	Orientation string
}

type Service struct {
	store      rowstore.Store
	exclusions ExclusionSource
	profiles   ProfileSource
	now        func() time.Time
}

func NewService(store rowstore.Store, exclusions ExclusionSource) *Service {
	return &Service{
		store:      store,
		exclusions: exclusions,
		now:        time.Now,
	}
}

func (s *Service) AttachProfiles(profiles ProfileSource) {
	s.profiles = profiles
}

// NextCandidates returns one page of opted-in profiles the user has not evaluated yet.
func (s *Service) NextCandidates(ctx context.Context, userID string, filters Filters) ([]model.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrValidation
	}
	if s.store == nil || s.exclusions == nil {
		return nil, fmt.Errorf("feed dependencies are not configured")
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	excluded, err := s.exclusions.DispositionedTargets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load exclusion set: %w", err)
	}
	excludedIDs := make([]any, 0, len(excluded))
	for id := range excluded {
		excludedIDs = append(excludedIDs, id)
	}

	f := rowstore.Where(
		rowstore.Eq("accepts_matching", true),
		rowstore.Neq("id", userID),
	)
	if len(excludedIDs) > 0 {
		f = f.And(rowstore.NotIn("id", excludedIDs...))
	}

	gender, orientation := s.viewerTraits(ctx, userID, filters)
	if targets, ok := rules.EligibleTargets(gender, orientation); ok {
		for _, target := range targets {
			f = f.Or(targetConds(target)...)
		}
	}

	rows, err := s.store.SelectMany(ctx, model.TableProfiles, f,
		rowstore.OrderBy("created_at", true),
		rowstore.Range(0, limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	now := s.now()
	items := make([]model.Profile, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowmap.Profile(row, now))
	}
	if s.profiles != nil {
		s.profiles.Present(ctx, items)
	}
	return items, nil
}

// Candidate returns a single opted-in profile for the detail view.
func (s *Service) Candidate(ctx context.Context, userID, candidateID string) (model.Profile, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(candidateID) == "" || userID == candidateID {
		return model.Profile{}, ErrValidation
	}
	if s.profiles == nil {
		return model.Profile{}, fmt.Errorf("feed profiles are not configured")
	}

	profile, err := s.profiles.Get(ctx, candidateID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("load candidate: %w", err)
	}
	if !profile.AcceptsMatching {
		return model.Profile{}, ErrNotFound
	}
	return profile, nil
}

func (s *Service) viewerTraits(ctx context.Context, userID string, filters Filters) (rules.Gender, rules.Orientation) {
	rawGender := strings.TrimSpace(filters.Gender)
	rawOrientation := strings.TrimSpace(filters.Orientation)
	if (rawGender == "" || rawOrientation == "") && s.profiles != nil {
		if viewer, err := s.profiles.Get(ctx, userID); err == nil {
			if rawGender == "" {
				rawGender = viewer.Gender
			}
			if rawOrientation == "" {
				rawOrientation = viewer.Orientation
			}
		}
	}

	gender, _ := rules.NormalizeGender(rawGender)
	orientation, _ := rules.NormalizeOrientation(rawOrientation)
	return gender, orientation
}

func targetConds(target rules.Target) []rowstore.Cond {
	conds := make([]rowstore.Cond, 0, 2)
	if target.Gender != "" {
		conds = append(conds, rowstore.Eq("gender", string(target.Gender)))
	}
	values := make([]any, 0, len(target.Orientations))
	for _, o := range target.Orientations {
		values = append(values, string(o))
	}
	return append(conds, rowstore.In("orientation", values...))
}
