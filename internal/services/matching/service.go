package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/repo/rowmap"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
	limitssvc "github.com/ivankudzin/naranja/internal/services/limits"
)

// Ordering decides whether the reciprocity check runs before or after the like is recorded.
type Ordering string

const (
	// OrderingCheckFirst reads reciprocity on pre-insert state.
	OrderingCheckFirst Ordering = "check_first"
	// OrderingRecordFirst records first so two crossing likes cannot both miss the match.
	OrderingRecordFirst Ordering = "record_first"
)

const (
	defaultMatchesPage = 50
	maxMatchesPage     = 200
)

var (
	ErrValidation      = errors.New("validation error")
	ErrDailyLimit      = errors.New("daily likes limit reached")
	ErrDependenciesNil = errors.New("matching dependencies are not configured")
)

type Ledger interface {
	RecordInterest(ctx context.Context, actorID, targetID string, disposition model.Disposition) error
	HasReciprocalLike(ctx context.Context, actorID, targetID string) (bool, error)
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (model.Profile, error)
	GetMany(ctx context.Context, ids []string) (map[string]model.Profile, error)
}

type ChannelResolver interface {
	ResolveDirectChannel(ctx context.Context, userA, userB string) (string, error)
}

type LikeLimiter interface {
	ConsumeLike(ctx context.Context, userID string, isPremium bool) (limitssvc.Status, bool, error)
	RefundLike(ctx context.Context, userID string, isPremium bool) error
}

type Config struct {
	Ordering Ordering
}

// Outcome of a like. Profile may be nil on a match when the profile could not be loaded.
type Outcome struct {
	Matched   bool
	Profile   *model.Profile
	ChannelID string
}

type MatchView struct {
	Match   model.Match
	Profile *model.Profile
}

type Dependencies struct {
	Store    rowstore.Store
	Ledger   Ledger
	Profiles ProfileReader
	Channels ChannelResolver
	Limiter  LikeLimiter
	Logger   *zap.Logger
}

type Service struct {
	store    rowstore.Store
	ledger   Ledger
	profiles ProfileReader
	channels ChannelResolver
	limiter  LikeLimiter
	log      *zap.Logger
	cfg      Config
	now      func() time.Time
	newID    func() string
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.Ordering != OrderingCheckFirst {
		cfg.Ordering = OrderingRecordFirst
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		store:    deps.Store,
		ledger:   deps.Ledger,
		profiles: deps.Profiles,
		channels: deps.Channels,
		limiter:  deps.Limiter,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ProcessLike records actorID's like for targetID and reports whether it completes a match.
// A failed write never reports a match.
func (s *Service) ProcessLike(ctx context.Context, actorID, targetID string) (Outcome, error) {
	actorID = strings.TrimSpace(actorID)
	targetID = strings.TrimSpace(targetID)
	if actorID == "" || targetID == "" {
		return Outcome{}, ErrValidation
	}
	if s.ledger == nil {
		return Outcome{}, ErrDependenciesNil
	}

	var reciprocal bool
	if s.cfg.Ordering == OrderingCheckFirst {
		reciprocal = s.reciprocal(ctx, actorID, targetID)
	}

	if err := s.ledger.RecordInterest(ctx, actorID, targetID, model.DispositionLike); err != nil {
		return Outcome{Matched: false}, fmt.Errorf("record like: %w", err)
	}

	if s.cfg.Ordering == OrderingRecordFirst {
		reciprocal = s.reciprocal(ctx, actorID, targetID)
	}
	if !reciprocal {
		return Outcome{Matched: false}, nil
	}

	return s.completeMatch(ctx, actorID, targetID), nil
}

func (s *Service) ProcessPass(ctx context.Context, actorID, targetID string) error {
	if strings.TrimSpace(actorID) == "" || strings.TrimSpace(targetID) == "" {
		return ErrValidation
	}
	if s.ledger == nil {
		return ErrDependenciesNil
	}
	if err := s.ledger.RecordInterest(ctx, actorID, targetID, model.DispositionPass); err != nil {
		return fmt.Errorf("record pass: %w", err)
	}
	return nil
}

// LikeWithQuota takes a like from the daily allowance, then runs ProcessLike.
// The like is handed back when it could not be recorded.
func (s *Service) LikeWithQuota(ctx context.Context, actorID, targetID string, isPremium bool) (Outcome, limitssvc.Status, error) {
	if s.limiter == nil {
		return Outcome{}, limitssvc.Status{}, ErrDependenciesNil
	}

	status, granted, err := s.limiter.ConsumeLike(ctx, actorID, isPremium)
	if err != nil {
		if errors.Is(err, limitssvc.ErrValidation) {
			return Outcome{}, limitssvc.Status{}, ErrValidation
		}
		return Outcome{}, limitssvc.Status{}, fmt.Errorf("check like quota: %w", err)
	}
	if !granted {
		return Outcome{}, status, ErrDailyLimit
	}

	outcome, err := s.ProcessLike(ctx, actorID, targetID)
	if err != nil {
		if rerr := s.limiter.RefundLike(ctx, actorID, isPremium); rerr != nil {
			s.log.Warn("refund like failed", zap.String("user_id", actorID), zap.Error(rerr))
		} else if status.Remaining >= 0 {
			status.Remaining++
			status.Allowed = true
		}
		return outcome, status, err
	}
	return outcome, status, nil
}

// ListMatches returns the user's active matches, newest first, with the counterpart profile.
func (s *Service) ListMatches(ctx context.Context, userID string, limit int) ([]MatchView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, ErrDependenciesNil
	}
	if limit <= 0 {
		limit = defaultMatchesPage
	}
	if limit > maxMatchesPage {
		limit = maxMatchesPage
	}

	f := rowstore.Where(rowstore.Eq("status", string(model.MatchActive))).
		Or(rowstore.Eq("user_a_id", userID)).
		Or(rowstore.Eq("user_b_id", userID))
	rows, err := s.store.SelectMany(ctx, model.TableMatches, f,
		rowstore.OrderBy("created_at", true),
		rowstore.Range(0, limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	views := make([]MatchView, 0, len(rows))
	counterparts := make([]string, 0, len(rows))
	for _, row := range rows {
		m := rowmap.Match(row)
		views = append(views, MatchView{Match: m})
		counterparts = append(counterparts, m.Counterpart(userID))
	}

	if s.profiles != nil && len(counterparts) > 0 {
		profiles, err := s.profiles.GetMany(ctx, counterparts)
		if err != nil {
			s.log.Warn("load match profiles failed", zap.String("user_id", userID), zap.Error(err))
		} else {
			for i := range views {
				if p, ok := profiles[counterparts[i]]; ok {
					views[i].Profile = &p
				}
			}
		}
	}
	return views, nil
}

// Unmatch deactivates the match between the two users. It reports false when no
// active match existed.
func (s *Service) Unmatch(ctx context.Context, userID, targetID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(targetID) == "" {
		return false, ErrValidation
	}
	if s.store == nil {
		return false, ErrDependenciesNil
	}

	_, err := s.store.Update(ctx, model.TableMatches,
		rowstore.Where(
			rowstore.Eq("pair_key", model.PairKey(userID, targetID)),
			rowstore.Eq("status", string(model.MatchActive)),
		),
		rowstore.Record{"status": string(model.MatchUnmatched)},
	)
	if err != nil {
		if rowstore.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("unmatch: %w", err)
	}
	return true, nil
}

// CanChat reports whether the two users share an active match.
func (s *Service) CanChat(ctx context.Context, userID, otherID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(otherID) == "" {
		return false, ErrValidation
	}
	if s.store == nil {
		return false, ErrDependenciesNil
	}

	_, err := s.store.SelectOne(ctx, model.TableMatches, rowstore.Where(
		rowstore.Eq("pair_key", model.PairKey(userID, otherID)),
		rowstore.Eq("status", string(model.MatchActive)),
	))
	if err != nil {
		if rowstore.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("lookup match: %w", err)
	}
	return true, nil
}

// reciprocal treats a failed read as no reciprocal like.
func (s *Service) reciprocal(ctx context.Context, actorID, targetID string) bool {
	ok, err := s.ledger.HasReciprocalLike(ctx, actorID, targetID)
	if err != nil {
		s.log.Warn("reciprocal like lookup failed",
			zap.String("actor_id", actorID),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
		return false
	}
	return ok
}

// completeMatch persists the match, resolves the direct channel and loads the target
// profile. Each step failing is logged and leaves the outcome matched.
func (s *Service) completeMatch(ctx context.Context, actorID, targetID string) Outcome {
	outcome := Outcome{Matched: true}

	if s.store != nil {
		if _, err := s.ensureMatch(ctx, actorID, targetID); err != nil {
			s.log.Warn("persist match failed",
				zap.String("actor_id", actorID),
				zap.String("target_id", targetID),
				zap.Error(err),
			)
		}
	}

	if s.channels != nil {
		channelID, err := s.channels.ResolveDirectChannel(ctx, actorID, targetID)
		if err != nil {
			s.log.Warn("resolve match channel failed",
				zap.String("actor_id", actorID),
				zap.String("target_id", targetID),
				zap.Error(err),
			)
		} else {
			outcome.ChannelID = channelID
		}
	}

	if s.profiles != nil {
		profile, err := s.profiles.Get(ctx, targetID)
		if err != nil {
			s.log.Warn("load matched profile failed", zap.String("target_id", targetID), zap.Error(err))
		} else {
			outcome.Profile = &profile
		}
	}

	return outcome
}

// ensureMatch inserts the match keyed by the unordered pair. A conflict means the row
// exists already; an unmatched row is reactivated.
func (s *Service) ensureMatch(ctx context.Context, actorID, targetID string) (model.Match, error) {
	userA, userB := model.OrderedPair(actorID, targetID)
	m := model.Match{
		ID:        s.newID(),
		UserAID:   userA,
		UserBID:   userB,
		PairKey:   model.PairKey(userA, userB),
		Status:    model.MatchActive,
		CreatedAt: s.now().UTC(),
	}

	rec, err := s.store.Insert(ctx, model.TableMatches, rowmap.MatchRecord(m))
	if err == nil {
		return rowmap.Match(rec), nil
	}
	if !rowstore.IsConflict(err) {
		return model.Match{}, fmt.Errorf("create match: %w", err)
	}

	rec, err = s.store.SelectOne(ctx, model.TableMatches, rowstore.Where(rowstore.Eq("pair_key", m.PairKey)))
	if err != nil {
		return model.Match{}, fmt.Errorf("load existing match: %w", err)
	}
	existing := rowmap.Match(rec)
	if existing.Status == model.MatchActive {
		return existing, nil
	}

	rec, err = s.store.Update(ctx, model.TableMatches,
		rowstore.Where(rowstore.Eq("pair_key", m.PairKey)),
		rowstore.Record{"status": string(model.MatchActive)},
	)
	if err != nil {
		return model.Match{}, fmt.Errorf("reactivate match: %w", err)
	}
	return rowmap.Match(rec), nil
}
