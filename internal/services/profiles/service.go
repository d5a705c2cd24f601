package profiles

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
)

const (
	avatarURLTTL  = 10 * time.Minute
	minAge        = 18
	maxHobbies    = 10
	maxBioRunes   = 500
	maxNameRunes  = 60
	maxFieldRunes = 80
)

var (
	ErrValidation  = errors.New("validation error")
	ErrAgeRejected = errors.New("age rejected")
	ErrNotFound    = errors.New("profile not found")
)

type AvatarSigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service struct {
	store  rowstore.Store
	signer AvatarSigner
	now    func() time.Time
}

type Input struct {
	DisplayName     string
	Gender          string
	Orientation     string
	AcceptsMatching bool
	AvatarKey       string
	BirthDate       string
	Bio             string
	Profession      string
	Hobbies         []string
}

func NewService(store rowstore.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) AttachAvatarSigner(signer AvatarSigner) {
	s.signer = signer
}

func (s *Service) Get(ctx context.Context, userID string) (model.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Profile{}, ErrValidation
	}

	rec, err := s.store.SelectOne(ctx, model.TableProfiles, rowstore.Where(rowstore.Eq("id", userID)))
	if err != nil {
		if rowstore.IsNoRows(err) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	profile := rowmap.Profile(rec, s.now())
	s.present(ctx, &profile)
	return profile, nil
}

// GetMany loads profiles by id. Missing ids are absent from the result.
func (s *Service) GetMany(ctx context.Context, ids []string) (map[string]model.Profile, error) {
	out := make(map[string]model.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	rows, err := s.store.SelectMany(ctx, model.TableProfiles, rowstore.Where(rowstore.In("id", values...)))
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}

	now := s.now()
	for _, rec := range rows {
		profile := rowmap.Profile(rec, now)
		s.present(ctx, &profile)
		out[profile.ID] = profile
	}
	return out, nil
}

// Present fills avatar URLs for profiles loaded elsewhere.
func (s *Service) Present(ctx context.Context, items []model.Profile) {
	for i := range items {
		s.present(ctx, &items[i])
	}
}

// Save creates or replaces the caller's profile. Premium status is never taken from input.
func (s *Service) Save(ctx context.Context, userID string, in Input) (model.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}

	now := s.now().UTC()
	profile, err := normalizeInput(now, in)
	if err != nil {
		return model.Profile{}, err
	}
	profile.ID = userID

	rec := rowmap.ProfileRecord(profile)
	delete(rec, "id")
	delete(rec, "created_at")
	delete(rec, "is_premium")

	filter := rowstore.Where(rowstore.Eq("id", userID))
	updated, err := s.store.Update(ctx, model.TableProfiles, filter, rec)
	switch {
	case err == nil:
		profile = rowmap.Profile(updated, now)
	case rowstore.IsNoRows(err):
		profile.CreatedAt = now
		inserted, insertErr := s.store.Insert(ctx, model.TableProfiles, rowmap.ProfileRecord(profile))
		switch {
		case insertErr == nil:
			profile = rowmap.Profile(inserted, now)
		case rowstore.IsConflict(insertErr):
			// A concurrent first save created the row; overwrite it.
			updated, err = s.store.Update(ctx, model.TableProfiles, filter, rec)
			if err != nil {
				return model.Profile{}, fmt.Errorf("update profile after conflict: %w", err)
			}
			profile = rowmap.Profile(updated, now)
		default:
			return model.Profile{}, fmt.Errorf("create profile: %w", insertErr)
		}
	default:
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	s.present(ctx, &profile)
	return profile, nil
}

func (s *Service) present(ctx context.Context, p *model.Profile) {
	p.AvatarURL = s.avatarURL(ctx, p.AvatarKey)
}

func (s *Service) avatarURL(ctx context.Context, key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	if s.signer == nil {
		return ""
	}

	url, err := s.signer.PresignGet(ctx, trimmed, avatarURLTTL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(url)
}

func normalizeInput(now time.Time, in Input) (model.Profile, error) {
	out := model.Profile{
		DisplayName:     strings.TrimSpace(in.DisplayName),
		AcceptsMatching: in.AcceptsMatching,
		AvatarKey:       strings.TrimSpace(in.AvatarKey),
		Bio:             strings.TrimSpace(in.Bio),
		Profession:      strings.TrimSpace(in.Profession),
	}
	if out.DisplayName == "" || runeLen(out.DisplayName) > maxNameRunes {
		return model.Profile{}, fmt.Errorf("invalid display_name: %w", ErrValidation)
	}
	if runeLen(out.Bio) > maxBioRunes || runeLen(out.Profession) > maxFieldRunes {
		return model.Profile{}, fmt.Errorf("text field too long: %w", ErrValidation)
	}

	gender, ok := rules.NormalizeGender(in.Gender)
	if !ok {
		return model.Profile{}, fmt.Errorf("invalid gender: %w", ErrValidation)
	}
	orientation, ok := rules.NormalizeOrientation(in.Orientation)
	if !ok {
		return model.Profile{}, fmt.Errorf("invalid orientation: %w", ErrValidation)
	}
	out.Gender = string(gender)
	out.Orientation = string(orientation)

	birth, err := rules.ParseBirthDate(in.BirthDate)
	if err != nil || birth.IsZero() {
		return model.Profile{}, fmt.Errorf("invalid birth_date: %w", ErrValidation)
	}
	if rules.AgeAt(birth, now) < minAge {
		return model.Profile{}, ErrAgeRejected
	}
	out.BirthDate = birth.Format(rules.BirthDateLayout)
	out.Zodiac = rules.ZodiacFromBirthdate(birth)

	hobbies, err := normalizeHobbies(in.Hobbies)
	if err != nil {
		return model.Profile{}, err
	}
	out.Hobbies = hobbies

	return out, nil
}

func normalizeHobbies(values []string) ([]string, error) {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized == "" {
			continue
		}
		if runeLen(normalized) > maxFieldRunes {
			return nil, fmt.Errorf("hobby %q is too long: %w", normalized, ErrValidation)
		}
		key := strings.ToLower(normalized)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, normalized)
	}
	if len(result) > maxHobbies {
		return nil, fmt.Errorf("too many hobbies: %w", ErrValidation)
	}
	return result, nil
}

func runeLen(s string) int {
	return len([]rune(s))
}
