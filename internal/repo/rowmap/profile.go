package rowmap

import (
	"time"

	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/domain/rules"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

func ProfileRecord(p model.Profile) rowstore.Record {
	return rowstore.Record{
		"id":               p.ID,
		"display_name":     p.DisplayName,
		"gender":           p.Gender,
		"orientation":      p.Orientation,
		"accepts_matching": p.AcceptsMatching,
		"is_premium":       p.IsPremium,
		"avatar_key":       p.AvatarKey,
		"birth_date":       p.BirthDate,
		"bio":              p.Bio,
		"profession":       p.Profession,
		"zodiac":           p.Zodiac,
		"hobbies":          encodeStrings(p.Hobbies),
		"created_at":       p.CreatedAt,
	}
}

// Profile decodes a profiles row. Age and a missing zodiac sign are derived
// from the birth date relative to now.
func Profile(rec rowstore.Record, now time.Time) model.Profile {
	p := model.Profile{
		ID:              stringValue(rec, "id"),
		DisplayName:     stringValue(rec, "display_name"),
		Gender:          stringValue(rec, "gender"),
		Orientation:     stringValue(rec, "orientation"),
		AcceptsMatching: boolValue(rec, "accepts_matching"),
		IsPremium:       boolValue(rec, "is_premium"),
		AvatarKey:       stringValue(rec, "avatar_key"),
		BirthDate:       stringValue(rec, "birth_date"),
		Bio:             stringValue(rec, "bio"),
		Profession:      stringValue(rec, "profession"),
		Zodiac:          stringValue(rec, "zodiac"),
		Hobbies:         stringsValue(rec, "hobbies"),
		CreatedAt:       timeValue(rec, "created_at"),
	}

	if birth, err := rules.ParseBirthDate(p.BirthDate); err == nil && !birth.IsZero() {
		p.Age = rules.AgeAt(birth, now)
		if p.Zodiac == "" {
			p.Zodiac = rules.ZodiacFromBirthdate(birth)
		}
	}
	return p
}
