package model

import "time"

const TableProfiles = "profiles"

type Profile struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"display_name"`
	Gender          string    `json:"gender"`
	Orientation     string    `json:"orientation"`
	AcceptsMatching bool      `json:"accepts_matching"`
	IsPremium       bool      `json:"is_premium"`
	AvatarKey       string    `json:"-"`
	AvatarURL       string    `json:"avatar_url"`
	BirthDate       string    `json:"birth_date,omitempty"`
	Age             int       `json:"age,omitempty"`
	Bio             string    `json:"bio"`
	Profession      string    `json:"profession"`
	Zodiac          string    `json:"zodiac"`
	Hobbies         []string  `json:"hobbies"`
	CreatedAt       time.Time `json:"created_at"`
}
