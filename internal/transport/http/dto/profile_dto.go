package dto

import "time"

type ProfileResponse struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"display_name"`
	Gender          string    `json:"gender"`
	Orientation     string    `json:"orientation"`
	AcceptsMatching bool      `json:"accepts_matching"`
	IsPremium       bool      `json:"is_premium"`
	AvatarURL       *string   `json:"avatar_url"`
	Age             int       `json:"age,omitempty"`
	BirthDate       string    `json:"birth_date,omitempty"`
	Bio             string    `json:"bio"`
	Profession      string    `json:"profession"`
	Zodiac          string    `json:"zodiac,omitempty"`
	Hobbies         []string  `json:"hobbies"`
	CreatedAt       time.Time `json:"created_at"`
}

type SaveProfileRequest struct {
	DisplayName     string   `json:"display_name" validate:"notblank,max=60"`
	Gender          string   `json:"gender" validate:"notblank"`
	Orientation     string   `json:"orientation" validate:"notblank"`
	AcceptsMatching bool     `json:"accepts_matching"`
	AvatarKey       string   `json:"avatar_key" validate:"max=512"`
	BirthDate       string   `json:"birth_date" validate:"notblank"`
	Bio             string   `json:"bio" validate:"max=500"`
	Profession      string   `json:"profession" validate:"max=80"`
	Hobbies         []string `json:"hobbies" validate:"max=10,dive,max=40"`
}
