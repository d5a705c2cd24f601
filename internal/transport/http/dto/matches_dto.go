package dto

import "time"

type MatchResponse struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Profile   *ProfileResponse `json:"profile"`
	CreatedAt time.Time        `json:"created_at"`
}

type MatchesResponse struct {
	Items []MatchResponse `json:"items"`
}

type UnmatchResponse struct {
	Unmatched bool `json:"unmatched"`
}
