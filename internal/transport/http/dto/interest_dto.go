package dto

import "time"

type TargetRequest struct {
	TargetID string `json:"target_id" validate:"notblank,max=64"`
}

type QuotaResponse struct {
	Allowed   bool       `json:"allowed"`
	Remaining int        `json:"remaining"`
	Unlimited bool       `json:"unlimited"`
	ResetAt   *time.Time `json:"reset_at"`
}

type LikeResponse struct {
	Matched   bool             `json:"matched"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
	ChannelID string           `json:"channel_id,omitempty"`
	Quota     QuotaResponse    `json:"quota"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
