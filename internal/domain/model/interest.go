package model

import "time"

const TableInterests = "interests"

type Disposition string

const (
	DispositionLike Disposition = "like"
	DispositionPass Disposition = "pass"
)

func (d Disposition) Valid() bool {
	return d == DispositionLike || d == DispositionPass
}

type Interest struct {
	ID          string      `json:"id"`
	ActorID     string      `json:"actor_id"`
	TargetID    string      `json:"target_id"`
	Disposition Disposition `json:"disposition"`
	CreatedAt   time.Time   `json:"created_at"`
}
