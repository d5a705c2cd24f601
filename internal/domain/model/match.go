package model

import "time"

const TableMatches = "matches"

type MatchStatus string

const (
	MatchActive    MatchStatus = "active"
	MatchUnmatched MatchStatus = "unmatched"
)

type Match struct {
	ID        string      `json:"id"`
	UserAID   string      `json:"user_a_id"`
	UserBID   string      `json:"user_b_id"`
	PairKey   string      `json:"pair_key"`
	Status    MatchStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// PairKey identifies an unordered pair of users: the smaller id first.
func PairKey(a, b string) string {
	a, b = OrderedPair(a, b)
	return a + ":" + b
}

func OrderedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Counterpart returns the other user of the match.
func (m Match) Counterpart(userID string) string {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}
