package rowmap

import (
	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

func InterestRecord(i model.Interest) rowstore.Record {
	return rowstore.Record{
		"id":          i.ID,
		"actor_id":    i.ActorID,
		"target_id":   i.TargetID,
		"disposition": string(i.Disposition),
		"created_at":  i.CreatedAt,
	}
}

func Interest(rec rowstore.Record) model.Interest {
	return model.Interest{
		ID:          stringValue(rec, "id"),
		ActorID:     stringValue(rec, "actor_id"),
		TargetID:    stringValue(rec, "target_id"),
		Disposition: model.Disposition(stringValue(rec, "disposition")),
		CreatedAt:   timeValue(rec, "created_at"),
	}
}

func MatchRecord(m model.Match) rowstore.Record {
	return rowstore.Record{
		"id":         m.ID,
		"user_a_id":  m.UserAID,
		"user_b_id":  m.UserBID,
		"pair_key":   m.PairKey,
		"status":     string(m.Status),
		"created_at": m.CreatedAt,
	}
}

func Match(rec rowstore.Record) model.Match {
	return model.Match{
		ID:        stringValue(rec, "id"),
		UserAID:   stringValue(rec, "user_a_id"),
		UserBID:   stringValue(rec, "user_b_id"),
		PairKey:   stringValue(rec, "pair_key"),
		Status:    model.MatchStatus(stringValue(rec, "status")),
		CreatedAt: timeValue(rec, "created_at"),
	}
}
