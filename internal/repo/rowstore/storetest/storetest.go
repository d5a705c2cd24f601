// Package storetest holds behaviour checks shared by every rowstore backend.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ivankudzin/naranja/internal/repo/rowstore"
)

// Run exercises a Store that has the tables and unique indexes of the schema applied.
func Run(t *testing.T, newStore func(t *testing.T) rowstore.Store) {
	t.Helper()

	t.Run("InsertReturnsRow", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		row, err := store.Insert(ctx, "interests", rowstore.Record{
			"id":          "i1",
			"actor_id":    "u1",
			"target_id":   "u2",
			"disposition": "like",
			"created_at":  at(0),
		})
		require.NoError(t, err)
		require.Equal(t, "u1", row["actor_id"])
		require.Equal(t, "like", row["disposition"])
	})

	t.Run("SelectOneMissing", func(t *testing.T) {
		store := newStore(t)

		_, err := store.SelectOne(context.Background(), "interests", rowstore.Where(rowstore.Eq("actor_id", "nobody")))
		require.Error(t, err)
		require.True(t, rowstore.IsNoRows(err))

		var de *rowstore.DataError
		require.True(t, errors.As(err, &de))
		require.Equal(t, "interests", de.Table)
	})

	t.Run("SelectManyOrdersAndPages", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for i, id := range []string{"p1", "p2", "p3", "p4"} {
			_, err := store.Insert(ctx, "profiles", profile(id, i))
			require.NoError(t, err)
		}

		rows, err := store.SelectMany(ctx, "profiles",
			rowstore.Where(rowstore.Eq("accepts_matching", true), rowstore.NotIn("id", "p2")),
			rowstore.OrderBy("created_at", true),
			rowstore.Range(0, 2),
		)
		require.NoError(t, err)
		require.Equal(t, []string{"p4", "p3"}, ids(rows))

		rows, err = store.SelectMany(ctx, "profiles",
			rowstore.Where(rowstore.Neq("id", "p4")),
			rowstore.OrderBy("created_at", false),
			rowstore.Range(1, 0),
		)
		require.NoError(t, err)
		require.Equal(t, []string{"p2", "p3"}, ids(rows))
	})

	t.Run("SelectManyAlternatives", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, rec := range []rowstore.Record{
			channel("c1", "a", "b"),
			channel("c2", "c", "d"),
		} {
			_, err := store.Insert(ctx, "channels", rec)
			require.NoError(t, err)
		}

		f := rowstore.Where(rowstore.Eq("kind", "direct")).
			Or(rowstore.Eq("created_by", "b"), rowstore.Eq("recipient_id", "a")).
			Or(rowstore.Eq("created_by", "a"), rowstore.Eq("recipient_id", "b"))
		row, err := store.SelectOne(ctx, "channels", f)
		require.NoError(t, err)
		require.Equal(t, "c1", row["id"])
	})

	t.Run("UniquePairKeyConflicts", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Insert(ctx, "channels", channel("c1", "a", "b"))
		require.NoError(t, err)

		_, err = store.Insert(ctx, "channels", channel("c2", "b", "a"))
		require.Error(t, err)
		require.True(t, rowstore.IsConflict(err), "want conflict, got %v", err)
	})

	t.Run("UpdatePatchesMatchingRows", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Insert(ctx, "matches", rowstore.Record{
			"id":         "m1",
			"user_a_id":  "a",
			"user_b_id":  "b",
			"pair_key":   "a:b",
			"status":     "active",
			"created_at": at(0),
		})
		require.NoError(t, err)

		row, err := store.Update(ctx, "matches", rowstore.Where(rowstore.Eq("pair_key", "a:b")), rowstore.Record{"status": "unmatched"})
		require.NoError(t, err)
		require.Equal(t, "unmatched", row["status"])

		_, err = store.Update(ctx, "matches", rowstore.Where(rowstore.Eq("pair_key", "x:y")), rowstore.Record{"status": "unmatched"})
		require.True(t, rowstore.IsNoRows(err))
	})
}

func at(minutes int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func profile(id string, minutes int) rowstore.Record {
	return rowstore.Record{
		"id":               id,
		"display_name":     id,
		"gender":           "female",
		"orientation":      "heterosexual",
		"accepts_matching": true,
		"is_premium":       false,
		"created_at":       at(minutes),
	}
}

func channel(id, createdBy, recipient string) rowstore.Record {
	a, b := createdBy, recipient
	if b < a {
		a, b = b, a
	}
	return rowstore.Record{
		"id":           id,
		"kind":         "direct",
		"created_by":   createdBy,
		"recipient_id": recipient,
		"pair_key":     a + ":" + b,
		"is_private":   true,
		"created_at":   at(0),
	}
}

func ids(rows []rowstore.Record) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		id, _ := row["id"].(string)
		out = append(out, id)
	}
	return out
}
