package rowstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostgresInsertSortsColumns(t *testing.T) {
	sql, args, err := PostgresSQL().Insert("interests", Record{
		"target_id":   "u2",
		"actor_id":    "u1",
		"disposition": "like",
	})
	require.NoError(t, err)
	require.Equal(t, `INSERT INTO "interests" ("actor_id", "disposition", "target_id") VALUES ($1, $2, $3) RETURNING *`, sql)
	require.Equal(t, []any{"u1", "like", "u2"}, args)
}

func TestSelectRendersEitherOrderFilter(t *testing.T) {
	f := Where(Eq("kind", "direct")).
		Or(Eq("created_by", "a"), Eq("recipient_id", "b")).
		Or(Eq("created_by", "b"), Eq("recipient_id", "a"))

	sql, args, err := PostgresSQL().Select("channels", f, BuildQuery(Range(0, 1)))
	require.NoError(t, err)
	require.Equal(t,
		`SELECT * FROM "channels" WHERE "kind" = $1 AND (("created_by" = $2 AND "recipient_id" = $3) OR ("created_by" = $4 AND "recipient_id" = $5)) LIMIT 1`,
		sql,
	)
	require.Equal(t, []any{"direct", "a", "b", "b", "a"}, args)
}

func TestSQLiteSelectOrderAndOffset(t *testing.T) {
	f := Where(Eq("accepts_matching", true), Neq("id", "me"), NotIn("id", "x", "y"))

	sql, args, err := SQLiteSQL().Select("profiles", f, BuildQuery(OrderBy("created_at", true), Range(10, 0)))
	require.NoError(t, err)
	require.Equal(t,
		`SELECT * FROM "profiles" WHERE "accepts_matching" = ?1 AND ("id" <> ?2 OR "id" IS NULL) AND "id" NOT IN (?3, ?4) ORDER BY "created_at" DESC LIMIT -1 OFFSET 10`,
		sql,
	)
	require.Equal(t, []any{true, "me", "x", "y"}, args)
}

func TestSelectEmptyListsShortCircuit(t *testing.T) {
	sql, args, err := PostgresSQL().Select("profiles", Where(In("id"), NotIn("gender")), Query{})
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "profiles" WHERE 1 = 0 AND 1 = 1`, sql)
	require.Empty(t, args)
}

func TestUpdateNumbersPatchBeforeFilter(t *testing.T) {
	sql, args, err := PostgresSQL().Update("matches", Where(Eq("pair_key", "a:b")), Record{"status": "unmatched"})
	require.NoError(t, err)
	require.Equal(t, `UPDATE "matches" SET "status" = $1 WHERE "pair_key" = $2 RETURNING *`, sql)
	require.Equal(t, []any{"unmatched", "a:b"}, args)
}

func TestBuilderRejectsBadInput(t *testing.T) {
	b := PostgresSQL()

	_, _, err := b.Insert("profiles", Record{})
	require.Error(t, err)

	_, _, err = b.Update("profiles", Where(), nil)
	require.Error(t, err)

	_, _, err = b.Select("profiles", Where(Cond{Column: "id", Op: "like"}), Query{})
	require.Error(t, err)

	_, _, err = b.Select("profiles", Where(Cond{Column: "id", Op: OpIn, Value: "x"}), Query{})
	require.Error(t, err)
}

func TestIdentifiersAreQuoted(t *testing.T) {
	sql, _, err := PostgresSQL().Select(`pro"files`, Where(Eq(`id"; drop`, 1)), Query{})
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM "pro""files" WHERE "id""; drop" = $1`, sql)
}
