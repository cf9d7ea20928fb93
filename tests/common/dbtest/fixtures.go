//go:build e2e || integration

package dbtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"omiam-waitlist/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by *pgxpool.Pool and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CountEntries(t *testing.T, db DBLike) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT COUNT(*) FROM waitlist_entries").Scan(&n)
	require.NoError(t, err)
	return n
}

// EntryColumns reads the columns the API mutates most often.
func EntryColumns(t *testing.T, db DBLike, id uuid.UUID) (status string, position int, notifications int) {
	t.Helper()

	err := db.QueryRow(context.Background(),
		"SELECT status, position, jsonb_array_length(notifications) FROM waitlist_entries WHERE id = $1", id).
		Scan(&status, &position, &notifications)
	require.NoError(t, err)
	return status, position, notifications
}

func EntryExists(t *testing.T, db DBLike, id uuid.UUID) bool {
	t.Helper()

	var exists bool
	err := db.QueryRow(context.Background(), "SELECT EXISTS (SELECT 1 FROM waitlist_entries WHERE id = $1)", id).Scan(&exists)
	require.NoError(t, err)
	return exists
}

// ResetDB empties every table in the public schema of the pool's database.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := pool.Query(ctx, "SELECT quote_ident(tablename) FROM pg_tables WHERE schemaname = 'public'")
	if err != nil {
		return errs.Wrap(err, "failed to list tables")
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return errs.Wrap(err, "failed to scan table names")
	}
	if len(tables) == 0 {
		return nil
	}

	if _, err := pool.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")); err != nil {
		return errs.Wrap(err, "failed to truncate tables")
	}
	return nil
}
