//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/portal/internal/domain"
)

func TestRepositoryOwnershipAndFiltering(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("portal"),
		postgrescontainer.WithUsername("portal"),
		postgrescontainer.WithPassword("portal"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))

	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)

	owner := uuid.NewString()
	stranger := uuid.NewString()

	rec := domain.Record{
		ID:           uuid.NewString(),
		ResearcherID: owner,
		Kind:         domain.KindConference,
		Title:        "Distributed systems keynote",
		Status:       domain.StatusInProgress,
		Category:     "speaker",
		Venue:        "ICDCS",
		Scope:        domain.ScopeInternational,
		OccurredAt:   time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, rec))

	other := rec
	other.ID = uuid.NewString()
	other.Kind = domain.KindJournal
	other.Title = "Editorial board membership"
	other.Category = "editor"
	other.Venue = ""
	other.Scope = ""
	other.OccurredAt = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, other))

	t.Run("ownership isolation", func(t *testing.T) {
		stored, err := repo.Get(ctx, owner, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.Equal(t, rec.Title, stored.Title)

		crossAccess, err := repo.Get(ctx, stranger, rec.ID)
		require.NoError(t, err)
		require.Nil(t, crossAccess)

		records, _, err := repo.List(ctx, stranger, domain.ListFilters{}, nil, 10)
		require.NoError(t, err)
		require.Empty(t, records)
	})

	t.Run("idempotent filtering", func(t *testing.T) {
		filters := domain.ListFilters{Kind: "conference", Year: 2025, Search: "keynote"}

		first, _, err := repo.List(ctx, owner, filters, nil, 10)
		require.NoError(t, err)
		second, _, err := repo.List(ctx, owner, filters, nil, 10)
		require.NoError(t, err)

		require.Equal(t, first, second)
		require.Len(t, first, 1)
		require.Equal(t, rec.ID, first[0].ID)
	})

	t.Run("search matches venue case-insensitively", func(t *testing.T) {
		records, _, err := repo.List(ctx, owner, domain.ListFilters{Search: "icdcs"}, nil, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, rec.ID, records[0].ID)
	})

	t.Run("update scoped to owner", func(t *testing.T) {
		modified := rec
		modified.Title = "Distributed systems keynote (revised)"
		modified.UpdatedAt = time.Now().UTC()

		found, err := repo.Update(ctx, modified)
		require.NoError(t, err)
		require.True(t, found)

		hijacked := rec
		hijacked.ResearcherID = stranger
		found, err = repo.Update(ctx, hijacked)
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("mutations enqueue outbox events", func(t *testing.T) {
		var count int
		err := pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM outbox WHERE aggregate_id=$1 AND published_at IS NULL`, rec.ID,
		).Scan(&count)
		require.NoError(t, err)
		require.GreaterOrEqual(t, count, 2) // created + updated

		found, err := repo.Delete(ctx, owner, rec.ID)
		require.NoError(t, err)
		require.True(t, found)

		err = pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM outbox WHERE aggregate_id=$1 AND event_type='record.deleted'`, rec.ID,
		).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("delete scoped to owner", func(t *testing.T) {
		found, err := repo.Delete(ctx, stranger, other.ID)
		require.NoError(t, err)
		require.False(t, found)

		stored, err := repo.Get(ctx, owner, other.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
	})
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
		"../../../db/postgres/migrations/0002_outbox_dlq_retry.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
