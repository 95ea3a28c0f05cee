package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	_, err := repo.GetProfile(ctx, "alice")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(repo.SetPoints(ctx, "alice", 10)))

	created, err := repo.CreateProfile(ctx, &models.Profile{ID: "alice", Name: "Alice", Points: 50, Level: 1})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.CreateProfile(ctx, &models.Profile{ID: "alice", Name: "Other"})
	assert.True(t, IsProfileExists(err))

	require.NoError(t, repo.SetPoints(ctx, "alice", 38))
	got, err := repo.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(38), got.Points)

	// returned profiles are copies
	got.Points = 1000
	again, err := repo.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(38), again.Points)

	checkIn := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	again.Level = 3
	again.LastCheckIn = checkIn
	require.NoError(t, repo.SaveProfile(ctx, again))
	saved, err := repo.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Level)
	assert.Equal(t, checkIn, saved.LastCheckIn)
	assert.Equal(t, created.CreatedAt, saved.CreatedAt)

	require.NoError(t, repo.DeleteProfile(ctx, "alice"))
	assert.True(t, IsNotFound(repo.DeleteProfile(ctx, "alice")))
}

func TestMillisRoundTrip(t *testing.T) {
	assert.Equal(t, int64(0), toMillis(time.Time{}))
	assert.True(t, fromMillis(0).IsZero())

	ts := time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	assert.Equal(t, ts, fromMillis(toMillis(ts)))
}

func TestMigrationFiles(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres"} {
		files, err := migrationFiles(dialect)
		require.NoError(t, err)
		assert.Equal(t, []string{"migrations/" + dialect + "/001_profiles.sql"}, files)
	}
}
