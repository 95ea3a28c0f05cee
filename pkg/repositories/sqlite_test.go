package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "duelbot.db")

	repo, err := NewSQLiteRepository(ctx, path)
	require.NoError(t, err)

	_, err = repo.GetProfile(ctx, "alice")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(repo.SetPoints(ctx, "alice", 1)))

	_, err = repo.CreateProfile(ctx, &models.Profile{ID: "alice", Name: "Alice", Points: 100, Level: 1})
	require.NoError(t, err)
	_, err = repo.CreateProfile(ctx, &models.Profile{ID: "alice", Name: "Again"})
	assert.True(t, IsProfileExists(err))

	require.NoError(t, repo.SetPoints(ctx, "alice", 88))
	checkIn := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.SaveProfile(ctx, &models.Profile{ID: "alice", Name: "Alice", Points: 113, Level: 2, Experience: 30, LastCheckIn: checkIn}))
	require.NoError(t, repo.Close(ctx))

	// reopening applies no migration twice and keeps the data
	repo, err = NewSQLiteRepository(ctx, path)
	require.NoError(t, err)
	defer repo.Close(ctx)

	got, err := repo.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, int64(113), got.Points)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, int64(30), got.Experience)
	assert.True(t, checkIn.Equal(got.LastCheckIn))
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.DeleteProfile(ctx, "alice"))
	assert.True(t, IsNotFound(repo.DeleteProfile(ctx, "alice")))
}
