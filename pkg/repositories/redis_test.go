package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisRepository(t *testing.T) Repository {
	t.Helper()
	server := miniredis.RunT(t)
	repo, err := NewRedisRepository(context.Background(), "redis://"+server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close(context.Background())
	})
	return repo
}

func TestRedisRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRedisRepository(t)

	_, err := repo.GetProfile(ctx, "alice")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(repo.SetPoints(ctx, "alice", 1)))

	_, err = repo.CreateProfile(ctx, &models.Profile{ID: "alice", Name: "Alice", Points: 100, Level: 1})
	require.NoError(t, err)
	_, err = repo.CreateProfile(ctx, &models.Profile{ID: "alice", Name: "Again"})
	assert.True(t, IsProfileExists(err))

	require.NoError(t, repo.SetPoints(ctx, "alice", 88))
	got, err := repo.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, int64(88), got.Points)
	assert.Equal(t, 1, got.Level)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.DeleteProfile(ctx, "alice"))
	assert.True(t, IsNotFound(repo.DeleteProfile(ctx, "alice")))
}

func TestRedisRepository_CreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newTestRedisRepository(t)

	var (
		wg      sync.WaitGroup
		lock    sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := repo.CreateProfile(ctx, &models.Profile{ID: "bob", Name: "Bob", Points: 100, Level: 1})
			if err == nil {
				lock.Lock()
				created++
				lock.Unlock()
				return
			}
			assert.True(t, IsProfileExists(err), err)
		}()
		go func() {
			defer wg.Done()
			p, err := repo.GetProfile(ctx, "bob")
			if err != nil {
				assert.True(t, IsNotFound(err), err)
				return
			}
			// a visible profile is always complete
			assert.Equal(t, int64(100), p.Points)
			assert.Equal(t, 1, p.Level)
			assert.Equal(t, "Bob", p.Name)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}
