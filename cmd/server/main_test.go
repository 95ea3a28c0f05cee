package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cbodonnell/duelbot/pkg/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepository(t *testing.T) {
	ctx := context.Background()

	repo, err := newRepository(ctx, "memory://")
	require.NoError(t, err)
	assert.IsType(t, &repositories.InMemoryRepository{}, repo)

	repo, err = newRepository(ctx, "sqlite://"+filepath.Join(t.TempDir(), "duelbot.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Close(ctx))

	_, err = newRepository(ctx, "mongodb://localhost")
	assert.ErrorContains(t, err, "unknown database type mongodb")
}
