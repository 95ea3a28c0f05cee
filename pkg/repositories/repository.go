package repositories

import (
	"context"

	"github.com/cbodonnell/duelbot/pkg/repositories/models"
)

// Repository persists player profiles.
// Implementations must be safe for concurrent use. They do not serialize
// read-modify-write sequences; callers that need that use the ledger package.
type Repository interface {
	Close(ctx context.Context) error
	// GetProfile returns ErrNotFound when the player has no profile.
	GetProfile(ctx context.Context, playerID string) (*models.Profile, error)
	// CreateProfile returns ErrProfileExists when the player already has one.
	CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	// SetPoints overwrites the point balance of an existing profile.
	SetPoints(ctx context.Context, playerID string, points int64) error
	// SaveProfile overwrites every mutable field of an existing profile.
	SaveProfile(ctx context.Context, profile *models.Profile) error
	DeleteProfile(ctx context.Context, playerID string) error
}
