package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/cbodonnell/duelbot/pkg/repositories/models"
)

// InMemoryRepository keeps profiles in a map. It is used by tests and by the
// memory:// database URL.
type InMemoryRepository struct {
	lock     sync.RWMutex
	profiles map[string]*models.Profile
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[string]*models.Profile),
	}
}

func (r *InMemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) GetProfile(ctx context.Context, playerID string) (*models.Profile, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	p, ok := r.profiles[playerID]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return p.Clone(), nil
}

func (r *InMemoryRepository) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.profiles[profile.ID]; ok {
		return nil, &ErrProfileExists{ID: profile.ID}
	}
	p := profile.Clone()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.profiles[p.ID] = p
	return p.Clone(), nil
}

func (r *InMemoryRepository) SetPoints(ctx context.Context, playerID string, points int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	p, ok := r.profiles[playerID]
	if !ok {
		return &ErrNotFound{}
	}
	p.Points = points
	return nil
}

func (r *InMemoryRepository) SaveProfile(ctx context.Context, profile *models.Profile) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	existing, ok := r.profiles[profile.ID]
	if !ok {
		return &ErrNotFound{}
	}
	p := profile.Clone()
	p.CreatedAt = existing.CreatedAt
	r.profiles[p.ID] = p
	return nil
}

func (r *InMemoryRepository) DeleteProfile(ctx context.Context, playerID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.profiles[playerID]; !ok {
		return &ErrNotFound{}
	}
	delete(r.profiles, playerID)
	return nil
}
