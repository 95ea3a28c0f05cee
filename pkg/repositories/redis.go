package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	"github.com/redis/go-redis/v9"
)

const redisProfileKeyPrefix = "duelbot:profile:"

// RedisRepository stores each profile as a hash under duelbot:profile:<id>.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository connects to the redis server described by url
// (redis://[:password@]host:port/db) and verifies it with a ping.
func NewRedisRepository(ctx context.Context, url string) (Repository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %v", err)
	}

	return &RedisRepository{
		client: client,
	}, nil
}

func redisProfileKey(playerID string) string {
	return redisProfileKeyPrefix + playerID
}

func (r *RedisRepository) Close(ctx context.Context) error {
	return r.client.Close()
}

func (r *RedisRepository) GetProfile(ctx context.Context, playerID string) (*models.Profile, error) {
	fields, err := r.client.HGetAll(ctx, redisProfileKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %v", err)
	}
	if len(fields) == 0 {
		return nil, &ErrNotFound{}
	}

	p, err := profileFromHash(playerID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %v", playerID, err)
	}
	return p, nil
}

func (r *RedisRepository) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	p := profile.Clone()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	key := redisProfileKey(p.ID)
	fields := profileHash(p)
	fields["created_at"] = toMillis(p.CreatedAt)

	// the whole hash is written in one MULTI so readers never see a partial profile
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return &ErrProfileExists{ID: p.ID}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if IsProfileExists(err) {
			return nil, err
		}
		if errors.Is(err, redis.TxFailedErr) {
			return nil, &ErrProfileExists{ID: p.ID}
		}
		return nil, fmt.Errorf("failed to insert profile: %v", err)
	}

	return p, nil
}

func (r *RedisRepository) SetPoints(ctx context.Context, playerID string, points int64) error {
	return r.updateExisting(ctx, playerID, map[string]interface{}{
		"points": points,
	})
}

func (r *RedisRepository) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return r.updateExisting(ctx, profile.ID, profileHash(profile))
}

// updateExisting writes fields only while the key exists, inside a WATCH
// transaction so a concurrent delete cannot resurrect a partial hash.
func (r *RedisRepository) updateExisting(ctx context.Context, playerID string, fields map[string]interface{}) error {
	key := redisProfileKey(playerID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return &ErrNotFound{}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		if errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("concurrent update of profile %s: %v", playerID, err)
		}
		return fmt.Errorf("failed to update profile: %v", err)
	}
	return nil
}

func (r *RedisRepository) DeleteProfile(ctx context.Context, playerID string) error {
	n, err := r.client.Del(ctx, redisProfileKey(playerID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete profile: %v", err)
	}
	if n == 0 {
		return &ErrNotFound{}
	}
	return nil
}

func profileHash(p *models.Profile) map[string]interface{} {
	return map[string]interface{}{
		"name":          p.Name,
		"points":        p.Points,
		"level":         p.Level,
		"experience":    p.Experience,
		"last_check_in": toMillis(p.LastCheckIn),
	}
}

func profileFromHash(playerID string, fields map[string]string) (*models.Profile, error) {
	p := &models.Profile{
		ID:   playerID,
		Name: fields["name"],
	}

	ints := map[string]*int64{
		"points":     &p.Points,
		"experience": &p.Experience,
	}
	for name, dst := range ints {
		if err := parseHashInt(fields, name, dst); err != nil {
			return nil, err
		}
	}

	var level, lastCheckIn, createdAt int64
	if err := parseHashInt(fields, "level", &level); err != nil {
		return nil, err
	}
	if err := parseHashInt(fields, "last_check_in", &lastCheckIn); err != nil {
		return nil, err
	}
	if err := parseHashInt(fields, "created_at", &createdAt); err != nil {
		return nil, err
	}
	p.Level = int(level)
	p.LastCheckIn = fromMillis(lastCheckIn)
	p.CreatedAt = fromMillis(createdAt)

	return p, nil
}

func parseHashInt(fields map[string]string, name string, dst *int64) error {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("field %s: %v", name, err)
	}
	*dst = v
	return nil
}
