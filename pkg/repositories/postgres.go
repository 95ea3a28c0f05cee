package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to connStr and applies the embedded migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	if err := applyPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func applyPostgresMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	q := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at BIGINT NOT NULL
	);
	`
	if _, err := pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("failed to ensure migration table: %v", err)
	}

	files, err := migrationFiles("postgres")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, file := range files {
		migration, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %v", file, err)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %v", err)
		}
		tag, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name, applied_at) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`, file, time.Now().UnixMilli())
		if err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to record migration %s: %v", file, err)
		}
		if tag.RowsAffected() == 0 {
			tx.Rollback(ctx)
			continue
		}
		if _, err := tx.Exec(ctx, string(migration)); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("failed to execute migration %s: %v", file, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit migration %s: %v", file, err)
		}
	}

	return nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, playerID string) (*models.Profile, error) {
	q := `
	SELECT player_id, name, points, level, experience, last_check_in, created_at
	FROM profiles WHERE player_id = $1;
	`
	var p models.Profile
	var lastCheckIn, createdAt int64
	err := r.pool.QueryRow(ctx, q, playerID).Scan(&p.ID, &p.Name, &p.Points, &p.Level, &p.Experience, &lastCheckIn, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan profile: %v", err)
	}
	p.LastCheckIn = fromMillis(lastCheckIn)
	p.CreatedAt = fromMillis(createdAt)

	return &p, nil
}

func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	p := profile.Clone()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	q := `
	INSERT INTO profiles (player_id, name, points, level, experience, last_check_in, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (player_id) DO NOTHING;
	`
	tag, err := r.pool.Exec(ctx, q, p.ID, p.Name, p.Points, p.Level, p.Experience, toMillis(p.LastCheckIn), toMillis(p.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &ErrProfileExists{ID: p.ID}
	}

	return p, nil
}

func (r *PostgresRepository) SetPoints(ctx context.Context, playerID string, points int64) error {
	q := `
	UPDATE profiles SET points = $2, updated_at = $3 WHERE player_id = $1;
	`
	tag, err := r.pool.Exec(ctx, q, playerID, points, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to update points: %v", err)
	}
	return expectOneTag(tag)
}

func (r *PostgresRepository) SaveProfile(ctx context.Context, profile *models.Profile) error {
	q := `
	UPDATE profiles
	SET name = $2, points = $3, level = $4, experience = $5, last_check_in = $6, updated_at = $7
	WHERE player_id = $1;
	`
	tag, err := r.pool.Exec(ctx, q, profile.ID, profile.Name, profile.Points, profile.Level, profile.Experience, toMillis(profile.LastCheckIn), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to update profile: %v", err)
	}
	return expectOneTag(tag)
}

func (r *PostgresRepository) DeleteProfile(ctx context.Context, playerID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE player_id = $1;`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %v", err)
	}
	return expectOneTag(tag)
}

func expectOneTag(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return &ErrNotFound{}
	}
	return nil
}
