package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/duelbot/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at path and applies the embedded
// migrations that have not been recorded yet.
func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// sqlite serializes writers anyway; one connection avoids SQLITE_BUSY churn
	db.SetMaxOpenConns(1)

	if err := applySQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func applySQLiteMigrations(ctx context.Context, db *sql.DB) error {
	q := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("failed to ensure migration table: %v", err)
	}

	files, err := migrationFiles("sqlite")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, file := range files {
		var applied int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, file).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration %s: %v", file, err)
		}
		if applied > 0 {
			continue
		}

		migration, err := migrationsFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %v", file, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %v", err)
		}
		if _, err := tx.ExecContext(ctx, string(migration)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %v", file, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, file, time.Now().UnixMilli()); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %v", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %v", file, err)
		}
	}

	return nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, playerID string) (*models.Profile, error) {
	q := `
	SELECT player_id, name, points, level, experience, last_check_in, created_at
	FROM profiles WHERE player_id = ?;
	`
	var p models.Profile
	var lastCheckIn, createdAt int64
	err := r.db.QueryRowContext(ctx, q, playerID).Scan(&p.ID, &p.Name, &p.Points, &p.Level, &p.Experience, &lastCheckIn, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan profile: %v", err)
	}
	p.LastCheckIn = fromMillis(lastCheckIn)
	p.CreatedAt = fromMillis(createdAt)

	return &p, nil
}

func (r *SQLiteRepository) CreateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	p := profile.Clone()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	q := `
	INSERT INTO profiles (player_id, name, points, level, experience, last_check_in, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (player_id) DO NOTHING;
	`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Points, p.Level, p.Experience, toMillis(p.LastCheckIn), toMillis(p.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %v", err)
	}
	if n == 0 {
		return nil, &ErrProfileExists{ID: p.ID}
	}

	return p, nil
}

func (r *SQLiteRepository) SetPoints(ctx context.Context, playerID string, points int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET points = ? WHERE player_id = ?;`, points, playerID)
	if err != nil {
		return fmt.Errorf("failed to update points: %v", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) SaveProfile(ctx context.Context, profile *models.Profile) error {
	q := `
	UPDATE profiles
	SET name = ?, points = ?, level = ?, experience = ?, last_check_in = ?
	WHERE player_id = ?;
	`
	res, err := r.db.ExecContext(ctx, q, profile.Name, profile.Points, profile.Level, profile.Experience, toMillis(profile.LastCheckIn), profile.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %v", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) DeleteProfile(ctx context.Context, playerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE player_id = ?;`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %v", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if n == 0 {
		return &ErrNotFound{}
	}
	return nil
}
