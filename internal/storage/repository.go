// Package storage persists the ledger in SQLite. All queries go
// through database/sql with hand-written SQL; schema changes live in
// the embedded migrations.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"caja/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Dates are stored as unix milliseconds in UTC.
func toMillis(t time.Time) int64    { return t.UTC().UnixMilli() }
func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// CreateUser inserts a new account. A duplicate email maps to
// core.ErrEmailTaken.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, toMillis(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	var u core.User
	var created int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", notFound(err))
	}
	u.CreatedAt = fromMillis(created)
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	var u core.User
	var created int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", notFound(err))
	}
	u.CreatedAt = fromMillis(created)
	return u, nil
}

// UpsertCompany creates or replaces the single company profile of a
// user, preserving created_at and logo path on update.
func (r *SQLiteRepository) UpsertCompany(ctx context.Context, c core.Company) (core.Company, error) {
	existing, err := r.GetCompany(ctx, c.UserID)
	switch {
	case err == nil:
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
		if c.LogoPath == "" {
			c.LogoPath = existing.LogoPath
		}
		c.UpdatedAt = time.Now().UTC()
		_, err = r.db.ExecContext(ctx,
			`UPDATE companies SET name = ?, address = ?, city = ?, contact = ?, logo_path = ?, updated_at = ? WHERE id = ?`,
			c.Name, c.Address, c.City, c.Contact, c.LogoPath, toMillis(c.UpdatedAt), c.ID)
		if err != nil {
			return core.Company{}, fmt.Errorf("update company: %w", err)
		}
		return c, nil
	case errors.Is(err, core.ErrNotFound):
		now := time.Now().UTC()
		c.CreatedAt = now
		c.UpdatedAt = now
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO companies (id, user_id, name, address, city, contact, logo_path, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.UserID, c.Name, c.Address, c.City, c.Contact, c.LogoPath, toMillis(c.CreatedAt), toMillis(c.UpdatedAt))
		if err != nil {
			return core.Company{}, fmt.Errorf("insert company: %w", err)
		}
		return c, nil
	default:
		return core.Company{}, err
	}
}

func (r *SQLiteRepository) GetCompany(ctx context.Context, userID string) (core.Company, error) {
	var c core.Company
	var created, updated int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, address, city, contact, logo_path, created_at, updated_at
		 FROM companies WHERE user_id = ?`, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Address, &c.City, &c.Contact, &c.LogoPath, &created, &updated)
	if err != nil {
		return core.Company{}, fmt.Errorf("get company: %w", notFound(err))
	}
	c.CreatedAt = fromMillis(created)
	c.UpdatedAt = fromMillis(updated)
	return c, nil
}

func (r *SQLiteRepository) UpdateCompanyLogo(ctx context.Context, userID, logoPath string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE companies SET logo_path = ?, updated_at = ? WHERE user_id = ?`,
		logoPath, toMillis(time.Now()), userID)
	if err != nil {
		return fmt.Errorf("update company logo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update company logo: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteCompany(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
