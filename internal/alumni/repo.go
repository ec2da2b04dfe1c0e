package alumni

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const recordColumns = `id, first_name, last_name, email, phone, gender, occupation_field, occupation_sub_field, profile_picture, message, attending_meet, created_at`

// Repository persists alumni records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the alumni table and its indexes.
// The unique name index backs the client-side duplicate check.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS alumni (
		id                   TEXT PRIMARY KEY,
		first_name           TEXT NOT NULL,
		last_name            TEXT NOT NULL,
		email                TEXT NOT NULL,
		phone                TEXT NOT NULL,
		gender               TEXT NOT NULL DEFAULT 'male',
		occupation_field     TEXT NOT NULL,
		occupation_sub_field TEXT NOT NULL,
		profile_picture      TEXT NOT NULL DEFAULT '',
		message              TEXT NOT NULL DEFAULT '',
		attending_meet       TEXT NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_alumni_name  ON alumni (lower(first_name), lower(last_name));
	CREATE INDEX IF NOT EXISTS idx_alumni_field        ON alumni (lower(occupation_field));
	`)
	return err
}

// Create inserts a record, assigning an id and timestamp when missing.
func (r *Repository) Create(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO alumni (`+recordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at
	`, rec.ID, rec.FirstName, rec.LastName, rec.Email, rec.Phone, rec.Gender,
		rec.Occupation.Field, rec.Occupation.SubField, rec.ProfilePicture, rec.Message,
		rec.AttendingMeet, rec.CreatedAt)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Record{}, ErrDuplicateName
		}
		return Record{}, err
	}
	return rec, nil
}

// List returns every record in creation order.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM alumni ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Get returns a single record by id.
func (r *Repository) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM alumni WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// ExistsByName reports whether a record with the same name exists, ignoring case.
func (r *Repository) ExistsByName(ctx context.Context, firstName, lastName string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM alumni
			WHERE lower(first_name) = lower($1) AND lower(last_name) = lower($2)
		)
	`, strings.TrimSpace(firstName), strings.TrimSpace(lastName)).Scan(&exists)
	return exists, err
}

// UpdatePicture replaces the stored profile picture.
func (r *Repository) UpdatePicture(ctx context.Context, id, picture string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE alumni SET profile_picture = $2 WHERE id = $1`, id, picture)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	err := s.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.Phone, &rec.Gender,
		&rec.Occupation.Field, &rec.Occupation.SubField, &rec.ProfilePicture, &rec.Message,
		&rec.AttendingMeet, &rec.CreatedAt)
	return rec, err
}
