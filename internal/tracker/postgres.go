package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS applications (
	seq BIGSERIAL,
	id UUID PRIMARY KEY,
	company TEXT NOT NULL,
	position TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	salary TEXT NOT NULL DEFAULT '',
	job_type TEXT NOT NULL DEFAULT '',
	job_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	application_date DATE NOT NULL,
	contact_name TEXT NOT NULL DEFAULT '',
	contact_email TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	timeline JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);
`

const pgColumns = `id, company, position, location, salary, job_type, job_url, status,
	to_char(application_date, 'YYYY-MM-DD'), contact_name, contact_email, notes, timeline, created_at, updated_at`

// PostgresStore keeps applications in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and creates the schema.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the applications table.
func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("init tracker schema: %w", err)
	}
	return nil
}

// Insert stores a new application.
func (s *PostgresStore) Insert(ctx context.Context, app *Application) error {
	timeline, err := json.Marshal(app.Timeline)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO applications (id, company, position, location, salary, job_type, job_url, status,
		 application_date, contact_name, contact_email, notes, timeline, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10, $11, $12, $13, $14, $15)`,
		app.ID, app.Company, app.Position, app.Location, app.Salary, app.JobType, app.JobURL,
		string(app.Status), app.ApplicationDate, app.ContactName, app.ContactEmail, app.Notes,
		timeline, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// Get loads one application.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Application, error) {
	app, err := scanPostgres(s.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM applications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application %s: %w", id, err)
	}
	return app, nil
}

// Update replaces a stored application.
func (s *PostgresStore) Update(ctx context.Context, app *Application) error {
	timeline, err := json.Marshal(app.Timeline)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE applications SET company = $1, position = $2, location = $3, salary = $4, job_type = $5,
		 job_url = $6, status = $7, application_date = $8::date, contact_name = $9, contact_email = $10,
		 notes = $11, timeline = $12, updated_at = $13 WHERE id = $14`,
		app.Company, app.Position, app.Location, app.Salary, app.JobType, app.JobURL, string(app.Status),
		app.ApplicationDate, app.ContactName, app.ContactEmail, app.Notes, timeline, app.UpdatedAt, app.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", app.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an application.
func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every application in insertion order.
func (s *PostgresStore) List(ctx context.Context) ([]Application, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgColumns+` FROM applications ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		app, err := scanPostgres(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgres(row pgx.Row) (*Application, error) {
	var (
		app      Application
		status   string
		timeline []byte
	)
	err := row.Scan(&app.ID, &app.Company, &app.Position, &app.Location, &app.Salary, &app.JobType, &app.JobURL,
		&status, &app.ApplicationDate, &app.ContactName, &app.ContactEmail, &app.Notes,
		&timeline, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	app.Status = Status(status)
	if err := json.Unmarshal(timeline, &app.Timeline); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	return &app, nil
}
