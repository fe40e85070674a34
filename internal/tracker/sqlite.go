package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS applications (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	company TEXT NOT NULL,
	position TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	salary TEXT NOT NULL DEFAULT '',
	job_type TEXT NOT NULL DEFAULT '',
	job_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	application_date TEXT NOT NULL,
	contact_name TEXT NOT NULL DEFAULT '',
	contact_email TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	timeline TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status);
`

const appColumns = `id, company, position, location, salary, job_type, job_url, status,
	application_date, contact_name, contact_email, notes, timeline, created_at, updated_at`

// SQLiteStore keeps applications in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create tracker dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open tracker db %s: %w", path, err)
	}
	// One writer; modernc serializes anyway and this keeps :memory: to one database.
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}
	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the applications table.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("init tracker schema: %w", err)
	}
	return nil
}

// Insert stores a new application.
func (s *SQLiteStore) Insert(ctx context.Context, app *Application) error {
	timeline, err := json.Marshal(app.Timeline)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO applications (`+appColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID.String(), app.Company, app.Position, app.Location, app.Salary, app.JobType, app.JobURL,
		string(app.Status), app.ApplicationDate, app.ContactName, app.ContactEmail, app.Notes,
		string(timeline), formatTime(app.CreatedAt), formatTime(app.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// Get loads one application.
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*Application, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+appColumns+` FROM applications WHERE id = ?`, id.String())
	app, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application %s: %w", id, err)
	}
	return app, nil
}

// Update replaces a stored application.
func (s *SQLiteStore) Update(ctx context.Context, app *Application) error {
	timeline, err := json.Marshal(app.Timeline)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET company = ?, position = ?, location = ?, salary = ?, job_type = ?,
		 job_url = ?, status = ?, application_date = ?, contact_name = ?, contact_email = ?, notes = ?,
		 timeline = ?, updated_at = ? WHERE id = ?`,
		app.Company, app.Position, app.Location, app.Salary, app.JobType, app.JobURL, string(app.Status),
		app.ApplicationDate, app.ContactName, app.ContactEmail, app.Notes, string(timeline),
		formatTime(app.UpdatedAt), app.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update application %s: %w", app.ID, err)
	}
	return requireOne(res)
}

// Delete removes an application.
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete application %s: %w", id, err)
	}
	return requireOne(res)
}

// List returns every application in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]Application, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+appColumns+` FROM applications ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var apps []Application
	for rows.Next() {
		app, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (*Application, error) {
	var (
		app                  Application
		id, status, timeline string
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &app.Company, &app.Position, &app.Location, &app.Salary, &app.JobType, &app.JobURL,
		&status, &app.ApplicationDate, &app.ContactName, &app.ContactEmail, &app.Notes,
		&timeline, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if app.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("bad id %q: %w", id, err)
	}
	app.Status = Status(status)
	if err := json.Unmarshal([]byte(timeline), &app.Timeline); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	if app.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if app.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	return &app, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func requireOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
