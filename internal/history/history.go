// Package history persists generated plans to a local sqlite database so
// earlier runs can be listed and re-read.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/joss/opius/internal/plan"
	"github.com/joss/opius/internal/task"
)

// ErrNotFound indicates the requested entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// NotFoundError wraps ErrNotFound with the entry ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("history entry not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Entry is one recorded generation run.
type Entry struct {
	ID          string
	Description string
	Category    task.Category
	Complexity  task.Complexity
	TemplateID  string
	Passed      bool
	Attempts    int
	Markdown    string
	CreatedAt   time.Time
}

// Store persists entries in sqlite under the data directory.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the history database in dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		complexity TEXT NOT NULL,
		template_id TEXT NOT NULL,
		passed INTEGER NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 1,
		markdown TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_created ON plans(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_plans_category ON plans(category);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a generation result and returns its new entry ID.
func (s *Store) Record(ctx context.Context, t *task.Task, p *plan.Plan, passed bool, markdown string) (string, error) {
	id := ulid.Make().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plans (id, description, category, complexity, template_id, passed, attempts, markdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.Description, string(t.Category), t.Complexity.String(),
		p.Metadata.TemplateID, passed, p.Metadata.Attempts, markdown,
		time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("record plan: %w", err)
	}
	return id, nil
}

// Get retrieves one entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, description, category, complexity, template_id, passed, attempts, markdown, created_at
		FROM plans WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return e, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, category, complexity, template_id, passed, attempts, markdown, created_at
		FROM plans ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*Entry, error) {
	var e Entry
	var category, complexity string
	if err := row.Scan(&e.ID, &e.Description, &category, &complexity,
		&e.TemplateID, &e.Passed, &e.Attempts, &e.Markdown, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Category = task.Category(category)
	cx, ok := task.ParseComplexity(complexity)
	if !ok {
		return nil, fmt.Errorf("corrupt complexity value %q", complexity)
	}
	e.Complexity = cx
	return &e, nil
}
