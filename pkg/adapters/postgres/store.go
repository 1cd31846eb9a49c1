// Package postgres provides a PostgreSQL session store.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the table holding sessions.
const DefaultTable = "careerflow_sessions"

// Store implements ports.SessionStore on a PostgreSQL connection pool.
// Flags and results are stored as JSONB so the table stays readable from SQL.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

type Option func(*Store)

// WithTable overrides the session table name.
func WithTable(name string) Option {
	return func(s *Store) {
		s.table = name
	}
}

// Connect establishes a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string, opts ...Option) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewFromPool(pool, opts...), nil
}

// NewFromPool creates a store over an existing pool.
func NewFromPool(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{pool: pool, table: DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) ident() string {
	return pgx.Identifier{s.table}.Sanitize()
}

// Migrate creates the session table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL,
		flags      JSONB NOT NULL,
		results    JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, s.ident()))
	if err != nil {
		return fmt.Errorf("failed to create session table: %w", err)
	}
	return nil
}

// row is the column encoding of a session.
type row struct {
	flags   []byte
	results []byte
}

func encodeRow(session *domain.Session) (row, error) {
	flags, err := json.Marshal(session.Flags)
	if err != nil {
		return row{}, fmt.Errorf("failed to marshal flags: %w", err)
	}
	var results []byte
	if len(session.Results) > 0 {
		results, err = json.Marshal(session.Results)
		if err != nil {
			return row{}, fmt.Errorf("failed to marshal results: %w", err)
		}
	}
	return row{flags: flags, results: results}, nil
}

func decodeRow(id, email string, createdAt time.Time, r row) (*domain.Session, error) {
	session := &domain.Session{ID: id, Email: email, CreatedAt: createdAt.UTC()}
	if err := json.Unmarshal(r.flags, &session.Flags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flags: %w", err)
	}
	if len(r.results) > 0 {
		if err := json.Unmarshal(r.results, &session.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal results: %w", err)
		}
	}
	return session, nil
}

// Save upserts the session.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	r, err := encodeRow(session)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, email, flags, results, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET email = $2, flags = $3, results = $4, updated_at = NOW()`, s.ident()),
		session.ID, session.Email, r.flags, r.results, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load retrieves the session.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var (
		email     string
		createdAt time.Time
		r         row
	)
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT email, flags, results, created_at FROM %s WHERE id = $1`, s.ident()),
		sessionID,
	).Scan(&email, &r.flags, &r.results, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeRow(sessionID, email, createdAt, r)
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.ident()), sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// List returns the session IDs, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT id FROM %s ORDER BY created_at, id`, s.ident()))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}
