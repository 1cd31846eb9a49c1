package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/careerflow/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the adapter.
const DefaultPrefix = "careerflow:session:"

// Hash fields of a session key.
const (
	fieldEmail     = "email"
	fieldFlags     = "flags"
	fieldResults   = "results"
	fieldCreatedAt = "created_at"
)

// Store keeps each session in a hash at <prefix><id>, so the stage flags can be
// read with a single HGET. A sorted set at <prefix>active scores sessions by their
// last save.
//
// With a TTL, every Save pushes the expiry of the session forward: a session
// expires after ttl without activity, not ttl after login.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL expires sessions after ttl without a Save. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to the Redis server at address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store over an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client returns the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Prefix returns the key prefix.
func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) activeKey() string {
	return s.prefix + "active"
}

func encodeFields(session *domain.Session) (map[string]any, error) {
	flags, err := json.Marshal(session.Flags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal flags: %w", err)
	}
	results := []byte{}
	if len(session.Results) > 0 {
		if results, err = json.Marshal(session.Results); err != nil {
			return nil, fmt.Errorf("failed to marshal results: %w", err)
		}
	}
	return map[string]any{
		fieldEmail:     session.Email,
		fieldFlags:     flags,
		fieldResults:   results,
		fieldCreatedAt: session.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func decodeFields(sessionID string, fields map[string]string) (*domain.Session, error) {
	session := &domain.Session{ID: sessionID, Email: fields[fieldEmail]}
	if err := json.Unmarshal([]byte(fields[fieldFlags]), &session.Flags); err != nil {
		return nil, fmt.Errorf("session %s: bad flags: %w", sessionID, err)
	}
	if raw := fields[fieldResults]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &session.Results); err != nil {
			return nil, fmt.Errorf("session %s: bad results: %w", sessionID, err)
		}
	}
	created, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("session %s: bad created_at: %w", sessionID, err)
	}
	session.CreatedAt = created
	return session, nil
}

// Save writes the whole session in one transaction and refreshes its TTL.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	fields, err := encodeFields(session)
	if err != nil {
		return err
	}
	key := s.key(session.ID)
	now := time.Now()

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		} else {
			pipe.Persist(ctx, key)
		}
		pipe.ZAdd(ctx, s.activeKey(), backend.Z{Score: float64(now.Unix()), Member: session.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads the session hash. A missing key is domain.ErrSessionNotFound.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return decodeFields(sessionID, fields)
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.key(sessionID))
		pipe.ZRem(ctx, s.activeKey(), sessionID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// List returns the session IDs, least recently saved first. With a TTL, entries
// idle for longer than the TTL are dropped from the set before listing.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		cutoff := time.Now().Add(-s.ttl).Unix()
		before := "(" + strconv.FormatInt(cutoff, 10)
		if err := s.client.ZRemRangeByScore(ctx, s.activeKey(), "-inf", before).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune idle sessions: %w", err)
		}
	}
	ids, err := s.client.ZRange(ctx, s.activeKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
