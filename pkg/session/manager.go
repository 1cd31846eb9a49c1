package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/careerflow/internal/logging"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed session lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// ErrInvalidEmail is returned by Start for malformed addresses.
var ErrInvalidEmail = errors.New("invalid email")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker   ports.DistributedLocker // Optional distributed locker
	lockTTL  time.Duration
	validate *validator.Validate
	logger   *slog.Logger // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		locks:    make(map[string]*lockEntry),
		lockTTL:  DefaultLockTTL,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Start creates a session for email with a fresh random ID and no stage completed.
func (m *Manager) Start(ctx context.Context, email string) (*domain.Session, error) {
	if err := m.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	s := domain.NewSession(uuid.NewString(), email)
	err := m.WithLock(ctx, s.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Info("session started", "session_id", s.ID)
	return s.Snapshot(), nil
}

// Replace destroys the previous session (if any) and starts a new one.
// A new login never inherits stage flags.
func (m *Manager) Replace(ctx context.Context, previousID, email string) (*domain.Session, error) {
	if previousID != "" {
		if err := m.Delete(ctx, previousID); err != nil {
			m.logger.Warn("failed to delete previous session", "session_id", previousID, "err", err)
		}
	}
	return m.Start(ctx, email)
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var s *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.store.Load(ctx, sessionID)
		return err
	})
	return s, err
}

// MarkStage sets the completion flag of a stage. Marking an already
// completed stage is a no-op; flags are never cleared.
func (m *Manager) MarkStage(ctx context.Context, sessionID string, stage domain.Stage) (*domain.Session, error) {
	if !stage.Valid() || stage == domain.StageResult {
		return nil, fmt.Errorf("stage %q has no completion flag", stage)
	}
	var s *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.markLocked(ctx, sessionID, stage)
		return err
	})
	return s, err
}

// MarkStageLocked is MarkStage for callers already inside WithLock.
func (m *Manager) MarkStageLocked(ctx context.Context, sessionID string, stage domain.Stage) (*domain.Session, error) {
	return m.markLocked(ctx, sessionID, stage)
}

func (m *Manager) markLocked(ctx context.Context, sessionID string, stage domain.Stage) (*domain.Session, error) {
	s, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.Flags.Mark(stage) {
		return s, nil
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to mark stage %s: %w", stage, err)
	}
	m.logger.Info("stage completed", "session_id", sessionID, "stage", stage)
	return s, nil
}

// SaveResults stores the technical results and marks the technical stage complete.
func (m *Manager) SaveResults(ctx context.Context, sessionID string, results domain.Results) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.SaveResultsLocked(ctx, sessionID, results)
	})
}

// SaveResultsLocked is SaveResults for callers already inside WithLock.
func (m *Manager) SaveResultsLocked(ctx context.Context, sessionID string, results domain.Results) error {
	s, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	s.Results = results.Clone()
	s.Flags.Mark(domain.StageTechnical)
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	m.logger.Info("stage completed", "session_id", sessionID, "stage", domain.StageTechnical, "domains", len(results))
	return nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
// The lock is not reentrant: fn must use the *Locked variants.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
