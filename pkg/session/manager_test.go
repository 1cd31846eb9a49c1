package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/aretw0/careerflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Session
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sess *domain.Session) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Session)
	}
	s.data[sess.ID] = sess.Snapshot()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.data[sessionID]; ok {
		return sess.Snapshot(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestManager_Start(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()

	s, err := manager.Start(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, s.ID, 36)
	assert.Equal(t, domain.StageFlags{}, s.Flags)

	other, err := manager.Start(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)

	_, err = manager.Start(ctx, "not-an-email")
	assert.ErrorIs(t, err, session.ErrInvalidEmail)
	_, err = manager.Start(ctx, "")
	assert.ErrorIs(t, err, session.ErrInvalidEmail)
}

func TestManager_ReplaceDestroysPrevious(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()

	old, err := manager.Start(ctx, "ana@example.com")
	require.NoError(t, err)
	_, err = manager.MarkStage(ctx, old.ID, domain.StageResume)
	require.NoError(t, err)

	fresh, err := manager.Replace(ctx, old.ID, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, fresh.Flags.ResumeDone)

	_, err = manager.Load(ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_MarkStageIsMonotonic(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	s, err := manager.Start(ctx, "ana@example.com")
	require.NoError(t, err)

	for _, stage := range []domain.Stage{domain.StageResume, domain.StageJobDescription, domain.StageResume} {
		_, err := manager.MarkStage(ctx, s.ID, stage)
		require.NoError(t, err)
	}
	loaded, err := manager.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFlags{ResumeDone: true, JDDone: true}, loaded.Flags)

	_, err = manager.MarkStage(ctx, s.ID, domain.StageResult)
	assert.Error(t, err)
	_, err = manager.MarkStage(ctx, "missing", domain.StageResume)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_ConcurrentMarksAreNotLost(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	s, err := manager.Start(ctx, "ana@example.com")
	require.NoError(t, err)

	stages := []domain.Stage{domain.StageResume, domain.StageJobDescription, domain.StageSoftSkills, domain.StageTechnical}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		for _, st := range stages {
			wg.Add(1)
			go func(st domain.Stage) {
				defer wg.Done()
				_, err := manager.MarkStage(ctx, s.ID, st)
				assert.NoError(t, err)
			}(st)
		}
	}
	wg.Wait()

	// Without the lock a read-modify-write would drop flags set concurrently.
	loaded, err := manager.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFlags{ResumeDone: true, JDDone: true, SoftSkillsDone: true, TechnicalDone: true}, loaded.Flags)
}

func TestManager_SaveResults(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()
	s, err := manager.Start(ctx, "ana@example.com")
	require.NoError(t, err)

	results := domain.Results{{Domain: "Backend", Outcome: "Backend Engineer"}}
	require.NoError(t, manager.SaveResults(ctx, s.ID, results))

	loaded, err := manager.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Flags.TechnicalDone)
	assert.Equal(t, results, loaded.Results)
}

type countingLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	ttl      time.Duration
	failLock bool
}

func (c *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failLock {
		return nil, errors.New("redis down")
	}
	c.locks++
	c.ttl = ttl
	return func(context.Context) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.unlocks++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	manager := session.NewManager(&SlowStore{}, session.WithLocker(locker), session.WithLockTTL(5*time.Second))
	ctx := context.Background()

	s, err := manager.Start(ctx, "ana@example.com")
	require.NoError(t, err)
	_, err = manager.MarkStage(ctx, s.ID, domain.StageResume)
	require.NoError(t, err)

	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks)
	assert.Equal(t, 5*time.Second, locker.ttl)

	locker.failLock = true
	_, err = manager.Load(ctx, s.ID)
	assert.ErrorContains(t, err, "distributed lock")
}
