package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		s := domain.NewSession(sessionID, "user@example.com")
		s.Flags.Mark(domain.StageResume)
		s.Flags.Mark(domain.StageJobDescription)
		s.Results.Set(domain.DomainResult{Domain: "Backend", Outcome: "Backend Engineer, API Developer"})
		s.Results.Set(domain.DomainResult{Domain: "Data", Outcome: domain.OutcomeUndetermined, Reason: "no root"})

		require.NoError(t, store.Save(ctx, s), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, s.ID, loaded.ID)
		assert.Equal(t, s.Email, loaded.Email)
		assert.Equal(t, s.Flags, loaded.Flags)
		assert.Equal(t, s.Results, loaded.Results, "results keep order and reasons")
		assert.WithinDuration(t, s.CreatedAt, loaded.CreatedAt, time.Second)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Flags.Mark(domain.StageSoftSkills)

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.False(t, again.Flags.SoftSkillsDone, "mutating a loaded session must not touch the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, "user@example.com")))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, "one@example.com"))
		_ = store.Save(ctx, domain.NewSession(id2, "two@example.com"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
