package file_test

import (
	"context"
	"testing"

	"github.com/aretw0/careerflow/pkg/adapters/file"
	"github.com/aretw0/careerflow/pkg/domain"
	"github.com/aretw0/careerflow/pkg/ports"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(afero.NewMemMapFs(), "sessions")
	ports.RunSessionStoreContract(t, store)
}

func TestFileStore_OsFs(t *testing.T) {
	store := file.NewStore(afero.NewOsFs(), t.TempDir())
	ports.RunSessionStoreContract(t, store)
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := file.NewStore(fs, "sessions")
	ctx := context.Background()

	s := domain.NewSession("abc", "a@b.co")
	require.NoError(t, store.Save(ctx, s))
	s.Flags.Mark(domain.StageResume)
	require.NoError(t, store.Save(ctx, s))

	entries, err := afero.ReadDir(fs, "sessions")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc.json", entries[0].Name())

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, loaded.Flags.ResumeDone)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store := file.NewStore(afero.NewMemMapFs(), "")
	ctx := context.Background()

	for _, id := range []string{"", "../etc", "a/b"} {
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
		assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "missing directory lists nothing")
}
