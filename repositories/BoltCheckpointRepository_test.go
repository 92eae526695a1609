package repositories

import (
	"path/filepath"
	"testing"

	"github.com/reaandrew/badchars/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) core.CheckpointRepository {
	t.Helper()
	repository, err := NewBoltCheckpointRepository(filepath.Join(t.TempDir(), "checkpoints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })
	return repository
}

func TestLoadWithoutCheckpoint(t *testing.T) {
	repository := newRepository(t)

	_, found, err := repository.Load("customers", "id", "name")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreThenLoad(t *testing.T) {
	repository := newRepository(t)
	checkpoint := core.Checkpoint{Table: "customers", PkColumn: "id", Column: "name", LastKey: "42", Rows: 42, Offences: 3}

	require.NoError(t, repository.Store(checkpoint))

	loaded, found, err := repository.Load("customers", "id", "name")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, checkpoint, loaded)

	_, found, err = repository.Load("customers", "id", "email")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreOverwritesPreviousCheckpoint(t *testing.T) {
	repository := newRepository(t)

	require.NoError(t, repository.Store(core.Checkpoint{Table: "t", PkColumn: "id", Column: "c", LastKey: "1"}))
	require.NoError(t, repository.Store(core.Checkpoint{Table: "t", PkColumn: "id", Column: "c", LastKey: "9"}))

	loaded, _, err := repository.Load("t", "id", "c")
	require.NoError(t, err)
	assert.Equal(t, "9", loaded.LastKey)
}

func TestClearRemovesOnlyThatColumn(t *testing.T) {
	repository := newRepository(t)
	require.NoError(t, repository.Store(core.Checkpoint{Table: "t", PkColumn: "id", Column: "c", LastKey: "1"}))
	require.NoError(t, repository.Store(core.Checkpoint{Table: "t", PkColumn: "id", Column: "d", LastKey: "2"}))

	require.NoError(t, repository.Clear("t", "id", "c"))
	require.NoError(t, repository.Clear("t", "id", "missing"))

	_, found, err := repository.Load("t", "id", "c")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = repository.Load("t", "id", "d")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCheckpointsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoints.db")
	repository, err := NewBoltCheckpointRepository(path)
	require.NoError(t, err)
	require.NoError(t, repository.Store(core.Checkpoint{Table: "t", PkColumn: "id", Column: "c", LastKey: "5"}))
	require.NoError(t, repository.Close())

	reopened, err := NewBoltCheckpointRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, found, err := reopened.Load("t", "id", "c")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "5", loaded.LastKey)
}
