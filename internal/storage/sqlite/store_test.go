package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func TestInitCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trackfit.db")
	s := NewStore(path)
	require.NoError(t, s.Init())
	defer s.Close()

	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.GetConfigPath())
	assert.NotNil(t, s.GetDB())
}

func TestDocumentsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trackfit.db")
	s := NewStore(path)
	require.NoError(t, s.Init())

	_, err := s.GetDocument("activities")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.PutDocument("activities", []byte(`[{"id":"a"}]`)))
	require.NoError(t, s.PutDocument("activities", []byte(`[{"id":"b"}]`)))
	require.NoError(t, s.Close())

	reopened := NewStore(path)
	require.NoError(t, reopened.Load())
	defer reopened.Close()

	got, err := reopened.GetDocument("activities")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"b"}]`, string(got))
}

func TestLoadWithoutInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorContains(t, s.Load(), "not initialized")
}

func TestAccessBeforeLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "trackfit.db"))
	_, err := s.GetDocument("profile")
	assert.ErrorIs(t, err, storage.ErrNotLoaded)
	assert.ErrorIs(t, s.PutDocument("profile", []byte(`{}`)), storage.ErrNotLoaded)
	assert.NoError(t, s.Close())
}

func TestInitIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trackfit.db")
	first := NewStore(path)
	require.NoError(t, first.Init())
	require.NoError(t, first.PutDocument("profile", []byte(`{"name":"x"}`)))
	require.NoError(t, first.Close())

	second := NewStore(path)
	require.NoError(t, second.Init())
	defer second.Close()
	got, err := second.GetDocument("profile")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(got))
}

func TestSchemaVersion(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "trackfit.db"))
	_, _, err := store.SchemaVersion()
	require.ErrorIs(t, err, storage.ErrNotLoaded)

	require.NoError(t, store.Init())
	defer store.Close()

	var _ storage.Versioned = store
	current, latest, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, latest, current)
	assert.Positive(t, latest)
}
