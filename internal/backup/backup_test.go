package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/storage"
	"github.com/julianstephens/trackfit/internal/storage/sqlite"
)

func newSQLiteSource(t *testing.T) *sqlite.Store {
	t.Helper()
	s := sqlite.NewStore(filepath.Join(t.TempDir(), "trackfit.db"))
	require.NoError(t, s.Init())
	require.NoError(t, s.PutDocument(constants.DocumentActivities, []byte(`[{"id":"a1"}]`)))
	require.NoError(t, s.PutDocument(constants.DocumentProfile, []byte(`{"name":"Sam"}`)))
	t.Cleanup(func() { s.Close() })
	return s
}

func clock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func readBackup(t *testing.T, path, key string) string {
	t.Helper()
	s := sqlite.NewStore(path)
	require.NoError(t, s.Load())
	defer s.Close()
	data, err := s.GetDocument(key)
	require.NoError(t, err)
	return string(data)
}

func TestCreateBackupFromSQLite(t *testing.T) {
	src := newSQLiteSource(t)
	mgr := NewManager(src, filepath.Join(t.TempDir(), "backups"))

	path, err := mgr.CreateBackup()
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.JSONEq(t, `[{"id":"a1"}]`, readBackup(t, path, constants.DocumentActivities))
}

func TestCreateBackupFromJSONStore(t *testing.T) {
	src := storage.NewJSONStore(t.TempDir())
	require.NoError(t, src.Init())
	require.NoError(t, src.PutDocument(constants.DocumentProfile, []byte(`{"name":"Sam"}`)))

	mgr := NewManager(src, filepath.Join(t.TempDir(), "backups"))
	path, err := mgr.CreateBackup()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Sam"}`, readBackup(t, path, constants.DocumentProfile))
}

func TestRotationKeepsNewest(t *testing.T) {
	mgr := NewManager(storage.NewMemoryStore(), t.TempDir())
	mgr.now = clock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local))

	for i := 0; i < constants.MaxBackups+3; i++ {
		_, err := mgr.CreateBackup()
		require.NoError(t, err)
	}

	backups, err := mgr.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, constants.MaxBackups)
	for i := 1; i < len(backups); i++ {
		assert.True(t, backups[i-1].Timestamp.After(backups[i].Timestamp))
	}
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 17, 0, time.Local), backups[0].Timestamp)
}

func TestSameSecondGetsCounter(t *testing.T) {
	mgr := NewManager(storage.NewMemoryStore(), t.TempDir())
	fixed := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	first, err := mgr.CreateBackup()
	require.NoError(t, err)
	second, err := mgr.CreateBackup()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Contains(t, filepath.Base(second), "-1.db")

	backups, err := mgr.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestListBackupsIgnoresStrangers(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"notes.txt", "trackfit-bogus.db", "trackfit-20240101-090000-x.db"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	}
	backups, err := NewManager(storage.NewMemoryStore(), dir).ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)

	missing, err := NewManager(storage.NewMemoryStore(), filepath.Join(dir, "none")).ListBackups()
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestRestoreIntoJSONStore(t *testing.T) {
	src := storage.NewJSONStore(t.TempDir())
	require.NoError(t, src.Init())
	require.NoError(t, src.PutDocument(constants.DocumentActivities, []byte(`[{"id":"old"}]`)))

	mgr := NewManager(src, t.TempDir())
	mgr.now = clock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))
	path, err := mgr.CreateBackup()
	require.NoError(t, err)

	require.NoError(t, src.PutDocument(constants.DocumentActivities, []byte(`[{"id":"new"}]`)))

	safety, err := mgr.RestoreBackup(path)
	require.NoError(t, err)
	assert.FileExists(t, safety)

	got, err := src.GetDocument(constants.DocumentActivities)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"old"}]`, string(got))
	assert.JSONEq(t, `[{"id":"new"}]`, readBackup(t, safety, constants.DocumentActivities))
}

func TestRestoreSQLiteFile(t *testing.T) {
	src := newSQLiteSource(t)
	mgr := NewManager(src, t.TempDir())
	mgr.now = clock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))

	path, err := mgr.CreateBackup()
	require.NoError(t, err)
	require.NoError(t, src.PutDocument(constants.DocumentActivities, []byte(`[]`)))
	require.NoError(t, src.Close())

	_, err = mgr.RestoreBackup(path)
	require.NoError(t, err)

	reopened := sqlite.NewStore(src.GetConfigPath())
	require.NoError(t, reopened.Load())
	defer reopened.Close()
	got, err := reopened.GetDocument(constants.DocumentActivities)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a1"}]`, string(got))
}

func TestRestoreRejectsInvalidFiles(t *testing.T) {
	mgr := NewManager(storage.NewMemoryStore(), t.TempDir())

	_, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.db"))
	assert.ErrorContains(t, err, "does not exist")

	junk := filepath.Join(t.TempDir(), "junk.db")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not sqlite, just some bytes padding it out"), 0600))
	_, err = mgr.RestoreBackup(junk)
	assert.ErrorContains(t, err, "corrupted or invalid")
}

func TestDefaultDir(t *testing.T) {
	dir := t.TempDir()
	db := sqlite.NewStore(filepath.Join(dir, "trackfit.db"))
	require.NoError(t, db.Init())
	defer db.Close()
	assert.Equal(t, filepath.Join(dir, constants.BackupDirName), DefaultDir(db, "/cfg"))

	assert.Equal(t, filepath.Join("/cfg", constants.BackupDirName), DefaultDir(storage.NewMemoryStore(), "/cfg"))
}
