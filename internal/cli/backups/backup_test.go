package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/storage"
	"github.com/julianstephens/trackfit/internal/storage/sqlite"
)

func newContext(t *testing.T, store storage.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	require.NoError(t, store.Init())
	out := &bytes.Buffer{}
	ctx := &cli.Context{Store: store, Out: out}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx, out
}

func addWalk(t *testing.T, ctx *cli.Context) models.Activity {
	t.Helper()
	e, err := ctx.Engine()
	require.NoError(t, err)
	a, _ := e.AddActivity(models.Activity{Name: "Walk", Category: models.CategoryWalking, Count: 4321, Timestamp: time.Now()})
	return a
}

func TestBackupListCmd_Empty(t *testing.T) {
	ctx, out := newContext(t, sqlite.NewStore(filepath.Join(t.TempDir(), "test.db")))

	require.NoError(t, (&BackupListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No backups found.")
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out := newContext(t, sqlite.NewStore(filepath.Join(t.TempDir(), "test.db")))
	addWalk(t, ctx)

	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "✓ Backup created: trackfit-")

	out.Reset()
	require.NoError(t, (&BackupListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Available backups (1 total, keeping most recent 14)")
	assert.Contains(t, out.String(), "Backup directory: "+ctx.Backups().Dir())
}

func TestBackupRestoreCmd(t *testing.T) {
	stores := map[string]func(dir string) storage.Provider{
		"sqlite": func(dir string) storage.Provider { return sqlite.NewStore(filepath.Join(dir, "test.db")) },
		"json":   func(dir string) storage.Provider { return storage.NewJSONStore(filepath.Join(dir, "data")) },
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx, out := newContext(t, newStore(t.TempDir()))
			walk := addWalk(t, ctx)

			backupPath, err := ctx.Backups().CreateBackup()
			require.NoError(t, err)

			e, err := ctx.Engine()
			require.NoError(t, err)
			require.Equal(t, 1, e.DeleteActivities(walk.ID))

			require.NoError(t, (&BackupRestoreCmd{BackupFile: filepath.Base(backupPath), Yes: true}).Run(ctx))
			assert.Contains(t, out.String(), "Tracking data restored successfully")
			assert.Contains(t, out.String(), "Previous data saved as: trackfit-")

			e, err = ctx.Engine()
			require.NoError(t, err)
			got, ok := e.Activity(walk.ID)
			require.True(t, ok, "restored data should contain the deleted activity")
			assert.Equal(t, 4321, got.Count)
		})
	}
}

func TestBackupRestoreCmd_Cancelled(t *testing.T) {
	ctx, out := newContext(t, sqlite.NewStore(filepath.Join(t.TempDir(), "test.db")))
	addWalk(t, ctx)
	backupPath, err := ctx.Backups().CreateBackup()
	require.NoError(t, err)

	ctx.In = strings.NewReader("no\n")
	require.NoError(t, (&BackupRestoreCmd{BackupFile: backupPath}).Run(ctx))
	assert.Contains(t, out.String(), "Restore cancelled.")
}

func TestBackupRestoreCmd_NotFound(t *testing.T) {
	ctx, _ := newContext(t, sqlite.NewStore(filepath.Join(t.TempDir(), "test.db")))

	err := (&BackupRestoreCmd{BackupFile: "trackfit-missing.db", Yes: true}).Run(ctx)
	assert.ErrorContains(t, err, "backup file not found")

	err = (&BackupRestoreCmd{BackupFile: filepath.Join(t.TempDir(), "nope.db"), Yes: true}).Run(ctx)
	assert.ErrorContains(t, err, "backup file not found")
}
