package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/config"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/models"
	"github.com/julianstephens/trackfit/internal/storage"
)

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, out := setupTestInitDB(t)

	require.NoError(t, (&InitCmd{}).Run(ctx))

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	assert.Contains(t, out.String(), "Initialized trackfit storage at: "+dbPath)

	_, err := ctx.Store.GetDocument(constants.DocumentProfile)
	assert.NoError(t, err, "init should write the starter profile")
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, _ := setupTestInitDB(t)

	require.NoError(t, (&InitCmd{}).Run(ctx))
	e, err := ctx.Engine()
	require.NoError(t, err)
	e.AddActivity(models.Activity{Name: "Walk", Category: models.CategoryWalking, Count: 10, Timestamp: e.Now()})
	require.NoError(t, ctx.Close())

	require.NoError(t, (&InitCmd{}).Run(ctx), "second init should be idempotent")
	e, err = ctx.Engine()
	require.NoError(t, err)
	assert.Len(t, e.Activities(), 1)
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _, out := setupTestInitDB(t)

	require.NoError(t, (&InitCmd{}).Run(ctx))
	e, err := ctx.Engine()
	require.NoError(t, err)
	e.AddActivity(models.Activity{Name: "Walk", Category: models.CategoryWalking, Count: 10, Timestamp: e.Now()})
	require.NoError(t, ctx.Close())

	require.NoError(t, (&InitCmd{Force: true}).Run(ctx))
	assert.Contains(t, out.String(), "Deleted existing storage")
	e, err = ctx.Engine()
	require.NoError(t, err)
	assert.Empty(t, e.Activities())
}

func TestInitCmd_ForceRejectsRemoteStorage(t *testing.T) {
	ctx, _, _ := setupTestInitDB(t)
	ctx.Config.Backend = config.BackendPostgres

	err := (&InitCmd{Force: true}).Run(ctx)
	assert.ErrorContains(t, err, "only supported for local storage")
}

func TestInitCmd_ForceSameSource(t *testing.T) {
	ctx, dbPath, _ := setupTestInitDB(t)
	require.NoError(t, (&InitCmd{}).Run(ctx))
	require.NoError(t, ctx.Close())

	err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx)
	assert.ErrorContains(t, err, "source and destination are the same")
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	srcDir := filepath.Join(t.TempDir(), "export")
	src := storage.NewJSONStore(srcDir)
	require.NoError(t, src.Init())
	require.NoError(t, src.PutDocument(constants.DocumentActivities,
		[]byte(`[{"id":"a1","name":"Walk","category":"walking","count":1234,"timestamp":"2024-05-14T08:00:00Z","external":false}]`)))

	ctx, _, out := setupTestInitDB(t)
	require.NoError(t, (&InitCmd{Source: srcDir}).Run(ctx))

	assert.Contains(t, out.String(), "activities: copied")
	assert.Contains(t, out.String(), "profile: not present, skipped")

	e, err := ctx.Engine()
	require.NoError(t, err)
	a, ok := e.Activity("a1")
	require.True(t, ok)
	assert.Equal(t, 1234, a.Count)
	assert.NotEmpty(t, e.Goals(), "missing profile falls back to the starter goals")
}

func TestInitCmd_WriteConfig(t *testing.T) {
	ctx, _, _ := setupTestInitDB(t)
	ctx.ConfigPath = filepath.Join(t.TempDir(), "conf", constants.DefaultConfigFile)

	require.NoError(t, (&InitCmd{WriteConfig: true}).Run(ctx))

	cfg, err := config.Load(ctx.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, ctx.Config.Storage, cfg.Storage)
	assert.Equal(t, config.BackendSQLite, cfg.Backend)
}
