package system

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/trackfit/internal/constants"
)

func TestDoctorCmd_HealthyStore(t *testing.T) {
	ctx, out := setupTestDB(t)
	ctx.Config.Health.URL = "http://127.0.0.1:9/health"
	_, err := ctx.Backups().CreateBackup()
	require.NoError(t, err)

	require.NoError(t, (&DoctorCmd{}).Run(ctx))
	s := out.String()
	for _, name := range []string{"Storage reachable", "Schema version", "Activities document", "Profile document", "Backups present", "Health source"} {
		assert.Contains(t, s, "✓ "+name+": OK")
	}
	assert.Contains(t, s, "All checks passed.")
}

func TestDoctorCmd_Warnings(t *testing.T) {
	ctx, out := setupTestDB(t)

	require.NoError(t, (&DoctorCmd{}).Run(ctx), "warnings must not fail the command")
	assert.Contains(t, out.String(), "⚠ Backups present: WARNING")
	assert.Contains(t, out.String(), "⚠ Health source: WARNING")
}

func TestDoctorCmd_CorruptDocuments(t *testing.T) {
	ctx, out := setupTestDB(t)
	require.NoError(t, ctx.Store.PutDocument(constants.DocumentActivities,
		[]byte(`[{"id":"x","name":"A","category":"walking","count":1,"timestamp":"2024-05-14T08:00:00Z"},`+
			`{"id":"x","name":"B","category":"walking","count":2,"timestamp":"2024-05-14T09:00:00Z"}]`)))
	require.NoError(t, ctx.Store.PutDocument(constants.DocumentProfile, []byte(`{"goals": "nope"}`)))

	err := (&DoctorCmd{}).Run(ctx)
	require.Error(t, err)
	assert.Equal(t, "2 check(s) failed", err.Error())
	assert.Contains(t, out.String(), "duplicate activity ID found: x")
	assert.Contains(t, out.String(), "❌ Profile document: FAIL")
}

func TestDoctorCmd_UnreachableSkipsDocumentChecks(t *testing.T) {
	ctx, _, out := setupTestInitDB(t)
	ctx.Config.Health.File = filepath.Join(t.TempDir(), "missing.json")

	err := (&DoctorCmd{}).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 check(s) failed")

	s := out.String()
	assert.Contains(t, s, "❌ Storage reachable: FAIL")
	assert.Equal(t, 3, strings.Count(s, "SKIPPED (storage not reachable)"))
	assert.Contains(t, s, "health file is not readable")
}
