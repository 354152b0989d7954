package thread

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"threadwatch/core/loader"
	"threadwatch/feature/thread/models"
	"threadwatch/feature/thread/state"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandlerApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	stateCfg := state.Config{
		Path:    filepath.Join(t.TempDir(), "state.jsonl"),
		Backups: 5,
	}
	store := state.NewStore(stateCfg, zap.NewNop())
	svc := NewService(Config{}, stateCfg, nil, store, nil, nil, zap.NewNop())

	app := fiber.New()
	require.NoError(t, NewFeature(svc, zap.NewNop()).Load(app))
	return app, svc
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	res, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(body, &parsed))
	return res.StatusCode, parsed
}

func TestHandleStatus_BeforeFirstRun(t *testing.T) {
	app, _ := newHandlerApp(t)

	code, body := getJSON(t, app, "/thread/status")

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "waiting", body["status"])
}

func TestHandleStatus_AfterRun(t *testing.T) {
	app, svc := newHandlerApp(t)

	svc.finish(nil, &models.RunResult{
		Outcome: models.OutcomePartial,
		Diff: &models.DiffResult{
			Summary: models.DiffSummary{NewCount: 2, EditedCount: 1},
		},
		Rejections: []models.Rejection{{ID: "x", Reason: "missing id"}},
		Metadata:   models.RunMetadata{RunID: "run-1", Partial: true},
	})

	code, body := getJSON(t, app, "/thread/status")

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "partial", body["status"])
	assert.Equal(t, float64(1), body["rejections"])

	diff, ok := body["diff"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), diff["new"])
	assert.Equal(t, float64(1), diff["edited"])
}

func TestHandleState(t *testing.T) {
	app, svc := newHandlerApp(t)

	require.NoError(t, svc.Store().Save([]models.Record{
		{ID: "1", Author: "a", Timestamp: "t", CapturedAt: time.Now()},
		{ID: "2", Author: "b", Timestamp: "t", CapturedAt: time.Now()},
	}))

	code, body := getJSON(t, app, "/thread/state")

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(2), body["records"])
	assert.Equal(t, false, body["first_run"])
	assert.Equal(t, false, body["degraded"])
}

func TestHandleState_FirstRun(t *testing.T) {
	app, _ := newHandlerApp(t)

	code, body := getJSON(t, app, "/thread/state")

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(0), body["records"])
	assert.Equal(t, true, body["first_run"])
}

func TestHandleRuns_ArchiveDisabled(t *testing.T) {
	app, _ := newHandlerApp(t)

	code, body := getJSON(t, app, "/thread/runs")

	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Contains(t, body["error"], "disabled")
}

func TestFeature(t *testing.T) {
	_, svc := newHandlerApp(t)

	f := NewFeature(svc, zap.NewNop())
	assert.Equal(t, "thread", f.Name())
	assert.True(t, f.IsEnabled())

	disabled := NewFeature(nil, zap.NewNop())
	assert.False(t, disabled.IsEnabled())

	// A disabled feature is skipped by the loader without error.
	manager := loader.NewManager()
	manager.Register(disabled)
	assert.NoError(t, manager.LoadAll(fiber.New()))
}
