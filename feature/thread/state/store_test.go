package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"threadwatch/feature/thread/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, backups int) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(Config{
		Path:    filepath.Join(dir, "thread_state.jsonl"),
		Backups: backups,
	}, zap.NewNop())
}

func testRecord(id, content string) models.Record {
	return models.Record{
		ID:         id,
		Author:     "poster",
		Timestamp:  "01.05.2024 12:00",
		Content:    content,
		CapturedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_LoadAbsentFileIsFirstRun(t *testing.T) {
	store := newTestStore(t, 5)

	st, report, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, st)
	assert.True(t, report.FirstRun)
	assert.False(t, report.Degraded)
	assert.Empty(t, report.Source)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t, 5)
	records := []models.Record{
		testRecord("1", "first entry"),
		testRecord("2", "second entry with \"quotes\" & <markup>"),
	}

	require.NoError(t, store.Save(records))

	st, report, err := store.Load()
	require.NoError(t, err)
	assert.False(t, report.FirstRun)
	assert.False(t, report.Degraded)
	assert.Equal(t, store.Path(), report.Source)

	require.Len(t, st, 2)
	assert.Equal(t, "first entry", st["1"].Content)
	// HTML escaping is off; markup survives byte-for-byte.
	assert.Equal(t, "second entry with \"quotes\" & <markup>", st["2"].Content)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "<markup>")
	assert.NotContains(t, string(data), `<`)
}

func TestStore_SaveDropsInvalidRecords(t *testing.T) {
	store := newTestStore(t, 5)
	records := []models.Record{
		testRecord("1", "valid"),
		{ID: "", Content: "no id"},
	}

	require.NoError(t, store.Save(records))

	st, _, err := store.Load()
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.Contains(t, st, "1")
}

func TestStore_SaveNothingValid(t *testing.T) {
	store := newTestStore(t, 5)

	err := store.Save([]models.Record{{ID: "", Content: "no id"}})
	assert.ErrorIs(t, err, ErrNothingToSave)

	// The primary must not have been created or touched.
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))

	err = store.Save(nil)
	assert.ErrorIs(t, err, ErrNothingToSave)
}

func TestStore_FirstSaveCreatesNoBackup(t *testing.T) {
	store := newTestStore(t, 5)

	require.NoError(t, store.Save([]models.Record{testRecord("1", "one")}))

	_, err := os.Stat(store.BackupPath(1))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_BackupRotation(t *testing.T) {
	store := newTestStore(t, 3)

	// Five generations through a 3-slot retention window.
	for _, gen := range []string{"g1", "g2", "g3", "g4", "g5"} {
		require.NoError(t, store.Save([]models.Record{testRecord("1", gen)}))
	}

	st, _, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "g5", st["1"].Content)

	for slot, want := range map[int]string{1: "g4", 2: "g3", 3: "g2"} {
		backup, err := ReadFile(store.BackupPath(slot))
		require.NoError(t, err, "backup slot %d", slot)
		assert.Equal(t, want, backup["1"].Content, "backup slot %d", slot)
	}

	// g1 rotated past the window and is gone.
	_, err = os.Stat(store.BackupPath(4))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_LoadFallsBackThroughCorruptBackups(t *testing.T) {
	store := newTestStore(t, 5)

	require.NoError(t, store.Save([]models.Record{testRecord("1", "oldest")}))
	require.NoError(t, store.Save([]models.Record{testRecord("1", "newer")}))
	require.NoError(t, store.Save([]models.Record{testRecord("1", "newest")}))

	// Corrupt the primary and the most recent backup; slot 2 stays intact.
	require.NoError(t, os.WriteFile(store.Path(), []byte("{truncated"), 0o644))
	require.NoError(t, os.WriteFile(store.BackupPath(1), []byte("not json at all"), 0o644))

	st, report, err := store.Load()
	require.NoError(t, err)
	assert.True(t, report.Degraded)
	assert.Equal(t, store.BackupPath(2), report.Source)
	assert.Equal(t, "oldest", st["1"].Content)
}

func TestStore_LoadAllCopiesCorruptYieldsEmptyDegraded(t *testing.T) {
	store := newTestStore(t, 2)

	require.NoError(t, store.Save([]models.Record{testRecord("1", "a")}))
	require.NoError(t, store.Save([]models.Record{testRecord("1", "b")}))
	require.NoError(t, store.Save([]models.Record{testRecord("1", "c")}))

	for _, path := range []string{store.Path(), store.BackupPath(1), store.BackupPath(2)} {
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	}

	st, report, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, st)
	assert.True(t, report.Degraded)
	assert.False(t, report.FirstRun)
	assert.Empty(t, report.Source)
}

func TestStore_LoadRejectsInvalidRecordLine(t *testing.T) {
	store := newTestStore(t, 5)

	// Well-formed JSON but structurally invalid (missing id) poisons the
	// whole file.
	line := `{"id":"","author":"x","timestamp":"t","content":"c","captured_at":"2024-05-01T12:00:00Z"}` + "\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(line), 0o644))

	st, report, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, st)
	assert.True(t, report.Degraded)
}

func TestStore_LoadSkipsBlankLines(t *testing.T) {
	store := newTestStore(t, 5)
	content := `{"id":"1","author":"a","timestamp":"t","content":"c","captured_at":"2024-05-01T12:00:00Z"}` + "\n\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	st, report, err := store.Load()
	require.NoError(t, err)
	assert.False(t, report.Degraded)
	assert.Len(t, st, 1)
}

func TestStore_CleanStrayTemps(t *testing.T) {
	store := newTestStore(t, 5)

	stray := store.Path() + ".tmp.12345"
	require.NoError(t, os.WriteFile(stray, []byte("half-written"), 0o644))

	store.CleanStrayTemps()

	_, err := os.Stat(stray)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Paths(t *testing.T) {
	store := NewStore(Config{Path: "/var/lib/tw/state.jsonl", Backups: 5}, zap.NewNop())

	assert.Equal(t, "/var/lib/tw/state.jsonl", store.Path())
	assert.Equal(t, "/var/lib/tw/state.jsonl.lock", store.LockPath())
	assert.Equal(t, "/var/lib/tw/state.jsonl.backup.3", store.BackupPath(3))
}

func TestJournal_AppendAndDiscard(t *testing.T) {
	dir := t.TempDir()
	path := JournalPath(filepath.Join(dir, "state.jsonl"))

	j, err := OpenJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(testRecord("1", "one")))
	require.NoError(t, j.Append(testRecord("2", "two")))

	// Appends are flushed line by line; readable before close.
	st, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, st, 2)

	require.NoError(t, j.Discard())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestJournal_CloseKeepsFile(t *testing.T) {
	dir := t.TempDir()
	path := JournalPath(filepath.Join(dir, "state.jsonl"))

	j, err := OpenJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(testRecord("1", "one")))
	require.NoError(t, j.Close())

	st, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, st, 1)
}
