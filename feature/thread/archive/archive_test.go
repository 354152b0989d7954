package archive

import (
	"testing"
	"time"

	"threadwatch/feature/thread/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock sql db: %v", err)
	}

	// The dialector probes the engine version on open. Report one below
	// 3.35 so inserts use plain exec instead of RETURNING.
	mock.ExpectQuery("select sqlite_version").
		WillReturnRows(sqlmock.NewRows([]string{"sqlite_version()"}).AddRow("3.30.1"))

	gormDB, err := gorm.Open(sqlite.Dialector{Conn: db}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func sampleResult() *models.RunResult {
	capturedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.RunResult{
		Outcome: models.OutcomeSuccess,
		Records: []models.Record{
			{ID: "1", Author: "a", Timestamp: "t1", Content: "one", CapturedAt: capturedAt},
			{ID: "2", Author: "b", Timestamp: "t2", Content: "two", CapturedAt: capturedAt},
		},
		Diff: &models.DiffResult{
			New: []models.Record{
				{ID: "2", Author: "b", Timestamp: "t2", Content: "two", CapturedAt: capturedAt},
			},
			Edited: []models.Edit{{
				ID:     "1",
				Author: "a",
				Type:   models.ChangeEdited,
				Previous: models.Revision{Content: "old one", Timestamp: "t0"},
				Current:  models.Revision{Content: "one", Timestamp: "t1"},
				CapturedAt: capturedAt,
			}},
			Deleted: []models.Record{
				{ID: "9", Author: "c", Timestamp: "t9", Content: "gone", CapturedAt: capturedAt},
			},
			Summary: models.DiffSummary{NewCount: 1, EditedCount: 1, DeletedCount: 1},
		},
		Metadata: models.RunMetadata{
			RunID:      "run-0001",
			TotalPages: 3,
			StartTime:  capturedAt,
			EndTime:    capturedAt.Add(10 * time.Second),
		},
	}
}

func TestRecord_ArchivesRunAndChanges(t *testing.T) {
	db, mock := setupMockDB(t)
	recorder := &Recorder{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `runs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `changes`").
		WillReturnResult(sqlmock.NewResult(1, 3))
	mock.ExpectCommit()

	err := recorder.Record(sampleResult())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_FirstRunWritesNoChanges(t *testing.T) {
	db, mock := setupMockDB(t)
	recorder := &Recorder{db: db}

	res := sampleResult()
	res.Diff = nil
	res.FirstRun = true

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `runs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := recorder.Record(res)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_RollsBackOnInsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	recorder := &Recorder{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `runs`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := recorder.Record(sampleResult())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentRuns(t *testing.T) {
	db, mock := setupMockDB(t)
	recorder := &Recorder{db: db}

	rows := sqlmock.NewRows([]string{"id", "run_id", "outcome", "total_records"}).
		AddRow(2, "run-0002", "partial", 10).
		AddRow(1, "run-0001", "success", 12)
	mock.ExpectQuery("SELECT \\* FROM `runs` ORDER BY started_at DESC LIMIT").
		WillReturnRows(rows)

	runs, err := recorder.RecentRuns(2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-0002", runs[0].RunID)
	assert.Equal(t, "partial", runs[0].Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChanges_FiltersByRun(t *testing.T) {
	db, mock := setupMockDB(t)
	recorder := &Recorder{db: db}

	rows := sqlmock.NewRows([]string{"id", "run_id", "record_id", "type"}).
		AddRow(1, "run-0001", "7", "new")
	mock.ExpectQuery("SELECT \\* FROM `changes` WHERE run_id = \\?").
		WithArgs("run-0001").
		WillReturnRows(rows)

	changes, err := recorder.Changes("run-0001")

	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "7", changes[0].RecordID)
	assert.Equal(t, "new", changes[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
