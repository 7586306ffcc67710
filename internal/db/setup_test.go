package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) (*sql.DB, *DBQueue) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := InitSchema(sqlDB); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	queue := NewDBQueueForTest(sqlDB)
	t.Cleanup(queue.Close)

	return sqlDB, queue
}
