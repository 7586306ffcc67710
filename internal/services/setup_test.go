package services

import (
	"database/sql"
	"testing"

	"github.com/ad/go-telegram-onboarding/internal/db"
	_ "modernc.org/sqlite"
)

func setupQueue(t *testing.T) *db.DBQueue {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.InitSchema(sqlDB); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	queue := db.NewDBQueueForTest(sqlDB)
	t.Cleanup(queue.Close)

	return queue
}
