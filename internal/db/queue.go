package db

import (
	"database/sql"
	"time"
)

// DBQueue serializes all SQLite access through a single worker goroutine.
// SQLite allows one writer at a time; funneling every operation through the
// queue keeps concurrent per-user handlers from tripping over SQLITE_BUSY.
type DBQueue struct {
	tasks      chan dbTask
	db         *sql.DB
	maxRetry   int
	retryDelay time.Duration
}

type dbTask struct {
	exec func(*sql.DB) (interface{}, error)
	resp chan dbResult
}

type dbResult struct {
	data interface{}
	err  error
}

func NewDBQueue(db *sql.DB) *DBQueue {
	return newDBQueue(db, 100*time.Millisecond)
}

// NewDBQueueForTest uses a minimal retry delay.
func NewDBQueueForTest(db *sql.DB) *DBQueue {
	return newDBQueue(db, time.Millisecond)
}

func newDBQueue(db *sql.DB, retryDelay time.Duration) *DBQueue {
	q := &DBQueue{
		tasks:      make(chan dbTask, 100),
		db:         db,
		maxRetry:   3,
		retryDelay: retryDelay,
	}
	go q.worker()
	return q
}

func (q *DBQueue) Execute(task func(*sql.DB) (interface{}, error)) (interface{}, error) {
	resp := make(chan dbResult, 1)
	q.tasks <- dbTask{exec: task, resp: resp}
	result := <-resp
	return result.data, result.err
}

func (q *DBQueue) worker() {
	for task := range q.tasks {
		task.resp <- q.executeWithRetry(task)
	}
}

func (q *DBQueue) executeWithRetry(task dbTask) dbResult {
	var lastErr error
	for attempt := 0; attempt < q.maxRetry; attempt++ {
		data, err := task.exec(q.db)
		if err == nil {
			return dbResult{data: data}
		}
		lastErr = err
		if attempt < q.maxRetry-1 {
			time.Sleep(time.Duration(attempt+1) * q.retryDelay)
		}
	}
	return dbResult{err: lastErr}
}

func (q *DBQueue) Close() {
	close(q.tasks)
}

func (q *DBQueue) DB() *sql.DB {
	return q.db
}
