package db

import (
	"database/sql"
)

// RetryRepository keeps validation attempt counters durable. A process
// restart therefore never resets an in-flight retry loop.
type RetryRepository struct {
	queue *DBQueue
}

func NewRetryRepository(queue *DBQueue) *RetryRepository {
	return &RetryRepository{queue: queue}
}

func (r *RetryRepository) Get(userID int64, checkpoint string) (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var attempts int
		err := db.QueryRow(`
			SELECT attempts FROM retry_attempts WHERE user_id = ? AND checkpoint = ?
		`, userID, checkpoint).Scan(&attempts)
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return attempts, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// Increment bumps the attempt counter and returns the new value.
func (r *RetryRepository) Increment(userID int64, checkpoint string) (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO retry_attempts (user_id, checkpoint, attempts)
			VALUES (?, ?, 1)
			ON CONFLICT(user_id, checkpoint) DO UPDATE SET attempts = attempts + 1
		`, userID, checkpoint)
		if err != nil {
			return nil, err
		}
		var attempts int
		err = db.QueryRow(`
			SELECT attempts FROM retry_attempts WHERE user_id = ? AND checkpoint = ?
		`, userID, checkpoint).Scan(&attempts)
		return attempts, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func (r *RetryRepository) Reset(userID int64, checkpoint string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO retry_attempts (user_id, checkpoint, attempts)
			VALUES (?, ?, 0)
			ON CONFLICT(user_id, checkpoint) DO UPDATE SET attempts = 0
		`, userID, checkpoint)
		return nil, err
	})
	return err
}
