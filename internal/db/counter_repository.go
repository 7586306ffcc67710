package db

import (
	"database/sql"

	"github.com/ad/go-telegram-onboarding/internal/models"
)

type CounterRepository struct {
	queue *DBQueue
}

func NewCounterRepository(queue *DBQueue) *CounterRepository {
	return &CounterRepository{queue: queue}
}

// Get returns the counter value, defaulting to 1 when no row exists yet.
// Counters are independent per (user, name); stages never share one.
func (r *CounterRepository) Get(userID int64, name models.CounterName) (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var value int
		err := db.QueryRow(`
			SELECT value FROM counters WHERE user_id = ? AND name = ?
		`, userID, name).Scan(&value)
		if err == sql.ErrNoRows {
			return 1, nil
		}
		return value, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func (r *CounterRepository) Set(userID int64, name models.CounterName, value int) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO counters (user_id, name, value)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id, name) DO UPDATE SET value = excluded.value
		`, userID, name, value)
		return nil, err
	})
	return err
}

func (r *CounterRepository) Reset(userID int64, name models.CounterName) error {
	return r.Set(userID, name, 1)
}
