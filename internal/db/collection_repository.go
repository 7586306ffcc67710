package db

import (
	"database/sql"

	"github.com/ad/go-telegram-onboarding/internal/models"
)

type CollectionRepository struct {
	queue *DBQueue
}

func NewCollectionRepository(queue *DBQueue) *CollectionRepository {
	return &CollectionRepository{queue: queue}
}

// Upsert stores one captured datum; a duplicate index overwrites rather than
// double-counting.
func (r *CollectionRepository) Upsert(entry *models.CollectionEntry) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO collection_entries (user_id, stage, idx, text)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, stage, idx) DO UPDATE SET text = excluded.text
		`, entry.UserID, entry.Stage, entry.Idx, entry.Text)
		return nil, err
	})
	return err
}

func (r *CollectionRepository) CountByStage(userID int64, stage models.CollectionStage) (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var count int
		err := db.QueryRow(`
			SELECT COUNT(*) FROM collection_entries WHERE user_id = ? AND stage = ?
		`, userID, stage).Scan(&count)
		return count, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func (r *CollectionRepository) ListByStage(userID int64, stage models.CollectionStage) ([]*models.CollectionEntry, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`
			SELECT user_id, stage, idx, text, created_at
			FROM collection_entries WHERE user_id = ? AND stage = ?
			ORDER BY idx
		`, userID, stage)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var entries []*models.CollectionEntry
		for rows.Next() {
			var e models.CollectionEntry
			if err := rows.Scan(&e.UserID, &e.Stage, &e.Idx, &e.Text, &e.CreatedAt); err != nil {
				return nil, err
			}
			entries = append(entries, &e)
		}
		return entries, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.([]*models.CollectionEntry), nil
}
