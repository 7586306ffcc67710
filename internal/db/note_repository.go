package db

import (
	"database/sql"

	"github.com/ad/go-telegram-onboarding/internal/models"
)

type NoteRepository struct {
	queue *DBQueue
}

func NewNoteRepository(queue *DBQueue) *NoteRepository {
	return &NoteRepository{queue: queue}
}

// Upsert stores the note for (user, idx); a duplicate submission for the same
// index overwrites rather than creating a second row.
func (r *NoteRepository) Upsert(userID int64, idx int, note string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO lesson_notes (user_id, idx, note)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id, idx) DO UPDATE SET note = excluded.note
		`, userID, idx, note)
		return nil, err
	})
	return err
}

func (r *NoteRepository) Get(userID int64, idx int) (*models.LessonNote, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`
			SELECT user_id, idx, note, created_at
			FROM lesson_notes WHERE user_id = ? AND idx = ?
		`, userID, idx)

		var n models.LessonNote
		err := row.Scan(&n.UserID, &n.Idx, &n.Note, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		return &n, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.LessonNote), nil
}

func (r *NoteRepository) CountByUser(userID int64) (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM lesson_notes WHERE user_id = ?`, userID).Scan(&count)
		return count, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func (r *NoteRepository) DeleteByUser(userID int64) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`DELETE FROM lesson_notes WHERE user_id = ?`, userID)
		return nil, err
	})
	return err
}
