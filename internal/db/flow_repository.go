package db

import (
	"database/sql"

	"github.com/ad/go-telegram-onboarding/internal/models"
)

type FlowRepository struct {
	queue *DBQueue
}

func NewFlowRepository(queue *DBQueue) *FlowRepository {
	return &FlowRepository{queue: queue}
}

func (r *FlowRepository) Get(userID int64) (*models.LessonFlow, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		if _, err := db.Exec(`INSERT OR IGNORE INTO lesson_flow (user_id) VALUES (?)`, userID); err != nil {
			return nil, err
		}
		row := db.QueryRow(`
			SELECT user_id, current_idx, waiting_note, completed, updated_at
			FROM lesson_flow WHERE user_id = ?
		`, userID)

		var f models.LessonFlow
		err := row.Scan(&f.UserID, &f.CurrentIdx, &f.Waiting, &f.Completed, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &f, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.LessonFlow), nil
}

// Update writes the flow record. The index is guarded in SQL so a stale
// write can never move it backwards.
func (r *FlowRepository) Update(flow *models.LessonFlow) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			UPDATE lesson_flow
			SET current_idx = ?, waiting_note = ?, completed = ?, updated_at = CURRENT_TIMESTAMP
			WHERE user_id = ? AND current_idx <= ?
		`, flow.CurrentIdx, flow.Waiting, flow.Completed, flow.UserID, flow.CurrentIdx)
		return nil, err
	})
	return err
}

// Reset restarts the flow from scratch (index 0, nothing pending).
func (r *FlowRepository) Reset(userID int64) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO lesson_flow (user_id, current_idx, waiting_note, completed, updated_at)
			VALUES (?, 0, FALSE, FALSE, CURRENT_TIMESTAMP)
			ON CONFLICT(user_id) DO UPDATE SET
				current_idx = 0, waiting_note = FALSE, completed = FALSE, updated_at = CURRENT_TIMESTAMP
		`, userID)
		return nil, err
	})
	return err
}
