package db

import (
	"database/sql"

	"github.com/ad/go-telegram-onboarding/internal/models"
)

type FollowUpRepository struct {
	queue *DBQueue
}

func NewFollowUpRepository(queue *DBQueue) *FollowUpRepository {
	return &FollowUpRepository{queue: queue}
}

func (r *FollowUpRepository) Create(q *models.FollowUpQuestion) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO follow_up_questions (id, user_id, item_idx, question, status)
			VALUES (?, ?, ?, ?, ?)
		`, q.ID, q.UserID, q.ItemIdx, q.Question, models.FollowUpPending)
		return nil, err
	})
	return err
}

func (r *FollowUpRepository) GetByID(id string) (*models.FollowUpQuestion, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`
			SELECT id, user_id, item_idx, question, status, answer, created_at, answered_at
			FROM follow_up_questions WHERE id = ?
		`, id)
		return scanFollowUp(row)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.FollowUpQuestion), nil
}

// Answer records the operator's reply. It only applies while the question is
// still pending; a second answer for the same ID reports sql.ErrNoRows.
func (r *FollowUpRepository) Answer(id string, answer string) (*models.FollowUpQuestion, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		res, err := db.Exec(`
			UPDATE follow_up_questions
			SET status = ?, answer = ?, answered_at = CURRENT_TIMESTAMP
			WHERE id = ? AND status = ?
		`, models.FollowUpAnswered, answer, id, models.FollowUpPending)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, sql.ErrNoRows
		}
		row := db.QueryRow(`
			SELECT id, user_id, item_idx, question, status, answer, created_at, answered_at
			FROM follow_up_questions WHERE id = ?
		`, id)
		return scanFollowUp(row)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.FollowUpQuestion), nil
}

func (r *FollowUpRepository) CountPending() (int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		var count int
		err := db.QueryRow(`
			SELECT COUNT(*) FROM follow_up_questions WHERE status = ?
		`, models.FollowUpPending).Scan(&count)
		return count, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func scanFollowUp(row *sql.Row) (*models.FollowUpQuestion, error) {
	var q models.FollowUpQuestion
	var answeredAt sql.NullTime
	err := row.Scan(&q.ID, &q.UserID, &q.ItemIdx, &q.Question, &q.Status, &q.Answer, &q.CreatedAt, &answeredAt)
	if err != nil {
		return nil, err
	}
	if answeredAt.Valid {
		q.AnsweredAt = &answeredAt.Time
	}
	return &q, nil
}
