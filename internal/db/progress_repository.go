package db

import (
	"database/sql"
	"fmt"

	"github.com/ad/go-telegram-onboarding/internal/models"
)

type ProgressRepository struct {
	queue *DBQueue
}

func NewProgressRepository(queue *DBQueue) *ProgressRepository {
	return &ProgressRepository{queue: queue}
}

func (r *ProgressRepository) Get(userID int64) (*models.StageProgress, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		if _, err := db.Exec(`INSERT OR IGNORE INTO stage_progress (user_id) VALUES (?)`, userID); err != nil {
			return nil, err
		}
		row := db.QueryRow(`
			SELECT user_id, text_done, audio_done, video_done, links_done, updated_at
			FROM stage_progress WHERE user_id = ?
		`, userID)

		var p models.StageProgress
		err := row.Scan(&p.UserID, &p.TextDone, &p.AudioDone, &p.VideoDone, &p.LinksDone, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.StageProgress), nil
}

// MarkDone sets one sub-flag to true. The key is mapped to a fixed column
// through the enum; flags are never unset.
func (r *ProgressRepository) MarkDone(userID int64, key models.MaterialKey) error {
	var column string
	switch key {
	case models.MaterialText:
		column = "text_done"
	case models.MaterialAudio:
		column = "audio_done"
	case models.MaterialVideo:
		column = "video_done"
	case models.MaterialLinks:
		column = "links_done"
	default:
		return fmt.Errorf("unknown material key %q", key)
	}

	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		if _, err := db.Exec(`INSERT OR IGNORE INTO stage_progress (user_id) VALUES (?)`, userID); err != nil {
			return nil, err
		}
		_, err := db.Exec(
			`UPDATE stage_progress SET `+column+` = TRUE, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
			userID)
		return nil, err
	})
	return err
}
