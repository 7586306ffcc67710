package db

import (
	"database/sql"
	"strings"

	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/google/uuid"
)

type UserRepository struct {
	queue *DBQueue
}

func NewUserRepository(queue *DBQueue) *UserRepository {
	return &UserRepository{queue: queue}
}

// Ensure creates the user on first contact along with its stage_progress and
// lesson_flow rows. The referral code is generated once and never rewritten;
// the inviter is recorded first-write-wins. Safe to call on every /start.
func (r *UserRepository) Ensure(userID int64, inviterID int64) (*models.User, error) {
	refCode := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO users (id, state, inviter_id, ref_code)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, userID, fsm.StateRegName, inviterID, refCode)
		if err != nil {
			return nil, err
		}
		if _, err := db.Exec(`INSERT OR IGNORE INTO stage_progress (user_id) VALUES (?)`, userID); err != nil {
			return nil, err
		}
		_, err = db.Exec(`INSERT OR IGNORE INTO lesson_flow (user_id) VALUES (?)`, userID)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(userID)
}

func (r *UserRepository) GetByID(userID int64) (*models.User, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`
			SELECT id, state, full_name, member_id, join_date, phone, level, inviter_id, ref_code, created_at
			FROM users WHERE id = ?
		`, userID)
		return scanUser(row)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

func (r *UserRepository) GetByRefCode(refCode string) (*models.User, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		row := db.QueryRow(`
			SELECT id, state, full_name, member_id, join_date, phone, level, inviter_id, ref_code, created_at
			FROM users WHERE ref_code = ?
		`, refCode)
		return scanUser(row)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

// Save writes the workflow state and all profile fields in one statement so a
// transition is applied all-or-nothing. Inviter and referral code are
// deliberately excluded: both are write-once.
func (r *UserRepository) Save(user *models.User) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			UPDATE users
			SET state = ?, full_name = ?, member_id = ?, join_date = ?, phone = ?, level = ?
			WHERE id = ?
		`, user.State, user.FullName, user.MemberID, user.JoinDate, user.Phone, user.Level, user.ID)
		return nil, err
	})
	return err
}

func (r *UserRepository) SetState(userID int64, state string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`UPDATE users SET state = ? WHERE id = ?`, state, userID)
		return nil, err
	})
	return err
}

func (r *UserRepository) CountByState() (map[string]int, error) {
	result, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		rows, err := db.Query(`SELECT state, COUNT(*) FROM users GROUP BY state`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		counts := make(map[string]int)
		for rows.Next() {
			var state string
			var count int
			if err := rows.Scan(&state, &count); err != nil {
				return nil, err
			}
			counts[state] = count
		}
		return counts, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]int), nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var refCode sql.NullString
	err := row.Scan(&user.ID, &user.State, &user.FullName, &user.MemberID,
		&user.JoinDate, &user.Phone, &user.Level, &user.InviterID, &refCode, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.RefCode = refCode.String
	return &user, nil
}
