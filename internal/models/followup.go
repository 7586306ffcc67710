package models

import "time"

// FollowUpQuestion is a blocking question escalated to the operator channel.
// The operator's answer is matched back by ID, never by the user's live state:
// the user may have moved on by the time the answer arrives.
type FollowUpQuestion struct {
	ID         string
	UserID     int64
	ItemIdx    int
	Question   string
	Status     FollowUpStatus
	Answer     string
	CreatedAt  time.Time
	AnsweredAt *time.Time
}
