package models

import "time"

// LessonNote is the free-text annotation captured after lesson Idx was
// delivered. Keyed by (UserID, Idx); resubmission overwrites (latest wins).
type LessonNote struct {
	UserID    int64
	Idx       int
	Note      string
	CreatedAt time.Time
}
