package models

import "time"

// LessonFlow tracks the sequential tutorial for one user. CurrentIdx is the
// 1-based index of the last delivered lesson, 0 while nothing was delivered.
// Invariants: CurrentIdx never decreases; Waiting is true for at most one
// lesson at a time; Completed implies CurrentIdx == total and !Waiting.
type LessonFlow struct {
	UserID     int64
	CurrentIdx int
	Waiting    bool
	Completed  bool
	UpdatedAt  time.Time
}
