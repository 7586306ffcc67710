package models

import "time"

// CollectionEntry is one captured datum of a counter-driven stage
// (a lead, a meeting note, a presentation record).
type CollectionEntry struct {
	UserID    int64
	Stage     CollectionStage
	Idx       int
	Text      string
	CreatedAt time.Time
}
