package models

import "time"

// StageProgress holds the per-user sub-flags of the gated materials stage.
// Flags only ever transition false -> true; nothing unsets them.
type StageProgress struct {
	UserID    int64
	TextDone  bool
	AudioDone bool
	VideoDone bool
	LinksDone bool
	UpdatedAt time.Time
}

func (p *StageProgress) Done(key MaterialKey) bool {
	switch key {
	case MaterialText:
		return p.TextDone
	case MaterialAudio:
		return p.AudioDone
	case MaterialVideo:
		return p.VideoDone
	case MaterialLinks:
		return p.LinksDone
	}
	return false
}

func (p *StageProgress) DoneCount() int {
	count := 0
	for _, done := range []bool{p.TextDone, p.AudioDone, p.VideoDone, p.LinksDone} {
		if done {
			count++
		}
	}
	return count
}
