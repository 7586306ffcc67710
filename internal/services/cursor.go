package services

import (
	"context"
	"errors"
	"log"

	"github.com/ad/go-telegram-onboarding/internal/content"
	"github.com/ad/go-telegram-onboarding/internal/db"
)

// ErrEmptyResponse is returned by Accept for blank or too-short notes.
var ErrEmptyResponse = errors.New("response is blank or too short")

// ContentSource locates stage items; *content.Resolver implements it.
type ContentSource interface {
	Resolve(stage string, idx int) (*content.Item, error)
	Count(stage string) int
}

// LessonSender renders one lesson to the user; the message manager
// implements it against Telegram.
type LessonSender interface {
	SendLesson(ctx context.Context, userID int64, idx, total int, item *content.Item) error
}

// LessonCursor drives the strictly ordered lesson flow: deliver item i,
// wait for exactly one note, advance. At most one lesson is pending at a
// time and the index never decreases. Re-entry policy is hard reset: Start
// always begins at lesson 1 (prior notes are discarded).
type LessonCursor struct {
	flowRepo *db.FlowRepository
	noteRepo *db.NoteRepository
	source   ContentSource
	sender   LessonSender
	stage    string
	minNote  int
}

type AcceptOutcome struct {
	// Stale is set when no note was awaited; the event is dropped without
	// any state change.
	Stale     bool
	Idx       int
	Completed bool
}

func NewLessonCursor(flowRepo *db.FlowRepository, noteRepo *db.NoteRepository, source ContentSource, sender LessonSender, stage string, minNote int) *LessonCursor {
	return &LessonCursor{
		flowRepo: flowRepo,
		noteRepo: noteRepo,
		source:   source,
		sender:   sender,
		stage:    stage,
		minNote:  minNote,
	}
}

func (c *LessonCursor) Total() int {
	return c.source.Count(c.stage)
}

// Start hard-resets the flow and delivers lesson 1.
func (c *LessonCursor) Start(ctx context.Context, userID int64) error {
	if err := c.flowRepo.Reset(userID); err != nil {
		return err
	}
	if err := c.noteRepo.DeleteByUser(userID); err != nil {
		return err
	}
	return c.Deliver(ctx, userID, 1)
}

// Deliver resolves and renders lesson idx, then marks it pending. Resolution
// failures surface before any state is touched, so the flow stays parked at
// the previous position until the content is fixed and delivery is retried.
func (c *LessonCursor) Deliver(ctx context.Context, userID int64, idx int) error {
	item, err := c.source.Resolve(c.stage, idx)
	if err != nil {
		return err
	}

	flow, err := c.flowRepo.Get(userID)
	if err != nil {
		return err
	}
	if idx < flow.CurrentIdx {
		log.Printf("[CURSOR] refusing to move user %d back from lesson %d to %d", userID, flow.CurrentIdx, idx)
		return nil
	}

	flow.CurrentIdx = idx
	flow.Waiting = true
	flow.Completed = false
	if err := c.flowRepo.Update(flow); err != nil {
		return err
	}

	return c.sender.SendLesson(ctx, userID, idx, c.Total(), item)
}

// DeliverNext re-renders the pending lesson, or delivers the one after the
// last accepted. Used on resume (restart, /start mid-stage, retry after a
// content fix).
func (c *LessonCursor) DeliverNext(ctx context.Context, userID int64) error {
	flow, err := c.flowRepo.Get(userID)
	if err != nil {
		return err
	}
	if flow.Completed {
		return nil
	}
	if flow.Waiting {
		return c.Deliver(ctx, userID, flow.CurrentIdx)
	}
	return c.Deliver(ctx, userID, flow.CurrentIdx+1)
}

// Accept captures the note for the pending lesson and advances. A call while
// no note is awaited is reported as stale and changes nothing, so duplicate
// events can never double-advance the flow.
func (c *LessonCursor) Accept(ctx context.Context, userID int64, note string) (AcceptOutcome, error) {
	flow, err := c.flowRepo.Get(userID)
	if err != nil {
		return AcceptOutcome{}, err
	}
	if !flow.Waiting || flow.Completed || flow.CurrentIdx == 0 {
		return AcceptOutcome{Stale: true, Idx: flow.CurrentIdx, Completed: flow.Completed}, nil
	}

	if !ValidFreeText(note, c.minNote) {
		return AcceptOutcome{Idx: flow.CurrentIdx}, ErrEmptyResponse
	}

	if err := c.noteRepo.Upsert(userID, flow.CurrentIdx, note); err != nil {
		return AcceptOutcome{}, err
	}

	if flow.CurrentIdx >= c.Total() {
		flow.Waiting = false
		flow.Completed = true
		if err := c.flowRepo.Update(flow); err != nil {
			return AcceptOutcome{}, err
		}
		return AcceptOutcome{Idx: flow.CurrentIdx, Completed: true}, nil
	}

	flow.Waiting = false
	if err := c.flowRepo.Update(flow); err != nil {
		return AcceptOutcome{}, err
	}

	next := flow.CurrentIdx + 1
	if err := c.Deliver(ctx, userID, next); err != nil {
		// The note is saved and waiting is cleared; the flow stays parked
		// before lesson `next` until delivery is retried.
		return AcceptOutcome{Idx: flow.CurrentIdx}, err
	}
	return AcceptOutcome{Idx: next}, nil
}

// IsCompleted reports whether the user has finished every lesson.
func (c *LessonCursor) IsCompleted(userID int64) (bool, error) {
	flow, err := c.flowRepo.Get(userID)
	if err != nil {
		return false, err
	}
	return flow.Completed, nil
}

// Reset restarts the stage from lesson 1 without delivering anything.
func (c *LessonCursor) Reset(userID int64) error {
	if err := c.flowRepo.Reset(userID); err != nil {
		return err
	}
	return c.noteRepo.DeleteByUser(userID)
}
