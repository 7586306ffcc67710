package services

import (
	"context"
	"fmt"

	"github.com/ad/go-telegram-onboarding/internal/content"
	"github.com/ad/go-telegram-onboarding/internal/db"
	"github.com/ad/go-telegram-onboarding/internal/models"
)

// PromptSender renders a collection prompt, optionally with a manifest item
// (short audio) attached.
type PromptSender interface {
	SendPrompt(ctx context.Context, userID int64, text string, item *content.Item) error
}

// StageDef describes one counter-driven collection stage: repeat
// "prompt -> capture one datum -> increment" until Target is reached.
type StageDef struct {
	Stage   models.CollectionStage
	Counter models.CounterName
	Target  int
	// Prompt is a format string receiving (index, target).
	Prompt string
	MinLen int
}

type CaptureOutcome struct {
	Stale     bool
	Idx       int
	Completed bool
}

type CollectionService struct {
	counterRepo *db.CounterRepository
	entryRepo   *db.CollectionRepository
	source      ContentSource
	sender      PromptSender
}

func NewCollectionService(counterRepo *db.CounterRepository, entryRepo *db.CollectionRepository, source ContentSource, sender PromptSender) *CollectionService {
	return &CollectionService{
		counterRepo: counterRepo,
		entryRepo:   entryRepo,
		source:      source,
		sender:      sender,
	}
}

// Prompt renders the request for the current item. A manifest prompt item is
// attached when one is declared for the stage; collection prompts are plain
// text otherwise (unlike lessons, they have no per-index backing content).
func (s *CollectionService) Prompt(ctx context.Context, userID int64, def StageDef) error {
	idx, err := s.counterRepo.Get(userID, def.Counter)
	if err != nil {
		return err
	}
	if idx > def.Target {
		return nil
	}

	var item *content.Item
	if s.source.Count(string(def.Stage)) > 0 {
		if resolved, err := s.source.Resolve(string(def.Stage), 1); err == nil {
			item = resolved
		}
	}

	return s.sender.SendPrompt(ctx, userID, fmt.Sprintf(def.Prompt, idx, def.Target), item)
}

// Capture stores one datum under the current counter value and advances the
// counter. The entry is upserted by (user, stage, index), so a duplicate
// delivery of the same event overwrites instead of double-counting.
func (s *CollectionService) Capture(ctx context.Context, userID int64, def StageDef, text string) (CaptureOutcome, error) {
	idx, err := s.counterRepo.Get(userID, def.Counter)
	if err != nil {
		return CaptureOutcome{}, err
	}
	if idx > def.Target {
		return CaptureOutcome{Stale: true, Idx: idx, Completed: true}, nil
	}

	if !ValidFreeText(text, def.MinLen) {
		return CaptureOutcome{Idx: idx}, ErrEmptyResponse
	}

	if err := s.entryRepo.Upsert(&models.CollectionEntry{
		UserID: userID,
		Stage:  def.Stage,
		Idx:    idx,
		Text:   text,
	}); err != nil {
		return CaptureOutcome{}, err
	}

	if err := s.counterRepo.Set(userID, def.Counter, idx+1); err != nil {
		return CaptureOutcome{}, err
	}

	return CaptureOutcome{Idx: idx, Completed: idx >= def.Target}, nil
}

// Restart resets the stage counter back to its default.
func (s *CollectionService) Restart(userID int64, def StageDef) error {
	return s.counterRepo.Reset(userID, def.Counter)
}
