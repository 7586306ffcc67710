package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ad/go-telegram-onboarding/internal/content"
	"github.com/ad/go-telegram-onboarding/internal/db"
	"github.com/ad/go-telegram-onboarding/internal/models"
)

type fakePromptSender struct {
	prompts []string
}

func (s *fakePromptSender) SendPrompt(ctx context.Context, userID int64, text string, item *content.Item) error {
	s.prompts = append(s.prompts, text)
	return nil
}

func leadStage(target int) StageDef {
	return StageDef{
		Stage:   models.CollectionLeads,
		Counter: models.CounterLead,
		Target:  target,
		Prompt:  "Lead %d/%d",
		MinLen:  3,
	}
}

func newTestCollection(t *testing.T, sender *fakePromptSender) (*CollectionService, *db.CollectionRepository) {
	t.Helper()
	queue := setupQueue(t)
	entryRepo := db.NewCollectionRepository(queue)
	svc := NewCollectionService(db.NewCounterRepository(queue), entryRepo, &fakeSource{total: 0}, sender)
	return svc, entryRepo
}

func TestCollection_CaptureToTarget(t *testing.T) {
	sender := &fakePromptSender{}
	svc, entryRepo := newTestCollection(t, sender)
	ctx := context.Background()

	def := leadStage(5)
	userID := int64(100)

	for i := 1; i <= 5; i++ {
		if err := svc.Prompt(ctx, userID, def); err != nil {
			t.Fatalf("Prompt failed: %v", err)
		}

		outcome, err := svc.Capture(ctx, userID, def, fmt.Sprintf("Lead number %d", i))
		if err != nil {
			t.Fatalf("Capture %d failed: %v", i, err)
		}
		if outcome.Idx != i {
			t.Errorf("Expected index %d, got %d", i, outcome.Idx)
		}
		if (i == 5) != outcome.Completed {
			t.Errorf("Completed=%v at index %d", outcome.Completed, i)
		}
	}

	if sender.prompts[0] != "Lead 1/5" || sender.prompts[4] != "Lead 5/5" {
		t.Errorf("Prompts not numbered from the counter: %v", sender.prompts)
	}

	count, err := entryRepo.CountByStage(userID, models.CollectionLeads)
	if err != nil {
		t.Fatalf("CountByStage failed: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected 5 stored entries, got %d", count)
	}
}

func TestCollection_CaptureAfterTargetIsStale(t *testing.T) {
	sender := &fakePromptSender{}
	svc, _ := newTestCollection(t, sender)
	ctx := context.Background()

	def := leadStage(2)
	userID := int64(100)

	for i := 1; i <= 2; i++ {
		if _, err := svc.Capture(ctx, userID, def, "a valid lead"); err != nil {
			t.Fatalf("Capture failed: %v", err)
		}
	}

	outcome, err := svc.Capture(ctx, userID, def, "one too many")
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if !outcome.Stale {
		t.Error("Expected capture past the target to be stale")
	}

	// Prompting past the target is a no-op as well.
	if err := svc.Prompt(ctx, userID, def); err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	if len(sender.prompts) != 0 {
		t.Errorf("Expected no prompt past the target, got %v", sender.prompts)
	}
}

func TestCollection_ShortEntryRejected(t *testing.T) {
	sender := &fakePromptSender{}
	svc, _ := newTestCollection(t, sender)
	ctx := context.Background()

	def := leadStage(3)
	_, err := svc.Capture(ctx, 100, def, "  x ")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("Expected ErrEmptyResponse, got %v", err)
	}

	// The counter did not advance.
	outcome, err := svc.Capture(ctx, 100, def, "a proper lead")
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if outcome.Idx != 1 {
		t.Errorf("Counter advanced on a rejected entry: %+v", outcome)
	}
}

func TestCollection_Restart(t *testing.T) {
	sender := &fakePromptSender{}
	svc, _ := newTestCollection(t, sender)
	ctx := context.Background()

	def := leadStage(5)
	for i := 0; i < 3; i++ {
		if _, err := svc.Capture(ctx, 100, def, "a valid lead"); err != nil {
			t.Fatalf("Capture failed: %v", err)
		}
	}

	if err := svc.Restart(100, def); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}

	outcome, err := svc.Capture(ctx, 100, def, "starting over")
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if outcome.Idx != 1 {
		t.Errorf("Expected counter back at 1 after restart, got %d", outcome.Idx)
	}
}
