package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
)

func TestFollowUpDuplicateAnswerDoesNotSkipItems(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	userID := int64(100)

	user, err := env.userRepo.Ensure(userID, 0)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	env.handler.enterFollowUps(ctx, user)
	if user.State != fsm.StateFollowUps {
		t.Fatalf("Expected state %s, got %s", fsm.StateFollowUps, user.State)
	}

	env.handler.handleFollowUpNo(ctx, user, 1)
	counter, err := env.counterRepo.Get(userID, models.CounterFollowUp)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if counter != 2 {
		t.Fatalf("Expected counter 2 after first answer, got %d", counter)
	}

	// The same button pressed again must be a no-op: its index no longer
	// matches the counter.
	env.handler.handleFollowUpNo(ctx, user, 1)
	counter, err = env.counterRepo.Get(userID, models.CounterFollowUp)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if counter != 2 {
		t.Errorf("Duplicate answer advanced the counter to %d", counter)
	}
	if user.State != fsm.StateFollowUps {
		t.Errorf("Duplicate answer moved the state to %s", user.State)
	}

	// Same for a stale "yes": it must not open the question prompt for a
	// presentation that was already answered.
	env.handler.handleFollowUpYes(ctx, user, 1)
	if user.State != fsm.StateFollowUps {
		t.Errorf("Stale yes-answer moved the state to %s", user.State)
	}

	// Answering the live item finishes the walk (target is 2 in the test
	// config).
	env.handler.handleFollowUpNo(ctx, user, 2)
	if user.State != fsm.StateCompleted {
		t.Fatalf("Expected state %s after the last item, got %s", fsm.StateCompleted, user.State)
	}
	if !strings.Contains(env.msgs.last(), "Congratulations") {
		t.Errorf("Expected the completion message, got %q", env.msgs.last())
	}
}

func TestFollowUpKeyboardCarriesItemIndex(t *testing.T) {
	kb := followUpKeyboard(7)
	row := kb.InlineKeyboard[0]
	if row[0].CallbackData != "followup:no:7" {
		t.Errorf("Expected followup:no:7, got %s", row[0].CallbackData)
	}
	if row[1].CallbackData != "followup:yes:7" {
		t.Errorf("Expected followup:yes:7, got %s", row[1].CallbackData)
	}
}
