package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
)

// finishTutorialWithoutAdvance drives the cursor through every lesson but
// leaves the user parked in the tutorial state, the way a crash between the
// last note and the stage hand-off would.
func finishTutorialWithoutAdvance(t *testing.T, env *testEnv, user *models.User) {
	t.Helper()
	ctx := context.Background()

	if err := env.handler.cursor.Start(ctx, user.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		outcome, err := env.handler.cursor.Accept(ctx, user.ID, "a long enough note")
		if err != nil {
			t.Fatalf("Accept failed: %v", err)
		}
		if i == 1 && !outcome.Completed {
			t.Fatalf("Expected the flow to complete, got %+v", outcome)
		}
	}
}

func TestCompletedFlowRecoversOnNextMessage(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	userID := int64(100)

	user, err := env.userRepo.Ensure(userID, 0)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	user.State = fsm.StateTutorial
	if err := env.userRepo.Save(user); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	finishTutorialWithoutAdvance(t, env, user)

	// Any text from the parked user retries the hand-off instead of being
	// silently dropped.
	env.handler.handleLessonNote(ctx, user, "hello again")
	if user.State != fsm.StateLeads {
		t.Fatalf("Expected state %s, got %s", fsm.StateLeads, user.State)
	}

	stored, err := env.userRepo.GetByID(userID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.State != fsm.StateLeads {
		t.Errorf("Persisted state is %s", stored.State)
	}
	if len(env.prompts.prompts) != 1 || !strings.Contains(env.prompts.prompts[0], "Lead 1/2") {
		t.Errorf("Expected the first lead prompt, got %v", env.prompts.prompts)
	}
}

func TestCompletedFlowRecoversOnStart(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	userID := int64(100)

	user, err := env.userRepo.Ensure(userID, 0)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	user.State = fsm.StateTutorial
	if err := env.userRepo.Save(user); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	finishTutorialWithoutAdvance(t, env, user)

	env.handler.resumePrompt(ctx, user)
	if user.State != fsm.StateLeads {
		t.Fatalf("Expected state %s after resume, got %s", fsm.StateLeads, user.State)
	}
	if len(env.prompts.prompts) != 1 {
		t.Errorf("Expected one lead prompt, got %v", env.prompts.prompts)
	}
}

func TestUnfinishedTutorialResumeRedelivers(t *testing.T) {
	env := newTestEnv(t, 2)
	ctx := context.Background()
	userID := int64(100)

	user, err := env.userRepo.Ensure(userID, 0)
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	user.State = fsm.StateTutorial
	if err := env.userRepo.Save(user); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := env.handler.cursor.Start(ctx, userID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	env.handler.resumePrompt(ctx, user)
	if user.State != fsm.StateTutorial {
		t.Fatalf("Resume moved an unfinished flow to %s", user.State)
	}
	if len(env.lessons.sent) != 2 || env.lessons.sent[1] != 1 {
		t.Errorf("Expected lesson 1 redelivered, got %v", env.lessons.sent)
	}
}
