package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/ad/go-telegram-onboarding/internal/services"
)

// stageDef maps a collection state to its stage definition and the state that
// follows once the target count is reached.
func (h *BotHandler) stageDef(state string) (services.StageDef, string, bool) {
	switch state {
	case fsm.StateLeads:
		return services.StageDef{
			Stage:   models.CollectionLeads,
			Counter: models.CounterLead,
			Target:  h.cfg.LeadTarget,
			Prompt:  "📇 Lead %d/%d — send the name and phone of one person you want to invite.",
			MinLen:  3,
		}, fsm.StateMeetingNotes, true
	case fsm.StateMeetingNotes:
		return services.StageDef{
			Stage:   models.CollectionMeetingNotes,
			Counter: models.CounterMeetingNote,
			Target:  h.cfg.MeetingNoteTarget,
			Prompt:  "📝 Meeting %d/%d — hold a meeting and send a short summary of how it went.",
			MinLen:  h.cfg.MinNoteLength,
		}, fsm.StatePresentations, true
	case fsm.StatePresentations:
		return services.StageDef{
			Stage:   models.CollectionPresentations,
			Counter: models.CounterPresentation,
			Target:  h.cfg.PresentationTarget,
			Prompt:  "🎤 Presentation %d/%d — give the presentation and send who it was for and the outcome.",
			MinLen:  h.cfg.MinNoteLength,
		}, fsm.StateFollowUps, true
	}
	return services.StageDef{}, "", false
}

func stageIntro(state string, target int) string {
	switch state {
	case fsm.StateLeads:
		return fmt.Sprintf("📇 Next stage: build your contact list.\n\nSend %d people, one message each.", target)
	case fsm.StateMeetingNotes:
		return fmt.Sprintf("📝 Next stage: meetings.\n\nHold %d meetings and report each one here.", target)
	case fsm.StatePresentations:
		return fmt.Sprintf("🎤 Final stage: presentations.\n\nGive %d presentations and report each one here.", target)
	}
	return ""
}

// enterCollection starts (or restarts) a counter-driven stage and sends the
// first prompt.
func (h *BotHandler) enterCollection(ctx context.Context, user *models.User, state string) {
	def, _, ok := h.stageDef(state)
	if !ok {
		log.Printf("[COLLECTION] no stage definition for state %q", state)
		return
	}

	if err := h.userRepo.SetState(user.ID, state); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	user.State = state

	if err := h.collection.Restart(user.ID, def); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	h.sendText(ctx, user.ID, stageIntro(state, def.Target))
	if err := h.collection.Prompt(ctx, user.ID, def); err != nil {
		h.sendRetryable(ctx, user.ID)
	}
}

func (h *BotHandler) handleCollectionText(ctx context.Context, user *models.User, text string) {
	def, nextState, ok := h.stageDef(user.State)
	if !ok {
		h.sendNeutral(ctx, user)
		return
	}

	outcome, err := h.collection.Capture(ctx, user.ID, def, text)
	if err != nil {
		if errors.Is(err, services.ErrEmptyResponse) {
			h.sendText(ctx, user.ID, fmt.Sprintf(
				"✍️ Please write a bit more (at least %d characters).", def.MinLen))
			return
		}
		h.sendRetryable(ctx, user.ID)
		return
	}

	if outcome.Stale {
		// Counter is already past the target; the advance must have raced a
		// duplicate delivery.
		log.Printf("[COLLECTION] dropping stale %s entry from user %d", def.Stage, user.ID)
		return
	}

	if outcome.Completed {
		h.sendText(ctx, user.ID, fmt.Sprintf("🎉 %d/%d — stage complete!", def.Target, def.Target))
		h.advanceAfterCollection(ctx, user, nextState)
		return
	}

	if err := h.collection.Prompt(ctx, user.ID, def); err != nil {
		h.sendRetryable(ctx, user.ID)
	}
}

func (h *BotHandler) advanceAfterCollection(ctx context.Context, user *models.User, nextState string) {
	h.notifier.Notify(ctx, fmt.Sprintf("📈 %s finished the %s stage", user.DisplayName(), user.State))

	if nextState == fsm.StateFollowUps {
		h.enterFollowUps(ctx, user)
		return
	}
	h.enterCollection(ctx, user, nextState)
}
