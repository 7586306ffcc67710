package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ad/go-telegram-onboarding/internal/content"
	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/ad/go-telegram-onboarding/internal/services"
	"github.com/go-telegram/bot"
)

func (h *BotHandler) handleConfirmText(ctx context.Context, user *models.User, text string) {
	result, err := h.governor.CheckExact(user.ID, checkpointTutorialConfirm, text,
		h.cfg.ConfirmText, h.cfg.ConfirmGateCaseSensitive)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	if result.OK {
		h.sendText(ctx, user.ID, "Great! ✅\n\nNow we go through the lessons one by one.")
		h.enterTutorial(ctx, user)
		return
	}

	if result.Escalate {
		h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
			ChatID: user.ID,
			Text: fmt.Sprintf("Please type exactly:\n%s\n\nOr just press the button below 👇",
				h.cfg.ConfirmText),
			ReplyMarkup: confirmTapKeyboard(h.cfg.ConfirmText),
		})
		return
	}

	h.sendText(ctx, user.ID, fmt.Sprintf("Wrong ❌ (%d/%d)\n\nType exactly: %s",
		result.Attempts, h.governor.Threshold(), h.cfg.ConfirmText))
}

// handleConfirmTap is the one-tap escalation affordance: it counts as a
// successful confirmation.
func (h *BotHandler) handleConfirmTap(ctx context.Context, user *models.User) {
	if user.State != fsm.StateTutorialConfirm {
		h.resumePrompt(ctx, user)
		return
	}

	if err := h.governor.Reset(user.ID, checkpointTutorialConfirm); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	h.sendText(ctx, user.ID, "Great! ✅")
	h.enterTutorial(ctx, user)
}

func (h *BotHandler) enterTutorial(ctx context.Context, user *models.User) {
	if err := h.userRepo.SetState(user.ID, fsm.StateTutorial); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	user.State = fsm.StateTutorial

	if err := h.cursor.Start(ctx, user.ID); err != nil {
		h.handleDeliveryError(ctx, user.ID, err)
	}
}

func (h *BotHandler) handleTutorialResume(ctx context.Context, user *models.User) {
	if user.State != fsm.StateTutorial {
		h.resumePrompt(ctx, user)
		return
	}
	if err := h.cursor.DeliverNext(ctx, user.ID); err != nil {
		h.handleDeliveryError(ctx, user.ID, err)
	}
}

func (h *BotHandler) handleLessonNote(ctx context.Context, user *models.User, text string) {
	outcome, err := h.cursor.Accept(ctx, user.ID, text)
	if err != nil {
		if errors.Is(err, services.ErrEmptyResponse) {
			h.sendText(ctx, user.ID, fmt.Sprintf(
				"✍️ Please write a slightly longer note (at least %d characters).",
				h.cfg.MinNoteLength))
			return
		}
		h.handleDeliveryError(ctx, user.ID, err)
		return
	}

	if outcome.Stale {
		// A completed flow still in the tutorial state means the advance into
		// the next stage failed earlier; this message is the retry.
		if outcome.Completed {
			h.enterCollection(ctx, user, fsm.StateLeads)
			return
		}
		// Duplicate or out-of-order event; nothing was awaited.
		log.Printf("[TUTORIAL] dropping stale note from user %d at lesson %d", user.ID, outcome.Idx)
		return
	}

	if outcome.Completed {
		h.sendText(ctx, user.ID, "🎉 Tutorial complete! Your notes are saved.")
		h.enterCollection(ctx, user, fsm.StateLeads)
	}
}

// handleDeliveryError reports an unresolvable item to both sides: the user
// gets a retryable "temporarily unavailable", the operators get the exact
// stage, index and locator. The flow stays parked at the same item.
func (h *BotHandler) handleDeliveryError(ctx context.Context, userID int64, err error) {
	var nf *content.NotFoundError
	if errors.As(err, &nf) {
		h.notifier.NotifyContentMissing(ctx, nf)
		h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
			ChatID:      userID,
			Text:        "⏳ This lesson is temporarily unavailable. Please try again a little later.",
			ReplyMarkup: resumeKeyboard(),
		})
		return
	}

	log.Printf("[TUTORIAL] delivery failed for user %d: %v", userID, err)
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      userID,
		Text:        "⚠️ Something went wrong, please try again.",
		ReplyMarkup: resumeKeyboard(),
	})
}
