package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/ad/go-telegram-onboarding/internal/services"
	"github.com/go-telegram/bot"
	"github.com/google/uuid"
)

// enterFollowUps walks back over the finished presentations one by one and
// asks whether anything stayed unclear. Questions go to the operators; the
// walk itself never blocks on an answer.
func (h *BotHandler) enterFollowUps(ctx context.Context, user *models.User) {
	if err := h.userRepo.SetState(user.ID, fsm.StateFollowUps); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	user.State = fsm.StateFollowUps

	if err := h.counterRepo.Reset(user.ID, models.CounterFollowUp); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	h.sendText(ctx, user.ID,
		"🔁 Last step: a quick review.\n\nWe will go over your presentations — tell me if any of them left open questions.")
	h.askFollowUp(ctx, user)
}

func (h *BotHandler) askFollowUp(ctx context.Context, user *models.User) {
	idx, err := h.counterRepo.Get(user.ID, models.CounterFollowUp)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	if idx > h.cfg.PresentationTarget {
		h.completeFunnel(ctx, user)
		return
	}

	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: user.ID,
		Text: fmt.Sprintf("Presentation %d/%d — did it leave any open questions?",
			idx, h.cfg.PresentationTarget),
		ReplyMarkup: followUpKeyboard(idx),
	})
}

// followUpIsCurrent drops presses of an outdated keyboard: the button carries
// the item index it was rendered for, and only a press matching the live
// counter may act. A duplicate press can therefore never skip an item.
func (h *BotHandler) followUpIsCurrent(ctx context.Context, user *models.User, idx int) bool {
	current, err := h.counterRepo.Get(user.ID, models.CounterFollowUp)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return false
	}
	if idx != current {
		log.Printf("[FOLLOWUP] dropping stale answer for item %d from user %d (current %d)", idx, user.ID, current)
		return false
	}
	return true
}

func (h *BotHandler) handleFollowUpNo(ctx context.Context, user *models.User, idx int) {
	if user.State != fsm.StateFollowUps {
		h.resumePrompt(ctx, user)
		return
	}
	if !h.followUpIsCurrent(ctx, user, idx) {
		return
	}
	h.advanceFollowUp(ctx, user)
}

func (h *BotHandler) handleFollowUpYes(ctx context.Context, user *models.User, idx int) {
	if user.State != fsm.StateFollowUps {
		h.resumePrompt(ctx, user)
		return
	}
	if !h.followUpIsCurrent(ctx, user, idx) {
		return
	}

	if err := h.userRepo.SetState(user.ID, fsm.StateFollowUpQuestion); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	user.State = fsm.StateFollowUpQuestion
	h.sendText(ctx, user.ID, "Send your question as one message 👇")
}

func (h *BotHandler) handleFollowUpQuestion(ctx context.Context, user *models.User, text string) {
	if !services.ValidFreeText(text, h.cfg.MinNoteLength) {
		h.sendText(ctx, user.ID, fmt.Sprintf(
			"✍️ Please describe the question in a bit more detail (at least %d characters).",
			h.cfg.MinNoteLength))
		return
	}

	idx, err := h.counterRepo.Get(user.ID, models.CounterFollowUp)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	q := &models.FollowUpQuestion{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		ItemIdx:  idx,
		Question: text,
	}
	if err := h.followUpRepo.Create(q); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	h.notifier.Notify(ctx, fmt.Sprintf(
		"❓ Question from %s (presentation %d)\n\n%s\n\nReply with:\n/answer %s <text>",
		user.DisplayName(), idx, text, q.ID))

	if err := h.userRepo.SetState(user.ID, fsm.StateFollowUps); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	user.State = fsm.StateFollowUps

	h.sendText(ctx, user.ID, "📨 Sent to the team — you will get an answer here.")
	h.advanceFollowUp(ctx, user)
}

func (h *BotHandler) advanceFollowUp(ctx context.Context, user *models.User) {
	idx, err := h.counterRepo.Get(user.ID, models.CounterFollowUp)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	if err := h.counterRepo.Set(user.ID, models.CounterFollowUp, idx+1); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	h.askFollowUp(ctx, user)
}

func (h *BotHandler) completeFunnel(ctx context.Context, user *models.User) {
	if err := h.userRepo.SetState(user.ID, fsm.StateCompleted); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	user.State = fsm.StateCompleted

	h.notifier.Notify(ctx, fmt.Sprintf("🏁 %s completed the whole onboarding", user.DisplayName()))
	h.sendCompleted(ctx, user)
}

func (h *BotHandler) sendCompleted(ctx context.Context, user *models.User) {
	text := "🏆 Congratulations, " + user.DisplayName() + "!\n\n" +
		"You have finished the onboarding: registration, materials, the full tutorial and all field stages.\n\n" +
		"Invite new teammates with your referral code — they should send the bot:\n" +
		"/start " + user.RefCode
	if h.cfg.NextStepLink != "" {
		text += "\n\nNext step for you: " + h.cfg.NextStepLink
	}
	h.sendText(ctx, user.ID, text)
}
