package handlers

import (
	"context"
	"strings"

	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/ad/go-telegram-onboarding/internal/services"
	"github.com/go-telegram/bot"
)

var materialBodies = map[models.MaterialKey]struct {
	Body      string
	DoneLabel string
}{
	models.MaterialText: {
		Body:      "📘 About the company\n\nRead the overview carefully — it explains who we are, what we sell and how the compensation plan works.",
		DoneLabel: "✅ I read it",
	},
	models.MaterialAudio: {
		Body:      "🎧 Audio introduction\n\nListen to the short audio walkthrough of the company and the first steps.",
		DoneLabel: "✅ I listened",
	},
	models.MaterialVideo: {
		Body:      "🎥 Intro video\n\nWatch the introduction video before moving on.",
		DoneLabel: "✅ I watched",
	},
	models.MaterialLinks: {
		Body:      "🔗 Useful links:\n— Official site\n— Telegram channel\n— Instagram",
		DoneLabel: "✅ I checked them",
	},
}

func (h *BotHandler) sendMaterialsMenu(ctx context.Context, user *models.User, intro string) {
	progress, err := h.progressRepo.Get(user.ID)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      user.ID,
		Text:        intro,
		ReplyMarkup: materialsKeyboard(progress),
	})
}

func (h *BotHandler) handleMaterialOpen(ctx context.Context, user *models.User, key models.MaterialKey) {
	if user.State != fsm.StateMaterialsMenu || !models.ValidMaterialKey(key) {
		h.sendNeutral(ctx, user)
		return
	}

	m := materialBodies[key]
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      user.ID,
		Text:        m.Body,
		ReplyMarkup: doneButton(m.DoneLabel, "m2:done:"+string(key)),
	})
}

func (h *BotHandler) handleMaterialDone(ctx context.Context, user *models.User, key models.MaterialKey) {
	if user.State != fsm.StateMaterialsMenu || !models.ValidMaterialKey(key) {
		h.sendNeutral(ctx, user)
		return
	}

	// Marking the same item twice is a no-op; flags only go false -> true.
	if err := h.progressRepo.MarkDone(user.ID, key); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	progress, err := h.progressRepo.Get(user.ID)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	gate := services.EvaluateGate(progress)
	text := "🎉 Everything is done! Press ➡️ Continue."
	if !gate.AllDone {
		text = "Saved ✅\n\n⏳ Still left:\n" + strings.Join(gate.Missing, "\n")
	}

	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      user.ID,
		Text:        text,
		ReplyMarkup: materialsKeyboard(progress),
	})
}

func (h *BotHandler) handleMaterialsContinue(ctx context.Context, user *models.User) {
	if user.State != fsm.StateMaterialsMenu {
		h.resumePrompt(ctx, user)
		return
	}

	progress, err := h.progressRepo.Get(user.ID)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	// Checked server-side even though the keyboard locks the button: a stale
	// keyboard must not open the gate early.
	gate := services.EvaluateGate(progress)
	if !gate.AllDone {
		h.sendText(ctx, user.ID, "⛔ Finish these first:\n"+strings.Join(gate.Missing, "\n"))
		return
	}

	if !h.cfg.ConfirmGateEnabled {
		h.enterTutorial(ctx, user)
		return
	}

	if err := h.governor.Reset(user.ID, checkpointTutorialConfirm); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	if err := h.userRepo.SetState(user.ID, fsm.StateTutorialConfirm); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	user.State = fsm.StateTutorialConfirm

	h.sendText(ctx, user.ID,
		"🎧 Here is the full tutorial to get you started.\n\n"+
			"Once you are done, type exactly:\n"+h.cfg.ConfirmText)
}
