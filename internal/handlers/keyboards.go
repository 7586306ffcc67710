package handlers

import (
	"fmt"

	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/ad/go-telegram-onboarding/internal/services"
	tgmodels "github.com/go-telegram/bot/models"
)

func startKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: "🚀 Start", CallbackData: "start:begin"}},
		},
	}
}

func contactKeyboard() *tgmodels.ReplyKeyboardMarkup {
	return &tgmodels.ReplyKeyboardMarkup{
		Keyboard: [][]tgmodels.KeyboardButton{
			{{Text: "📱 Share my phone number", RequestContact: true}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

func levelKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "Member", CallbackData: "reg:level:member"},
				{Text: "Manager", CallbackData: "reg:level:manager"},
			},
			{
				{Text: "Bronze", CallbackData: "reg:level:bronze"},
				{Text: "Silver", CallbackData: "reg:level:silver"},
			},
		},
	}
}

func confirmKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: "✅ Confirm", CallbackData: "reg:confirm:yes"}},
			{{Text: "✏️ Edit", CallbackData: "reg:confirm:edit"}},
		},
	}
}

func editFieldsKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "Full name", CallbackData: "reg:edit:name"},
				{Text: "Member ID", CallbackData: "reg:edit:member_id"},
			},
			{
				{Text: "Join date", CallbackData: "reg:edit:join_date"},
				{Text: "Phone", CallbackData: "reg:edit:phone"},
			},
			{
				{Text: "Level", CallbackData: "reg:edit:level"},
			},
		},
	}
}

func doneButton(label, data string) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: label, CallbackData: data}},
		},
	}
}

func materialsKeyboard(p *models.StageProgress) *tgmodels.InlineKeyboardMarkup {
	label := func(key models.MaterialKey) string {
		l := services.MaterialLabel(key)
		if p.Done(key) {
			return "✅ " + l
		}
		return l
	}

	gate := services.EvaluateGate(p)
	statusText := fmt.Sprintf("🎉 Status: %d/4 — ready!", p.DoneCount())
	continueBtn := tgmodels.InlineKeyboardButton{Text: "➡️ Continue", CallbackData: "m2:continue"}
	if !gate.AllDone {
		statusText = fmt.Sprintf("🔒 Status: %d/4", p.DoneCount())
		continueBtn = tgmodels.InlineKeyboardButton{Text: "🔒 Continue", CallbackData: "m2:locked"}
	}

	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: label(models.MaterialText), CallbackData: "m2:open:text"},
				{Text: label(models.MaterialAudio), CallbackData: "m2:open:audio"},
			},
			{
				{Text: label(models.MaterialVideo), CallbackData: "m2:open:video"},
				{Text: label(models.MaterialLinks), CallbackData: "m2:open:links"},
			},
			{{Text: statusText, CallbackData: "noop"}},
			{continueBtn},
		},
	}
}

func confirmTapKeyboard(confirmText string) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: confirmText, CallbackData: "tutorial:confirm"}},
		},
	}
}

func resumeKeyboard() *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: "▶️ Continue", CallbackData: "tutorial:resume"}},
		},
	}
}

// followUpKeyboard pins the item index into the callback data so a press of
// an outdated keyboard can be recognized and dropped.
func followUpKeyboard(idx int) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: "✅ No, all clear", CallbackData: fmt.Sprintf("followup:no:%d", idx)},
				{Text: "❓ Yes, I have a question", CallbackData: fmt.Sprintf("followup:yes:%d", idx)},
			},
		},
	}
}
