package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/ad/go-telegram-onboarding/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

func (h *BotHandler) handleStart(ctx context.Context, msg *tgmodels.Message) {
	userID := msg.From.ID

	// "/start <ref_code>" records the inviter; first write wins, self-invites
	// are ignored.
	var inviterID int64
	payload := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/start"))
	if payload != "" {
		if inviter, err := h.userRepo.GetByRefCode(payload); err == nil && inviter.ID != userID {
			inviterID = inviter.ID
		}
	}

	user, err := h.userRepo.Ensure(userID, inviterID)
	if err != nil {
		h.sendRetryable(ctx, msg.Chat.ID)
		return
	}

	if user.State == fsm.StateCompleted {
		h.sendCompleted(ctx, user)
		return
	}

	if user.State != fsm.StateRegName || user.FullName != "" {
		h.resumePrompt(ctx, user)
		return
	}

	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text: "🤖 Welcome to the team onboarding bot!\n\n" +
			"You will register here and then work through the stages one by one.\n\n" +
			"Press the button to begin 👇",
		ReplyMarkup: startKeyboard(),
	})
}

func (h *BotHandler) handleBegin(ctx context.Context, user *models.User) {
	if user.State != fsm.StateRegName {
		h.resumePrompt(ctx, user)
		return
	}
	h.sendText(ctx, user.ID, "Let's get you registered ✅\n\nWrite your full name.")
}

func (h *BotHandler) handleFullName(ctx context.Context, user *models.User, text string) {
	if !services.ValidFullName(text) {
		h.sendText(ctx, user.ID, "Please write your full name (at least 3 characters).")
		return
	}

	user.FullName = strings.TrimSpace(text)
	editing := user.State == fsm.StateEditName
	if editing {
		user.State = fsm.StateRegConfirm
	} else {
		user.State = fsm.StateRegMemberID
	}
	if err := h.userRepo.Save(user); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	if editing {
		h.renderConfirm(ctx, user)
		return
	}
	h.sendText(ctx, user.ID, "Thanks ✅\n\nNow enter your member ID (7 digits).")
}

func (h *BotHandler) handleMemberID(ctx context.Context, user *models.User, text string) {
	result, err := h.governor.CheckFormat(user.ID, checkpointMemberID, text, services.ValidMemberID)
	if err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	if !result.OK {
		if result.Escalate {
			h.sendText(ctx, user.ID, "The member ID must be exactly 7 digits, nothing else.\nFor example: 0123456")
		} else {
			h.sendText(ctx, user.ID, fmt.Sprintf(
				"The member ID must be a 7-digit number (%d/%d).\nFor example: 0123456",
				result.Attempts, h.governor.Threshold()))
		}
		return
	}

	user.MemberID = strings.TrimSpace(text)
	editing := user.State == fsm.StateEditMemberID
	if editing {
		user.State = fsm.StateRegConfirm
	} else {
		user.State = fsm.StateRegJoinDate
	}
	if err := h.userRepo.Save(user); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	if editing {
		h.renderConfirm(ctx, user)
		return
	}
	h.sendText(ctx, user.ID, "Accepted ✅\n\nWhen did you join? (free text)")
}

func (h *BotHandler) handleJoinDate(ctx context.Context, user *models.User, text string) {
	if !services.ValidFreeText(text, 1) {
		h.sendText(ctx, user.ID, "Please write when you joined.")
		return
	}

	user.JoinDate = strings.TrimSpace(text)
	editing := user.State == fsm.StateEditJoinDate
	if editing {
		user.State = fsm.StateRegConfirm
	} else {
		user.State = fsm.StateRegPhone
	}
	if err := h.userRepo.Save(user); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	if editing {
		h.renderConfirm(ctx, user)
		return
	}
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      user.ID,
		Text:        "Got it ✅\n\nNow send your phone number 👇",
		ReplyMarkup: contactKeyboard(),
	})
}

func (h *BotHandler) handleContact(ctx context.Context, user *models.User, msg *tgmodels.Message) {
	if !fsm.Allows(user.State, fsm.EventContact) {
		h.sendNeutral(ctx, user)
		return
	}

	user.Phone = msg.Contact.PhoneNumber
	editing := user.State == fsm.StateEditPhone
	if editing {
		user.State = fsm.StateRegConfirm
	} else {
		user.State = fsm.StateRegLevel
	}
	if err := h.userRepo.Save(user); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	if editing {
		h.renderConfirm(ctx, user)
		return
	}
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      user.ID,
		Text:        "Thanks ✅\n\nChoose your level:",
		ReplyMarkup: levelKeyboard(),
	})
}

func validLevel(level string) bool {
	switch level {
	case "member", "manager", "bronze", "silver":
		return true
	}
	return false
}

func (h *BotHandler) handleLevelChoice(ctx context.Context, user *models.User, level string) {
	if user.State != fsm.StateRegLevel && user.State != fsm.StateEditLevel {
		h.sendNeutral(ctx, user)
		return
	}
	if !validLevel(level) {
		h.sendNeutral(ctx, user)
		return
	}

	user.Level = level
	user.State = fsm.StateRegConfirm
	if err := h.userRepo.Save(user); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	h.renderConfirm(ctx, user)
}

func (h *BotHandler) renderConfirm(ctx context.Context, user *models.User) {
	text := fmt.Sprintf(
		"Check your details:\n\n"+
			"👤 Name: %s\n"+
			"🆔 Member ID: %s\n"+
			"📅 Joined: %s\n"+
			"📞 Phone: %s\n"+
			"⭐ Level: %s\n\n"+
			"Is everything correct?",
		user.FullName, user.MemberID, user.JoinDate, user.Phone, user.Level)

	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      user.ID,
		Text:        text,
		ReplyMarkup: confirmKeyboard(),
	})
}

func (h *BotHandler) handleConfirmYes(ctx context.Context, user *models.User) {
	if user.State != fsm.StateRegConfirm {
		h.resumePrompt(ctx, user)
		return
	}

	user.State = fsm.StateMaterialsMenu
	if err := h.userRepo.Save(user); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}

	h.notifier.Notify(ctx, fmt.Sprintf(
		"✅ New registration\n👤 %s\n🆔 %s\n⭐ %s",
		user.DisplayName(), user.MemberID, user.Level))

	h.sendMaterialsMenu(ctx, user,
		"🎉 Registration complete!\n\nNow get to know the company — complete all four items:")
}

func (h *BotHandler) handleConfirmEdit(ctx context.Context, user *models.User) {
	if user.State != fsm.StateRegConfirm {
		h.resumePrompt(ctx, user)
		return
	}

	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID:      user.ID,
		Text:        "Which detail do you want to change?",
		ReplyMarkup: editFieldsKeyboard(),
	})
}

// handleEditField branches into a single-field edit; every edit state returns
// to the confirm screen with the other fields untouched.
func (h *BotHandler) handleEditField(ctx context.Context, user *models.User, field string) {
	if user.State != fsm.StateRegConfirm {
		h.resumePrompt(ctx, user)
		return
	}

	var next string
	switch field {
	case "name":
		next = fsm.StateEditName
	case "member_id":
		next = fsm.StateEditMemberID
	case "join_date":
		next = fsm.StateEditJoinDate
	case "phone":
		next = fsm.StateEditPhone
	case "level":
		next = fsm.StateEditLevel
	default:
		h.sendNeutral(ctx, user)
		return
	}

	if err := h.userRepo.SetState(user.ID, next); err != nil {
		h.sendRetryable(ctx, user.ID)
		return
	}
	user.State = next
	h.resumePrompt(ctx, user)
}
