package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ad/go-telegram-onboarding/internal/db"
	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// AdminHandler serves operator commands. Operators go through the same funnel
// as everyone else; only messages starting with a known command are diverted
// here.
type AdminHandler struct {
	operatorIDs  map[int64]bool
	msgManager   messenger
	userRepo     *db.UserRepository
	followUpRepo *db.FollowUpRepository
	cursor       *services.LessonCursor
	stats        *services.FunnelStatistics
}

func NewAdminHandler(
	operatorIDs []int64,
	msgManager messenger,
	userRepo *db.UserRepository,
	followUpRepo *db.FollowUpRepository,
	cursor *services.LessonCursor,
	stats *services.FunnelStatistics,
) *AdminHandler {
	ids := make(map[int64]bool, len(operatorIDs))
	for _, id := range operatorIDs {
		ids[id] = true
	}
	return &AdminHandler{
		operatorIDs:  ids,
		msgManager:   msgManager,
		userRepo:     userRepo,
		followUpRepo: followUpRepo,
		cursor:       cursor,
		stats:        stats,
	}
}

func (a *AdminHandler) IsOperator(userID int64) bool {
	return a.operatorIDs[userID]
}

// HandleCommand reports whether the message was consumed as an operator
// command. Unknown text falls through to the normal funnel handlers.
func (a *AdminHandler) HandleCommand(ctx context.Context, msg *tgmodels.Message) bool {
	switch {
	case strings.HasPrefix(msg.Text, "/answer"):
		a.handleAnswer(ctx, msg)
	case strings.HasPrefix(msg.Text, "/reset"):
		a.handleReset(ctx, msg)
	case msg.Text == "/stats":
		a.handleStats(ctx, msg)
	default:
		return false
	}
	return true
}

// handleAnswer delivers the operator's reply to the asker, matched by the
// question ID so it lands correctly even if the user has moved on.
func (a *AdminHandler) handleAnswer(ctx context.Context, msg *tgmodels.Message) {
	parts := strings.SplitN(msg.Text, " ", 3)
	if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
		a.reply(ctx, msg.Chat.ID, "Usage: /answer <question_id> <text>")
		return
	}
	id, answer := parts[1], strings.TrimSpace(parts[2])

	q, err := a.followUpRepo.Answer(id, answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			a.reply(ctx, msg.Chat.ID, "Question not found or already answered.")
			return
		}
		log.Printf("[ADMIN] answering question %s failed: %v", id, err)
		a.reply(ctx, msg.Chat.ID, "Could not save the answer, try again.")
		return
	}

	a.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: q.UserID,
		Text: fmt.Sprintf("💬 Answer to your question about presentation %d:\n\n❓ %s\n\n✅ %s",
			q.ItemIdx, q.Question, q.Answer),
	})
	a.reply(ctx, msg.Chat.ID, "Answer delivered ✅")
}

// handleReset puts a user back at lesson 1 of the tutorial, discarding their
// notes. Registration and materials progress are kept.
func (a *AdminHandler) handleReset(ctx context.Context, msg *tgmodels.Message) {
	arg := strings.TrimSpace(strings.TrimPrefix(msg.Text, "/reset"))
	userID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		a.reply(ctx, msg.Chat.ID, "Usage: /reset <user_id>")
		return
	}

	if _, err := a.userRepo.GetByID(userID); err != nil {
		a.reply(ctx, msg.Chat.ID, fmt.Sprintf("User %d not found.", userID))
		return
	}

	if err := a.cursor.Reset(userID); err != nil {
		log.Printf("[ADMIN] resetting tutorial for user %d failed: %v", userID, err)
		a.reply(ctx, msg.Chat.ID, "Reset failed, try again.")
		return
	}
	if err := a.userRepo.SetState(userID, fsm.StateTutorial); err != nil {
		log.Printf("[ADMIN] resetting state for user %d failed: %v", userID, err)
		a.reply(ctx, msg.Chat.ID, "Reset failed, try again.")
		return
	}

	a.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   "🔄 Your tutorial was restarted from lesson 1.\nPress the button to begin 👇",
		ReplyMarkup: &tgmodels.InlineKeyboardMarkup{
			InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
				{{Text: "▶️ Start lesson 1", CallbackData: "tutorial:resume"}},
			},
		},
	})
	a.reply(ctx, msg.Chat.ID, fmt.Sprintf("User %d reset to lesson 1 ✅", userID))
}

func (a *AdminHandler) handleStats(ctx context.Context, msg *tgmodels.Message) {
	summary, err := a.stats.Summary()
	if err != nil {
		log.Printf("[ADMIN] stats failed: %v", err)
		a.reply(ctx, msg.Chat.ID, "Could not gather statistics, try again.")
		return
	}
	a.reply(ctx, msg.Chat.ID, summary)
}

func (a *AdminHandler) reply(ctx context.Context, chatID int64, text string) {
	a.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}
