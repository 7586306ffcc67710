package handlers

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/ad/go-telegram-onboarding/internal/config"
	"github.com/ad/go-telegram-onboarding/internal/content"
	"github.com/ad/go-telegram-onboarding/internal/db"
	"github.com/ad/go-telegram-onboarding/internal/fsm"
	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/ad/go-telegram-onboarding/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const (
	checkpointMemberID        = "member_id"
	checkpointTutorialConfirm = "tutorial_confirm"
)

// messenger is the slice of the message manager the handlers use.
type messenger interface {
	SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
}

// operatorChannel is the slice of the operator notifier the handlers use.
type operatorChannel interface {
	Notify(ctx context.Context, text string)
	NotifyContentMissing(ctx context.Context, nf *content.NotFoundError)
	NotifyPanic(ctx context.Context, panicValue interface{}, update *tgmodels.Update)
}

// BotHandler is the workflow router: it maps the user's current state plus an
// incoming event (text, contact, button press) to a handler. Every transition
// is a single read-modify-write of the user record; illegal events get a
// neutral re-prompt and change nothing.
type BotHandler struct {
	bot          *bot.Bot
	cfg          *config.Config
	msgManager   messenger
	notifier     operatorChannel
	userRepo     *db.UserRepository
	progressRepo *db.ProgressRepository
	counterRepo  *db.CounterRepository
	followUpRepo *db.FollowUpRepository
	cursor       *services.LessonCursor
	collection   *services.CollectionService
	governor     *services.RetryGovernor
	adminHandler *AdminHandler
}

func NewBotHandler(
	b *bot.Bot,
	cfg *config.Config,
	msgManager *services.MessageManager,
	notifier *services.OperatorNotifier,
	userRepo *db.UserRepository,
	progressRepo *db.ProgressRepository,
	counterRepo *db.CounterRepository,
	followUpRepo *db.FollowUpRepository,
	cursor *services.LessonCursor,
	collection *services.CollectionService,
	governor *services.RetryGovernor,
	stats *services.FunnelStatistics,
) *BotHandler {
	adminHandler := NewAdminHandler(cfg.OperatorIDs, msgManager, userRepo, followUpRepo, cursor, stats)

	return &BotHandler{
		bot:          b,
		cfg:          cfg,
		msgManager:   msgManager,
		notifier:     notifier,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		counterRepo:  counterRepo,
		followUpRepo: followUpRepo,
		cursor:       cursor,
		collection:   collection,
		governor:     governor,
		adminHandler: adminHandler,
	}
}

func (h *BotHandler) HandleUpdate(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(ctx, update)

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) recoverPanic(ctx context.Context, update *tgmodels.Update) {
	if r := recover(); r != nil {
		h.notifier.NotifyPanic(ctx, r, update)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID

	if strings.HasPrefix(msg.Text, "/start") {
		h.handleStart(ctx, msg)
		return
	}

	if h.adminHandler.IsOperator(userID) && h.adminHandler.HandleCommand(ctx, msg) {
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "Press /start to begin 👇",
		})
		return
	}

	if msg.Contact != nil {
		h.handleContact(ctx, user, msg)
		return
	}

	if msg.Text == "" {
		return
	}

	h.handleText(ctx, user, msg.Text)
}

func (h *BotHandler) handleText(ctx context.Context, user *models.User, text string) {
	// Slash commands from regular users must never be captured as funnel
	// input (a lesson note, a lead); they get the neutral re-prompt.
	if strings.HasPrefix(text, "/") {
		h.sendNeutral(ctx, user)
		return
	}

	if !fsm.Allows(user.State, fsm.EventText) {
		h.sendNeutral(ctx, user)
		return
	}

	switch user.State {
	case fsm.StateRegName, fsm.StateEditName:
		h.handleFullName(ctx, user, text)
	case fsm.StateRegMemberID, fsm.StateEditMemberID:
		h.handleMemberID(ctx, user, text)
	case fsm.StateRegJoinDate, fsm.StateEditJoinDate:
		h.handleJoinDate(ctx, user, text)
	case fsm.StateTutorialConfirm:
		h.handleConfirmText(ctx, user, text)
	case fsm.StateTutorial:
		h.handleLessonNote(ctx, user, text)
	case fsm.StateLeads, fsm.StateMeetingNotes, fsm.StatePresentations:
		h.handleCollectionText(ctx, user, text)
	case fsm.StateFollowUpQuestion:
		h.handleFollowUpQuestion(ctx, user, text)
	}
}

func (h *BotHandler) handleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	userID := callback.From.ID
	data := callback.Data

	defer h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	if data == "noop" {
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("[ROUTER] callback from unknown user %d: %q", userID, data)
		return
	}

	if !fsm.Allows(user.State, fsm.EventChoice) {
		h.sendNeutral(ctx, user)
		return
	}

	switch {
	case data == "start:begin":
		h.handleBegin(ctx, user)
	case strings.HasPrefix(data, "reg:level:"):
		h.handleLevelChoice(ctx, user, strings.TrimPrefix(data, "reg:level:"))
	case data == "reg:confirm:yes":
		h.handleConfirmYes(ctx, user)
	case data == "reg:confirm:edit":
		h.handleConfirmEdit(ctx, user)
	case strings.HasPrefix(data, "reg:edit:"):
		h.handleEditField(ctx, user, strings.TrimPrefix(data, "reg:edit:"))
	case strings.HasPrefix(data, "m2:open:"):
		h.handleMaterialOpen(ctx, user, models.MaterialKey(strings.TrimPrefix(data, "m2:open:")))
	case strings.HasPrefix(data, "m2:done:"):
		h.handleMaterialDone(ctx, user, models.MaterialKey(strings.TrimPrefix(data, "m2:done:")))
	case data == "m2:continue", data == "m2:locked":
		h.handleMaterialsContinue(ctx, user)
	case data == "tutorial:confirm":
		h.handleConfirmTap(ctx, user)
	case data == "tutorial:resume":
		h.handleTutorialResume(ctx, user)
	case strings.HasPrefix(data, "followup:no:"):
		if idx, err := strconv.Atoi(strings.TrimPrefix(data, "followup:no:")); err == nil {
			h.handleFollowUpNo(ctx, user, idx)
		}
	case strings.HasPrefix(data, "followup:yes:"):
		if idx, err := strconv.Atoi(strings.TrimPrefix(data, "followup:yes:")); err == nil {
			h.handleFollowUpYes(ctx, user, idx)
		}
	default:
		log.Printf("[ROUTER] unknown callback data %q from user %d", data, userID)
	}
}

// sendNeutral answers an event that is not legal for the user's current
// state: no transition, just a re-prompt of where the user actually is.
func (h *BotHandler) sendNeutral(ctx context.Context, user *models.User) {
	h.resumePrompt(ctx, user)
}

// sendRetryable reports a storage failure. The transition was not applied,
// so repeating the same action is safe.
func (h *BotHandler) sendRetryable(ctx context.Context, userID int64) {
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   "⚠️ Something went wrong, please try again.",
	})
}

// resumePrompt re-sends the prompt for the user's current state. Used after
// /start mid-funnel, after restarts, and for illegal events.
func (h *BotHandler) resumePrompt(ctx context.Context, user *models.User) {
	switch user.State {
	case fsm.StateRegName:
		h.sendText(ctx, user.ID, "Let's get you registered ✅\n\nWrite your full name.")
	case fsm.StateEditName:
		h.sendText(ctx, user.ID, "Write your full name again:")
	case fsm.StateRegMemberID, fsm.StateEditMemberID:
		h.sendText(ctx, user.ID, "Enter your member ID (7 digits).")
	case fsm.StateRegJoinDate, fsm.StateEditJoinDate:
		h.sendText(ctx, user.ID, "When did you join? (free text)")
	case fsm.StateRegPhone, fsm.StateEditPhone:
		h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
			ChatID:      user.ID,
			Text:        "Send your phone number 👇",
			ReplyMarkup: contactKeyboard(),
		})
	case fsm.StateRegLevel, fsm.StateEditLevel:
		h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
			ChatID:      user.ID,
			Text:        "Choose your level:",
			ReplyMarkup: levelKeyboard(),
		})
	case fsm.StateRegConfirm:
		h.renderConfirm(ctx, user)
	case fsm.StateMaterialsMenu:
		h.sendMaterialsMenu(ctx, user, "Get to know the company — complete all four items:")
	case fsm.StateTutorialConfirm:
		h.sendText(ctx, user.ID, "After the audio, type exactly:\n"+h.cfg.ConfirmText)
	case fsm.StateTutorial:
		// A completed flow still parked in the tutorial state means the
		// advance into the next stage failed mid-transition; retry it
		// instead of going silent.
		done, err := h.cursor.IsCompleted(user.ID)
		if err != nil {
			h.sendRetryable(ctx, user.ID)
			return
		}
		if done {
			h.enterCollection(ctx, user, fsm.StateLeads)
			return
		}
		if err := h.cursor.DeliverNext(ctx, user.ID); err != nil {
			h.handleDeliveryError(ctx, user.ID, err)
		}
	case fsm.StateLeads, fsm.StateMeetingNotes, fsm.StatePresentations:
		if def, _, ok := h.stageDef(user.State); ok {
			if err := h.collection.Prompt(ctx, user.ID, def); err != nil {
				h.sendRetryable(ctx, user.ID)
			}
		}
	case fsm.StateFollowUps:
		h.askFollowUp(ctx, user)
	case fsm.StateFollowUpQuestion:
		h.sendText(ctx, user.ID, "Send your question as one message 👇")
	case fsm.StateCompleted:
		h.sendCompleted(ctx, user)
	default:
		h.sendText(ctx, user.ID, "Press /start to begin 👇")
	}
}

func (h *BotHandler) sendText(ctx context.Context, userID int64, text string) {
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: userID,
		Text:   text,
	})
}
