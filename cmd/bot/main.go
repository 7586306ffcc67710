package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ad/go-telegram-onboarding/internal/config"
	"github.com/ad/go-telegram-onboarding/internal/content"
	"github.com/ad/go-telegram-onboarding/internal/db"
	"github.com/ad/go-telegram-onboarding/internal/handlers"
	"github.com/ad/go-telegram-onboarding/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.InitSchema(sqlDB); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	dbQueue := db.NewDBQueue(sqlDB)
	defer dbQueue.Close()

	userRepo := db.NewUserRepository(dbQueue)
	progressRepo := db.NewProgressRepository(dbQueue)
	flowRepo := db.NewFlowRepository(dbQueue)
	noteRepo := db.NewNoteRepository(dbQueue)
	counterRepo := db.NewCounterRepository(dbQueue)
	retryRepo := db.NewRetryRepository(dbQueue)
	followUpRepo := db.NewFollowUpRepository(dbQueue)
	collectionRepo := db.NewCollectionRepository(dbQueue)

	resolver, err := content.Load(cfg.ManifestPath)
	if err != nil {
		log.Fatalf("Failed to load content manifest: %v", err)
	}
	if resolver.Count("tutorial") == 0 {
		log.Fatalf("Content manifest %s declares no tutorial items", cfg.ManifestPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	b, err := bot.New(cfg.BotToken, bot.WithHTTPClient(15*time.Second, httpClient))
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Retry getMe with shorter timeout
	for i := 0; i < 3; i++ {
		log.Printf("Attempting to connect to Telegram API (attempt %d/3)...", i+1)
		getMeCtx, getMeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err = b.GetMe(getMeCtx)
		getMeCancel()
		if err == nil {
			log.Printf("Successfully connected to Telegram API")
			break
		}
		log.Printf("Failed to get bot info (attempt %d/3): %v", i+1, err)
		if i < 2 {
			log.Printf("Retrying in 2 seconds...")
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatalf("Failed to get bot info after 3 attempts: %v", err)
	}

	notifier := services.NewOperatorNotifier(b, cfg.OperatorIDs)
	msgManager := services.NewMessageManager(b, notifier)
	governor := services.NewRetryGovernor(retryRepo, cfg.RetryThreshold)
	cursor := services.NewLessonCursor(flowRepo, noteRepo, resolver, msgManager, "tutorial", cfg.MinNoteLength)
	collection := services.NewCollectionService(counterRepo, collectionRepo, resolver, msgManager)
	stats := services.NewFunnelStatistics(userRepo, followUpRepo)

	handler := handlers.NewBotHandler(
		b,
		cfg,
		msgManager,
		notifier,
		userRepo,
		progressRepo,
		counterRepo,
		followUpRepo,
		cursor,
		collection,
		governor,
		stats,
	)

	b.RegisterHandlerMatchFunc(func(update *tgmodels.Update) bool {
		return true
	}, handler.HandleUpdate, logMiddleware)

	log.Printf("Bot started. Operators: %d, DB: %s, tutorial lessons: %d",
		len(cfg.OperatorIDs), cfg.DBPath, cursor.Total())

	b.Start(ctx)
}

func formatUser(u tgmodels.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if u.Username != "" {
		name += " @" + u.Username
	}
	return fmt.Sprintf("%s [%d]", name, u.ID)
}

func logMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
		if update.Message != nil {
			log.Printf("[MSG] from=%s text=%q", formatUser(*update.Message.From), update.Message.Text)
		}
		if update.CallbackQuery != nil {
			log.Printf("[CALLBACK] from=%s data=%q", formatUser(update.CallbackQuery.From), update.CallbackQuery.Data)
		}
		next(ctx, b, update)
	}
}
