package db

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/ad/go-telegram-onboarding/internal/models"
	"github.com/google/uuid"
)

func TestFollowUpAnswer_MatchedByID(t *testing.T) {
	_, queue := setupTestDB(t)
	userRepo := NewUserRepository(queue)
	repo := NewFollowUpRepository(queue)

	if _, err := userRepo.Ensure(100, 0); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	id := uuid.NewString()
	err := repo.Create(&models.FollowUpQuestion{
		ID:       id,
		UserID:   100,
		ItemIdx:  4,
		Question: "What if they say no twice?",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	pending, err := repo.CountPending()
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if pending != 1 {
		t.Fatalf("Expected 1 pending question, got %d", pending)
	}

	q, err := repo.Answer(id, "Offer a third meeting in a month.")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if q.UserID != 100 || q.ItemIdx != 4 {
		t.Errorf("Answer returned wrong question: %+v", q)
	}
	if q.Status != models.FollowUpAnswered {
		t.Errorf("Expected status %s, got %s", models.FollowUpAnswered, q.Status)
	}
	if q.AnsweredAt == nil {
		t.Error("Expected answered_at to be set")
	}

	pending, err = repo.CountPending()
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("Expected 0 pending questions after answering, got %d", pending)
	}
}

func TestFollowUpAnswer_OnlyOnce(t *testing.T) {
	_, queue := setupTestDB(t)
	userRepo := NewUserRepository(queue)
	repo := NewFollowUpRepository(queue)

	if _, err := userRepo.Ensure(100, 0); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	id := uuid.NewString()
	if err := repo.Create(&models.FollowUpQuestion{ID: id, UserID: 100, ItemIdx: 1, Question: "q"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := repo.Answer(id, "first"); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	_, err := repo.Answer(id, "second")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for a second answer, got %v", err)
	}

	q, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if q.Answer != "first" {
		t.Errorf("First answer was overwritten: %q", q.Answer)
	}
}

func TestFollowUpAnswer_UnknownID(t *testing.T) {
	_, queue := setupTestDB(t)
	repo := NewFollowUpRepository(queue)

	_, err := repo.Answer(uuid.NewString(), "answer")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for unknown ID, got %v", err)
	}
}
