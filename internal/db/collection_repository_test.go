package db

import (
	"testing"

	"github.com/ad/go-telegram-onboarding/internal/models"
)

func TestCollectionUpsert_NoDoubleCounting(t *testing.T) {
	_, queue := setupTestDB(t)
	userRepo := NewUserRepository(queue)
	repo := NewCollectionRepository(queue)

	if _, err := userRepo.Ensure(100, 0); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	entry := &models.CollectionEntry{
		UserID: 100,
		Stage:  models.CollectionLeads,
		Idx:    1,
		Text:   "Dilshod, +998901112233",
	}
	if err := repo.Upsert(entry); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// A duplicate delivery of the same index overwrites instead of adding.
	entry.Text = "Dilshod A., +998901112233"
	if err := repo.Upsert(entry); err != nil {
		t.Fatalf("Second Upsert failed: %v", err)
	}

	count, err := repo.CountByStage(100, models.CollectionLeads)
	if err != nil {
		t.Fatalf("CountByStage failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry, got %d", count)
	}

	entries, err := repo.ListByStage(100, models.CollectionLeads)
	if err != nil {
		t.Fatalf("ListByStage failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "Dilshod A., +998901112233" {
		t.Errorf("Expected the overwritten entry, got %+v", entries)
	}
}

func TestCollectionStagesAreSeparate(t *testing.T) {
	_, queue := setupTestDB(t)
	userRepo := NewUserRepository(queue)
	repo := NewCollectionRepository(queue)

	if _, err := userRepo.Ensure(100, 0); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	for idx := 1; idx <= 3; idx++ {
		if err := repo.Upsert(&models.CollectionEntry{
			UserID: 100, Stage: models.CollectionLeads, Idx: idx, Text: "lead",
		}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	if err := repo.Upsert(&models.CollectionEntry{
		UserID: 100, Stage: models.CollectionMeetingNotes, Idx: 1, Text: "meeting",
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	leads, err := repo.CountByStage(100, models.CollectionLeads)
	if err != nil {
		t.Fatalf("CountByStage failed: %v", err)
	}
	meetings, err := repo.CountByStage(100, models.CollectionMeetingNotes)
	if err != nil {
		t.Fatalf("CountByStage failed: %v", err)
	}
	if leads != 3 || meetings != 1 {
		t.Errorf("Expected 3 leads and 1 meeting note, got %d and %d", leads, meetings)
	}

	entries, err := repo.ListByStage(100, models.CollectionLeads)
	if err != nil {
		t.Fatalf("ListByStage failed: %v", err)
	}
	for i, e := range entries {
		if e.Idx != i+1 {
			t.Errorf("Expected entries ordered by index, got %d at position %d", e.Idx, i)
		}
	}
}
