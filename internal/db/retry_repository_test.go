package db

import (
	"testing"
)

func TestRetryIncrementAndReset(t *testing.T) {
	_, queue := setupTestDB(t)
	repo := NewRetryRepository(queue)

	userID := int64(100)
	checkpoint := "tutorial_confirm"

	attempts, err := repo.Get(userID, checkpoint)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if attempts != 0 {
		t.Fatalf("Expected 0 attempts for a fresh checkpoint, got %d", attempts)
	}

	for want := 1; want <= 3; want++ {
		got, err := repo.Increment(userID, checkpoint)
		if err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		if got != want {
			t.Errorf("Expected %d attempts, got %d", want, got)
		}
	}

	if err := repo.Reset(userID, checkpoint); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	attempts, err = repo.Get(userID, checkpoint)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if attempts != 0 {
		t.Errorf("Expected 0 attempts after reset, got %d", attempts)
	}
}

func TestRetryCheckpointsAreIndependent(t *testing.T) {
	_, queue := setupTestDB(t)
	repo := NewRetryRepository(queue)

	if _, err := repo.Increment(100, "member_id"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if _, err := repo.Increment(100, "member_id"); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	other, err := repo.Get(100, "tutorial_confirm")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if other != 0 {
		t.Errorf("Checkpoint leaked: expected 0, got %d", other)
	}

	otherUser, err := repo.Get(200, "member_id")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if otherUser != 0 {
		t.Errorf("User leaked: expected 0, got %d", otherUser)
	}
}
