package services

import (
	"testing"

	"github.com/ad/go-telegram-onboarding/internal/models"
	"pgregory.net/rapid"
)

func TestEvaluateGate_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := &models.StageProgress{
			TextDone:  rapid.Bool().Draw(t, "text"),
			AudioDone: rapid.Bool().Draw(t, "audio"),
			VideoDone: rapid.Bool().Draw(t, "video"),
			LinksDone: rapid.Bool().Draw(t, "links"),
		}

		result := EvaluateGate(p)

		allSet := p.TextDone && p.AudioDone && p.VideoDone && p.LinksDone
		if result.AllDone != allSet {
			t.Fatalf("AllDone=%v with flags %+v", result.AllDone, p)
		}
		if len(result.Missing) != 4-p.DoneCount() {
			t.Fatalf("Expected %d missing labels, got %d", 4-p.DoneCount(), len(result.Missing))
		}
		if result.AllDone && len(result.Missing) != 0 {
			t.Fatal("AllDone gate reported missing items")
		}
	})
}

func TestEvaluateGate_MissingOrderIsStable(t *testing.T) {
	// Only audio done: the remaining labels must come out in declaration
	// order, not in completion order.
	p := &models.StageProgress{AudioDone: true}
	result := EvaluateGate(p)

	want := []string{"📘 Company overview", "🎥 Intro video", "🔗 Useful links"}
	if len(result.Missing) != len(want) {
		t.Fatalf("Expected %d missing items, got %v", len(want), result.Missing)
	}
	for i := range want {
		if result.Missing[i] != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], result.Missing[i])
		}
	}
}

func TestMaterialLabel(t *testing.T) {
	if MaterialLabel(models.MaterialVideo) != "🎥 Intro video" {
		t.Errorf("Unexpected label: %q", MaterialLabel(models.MaterialVideo))
	}
	if len(MaterialKeys()) != 4 {
		t.Errorf("Expected 4 material keys, got %d", len(MaterialKeys()))
	}
}
