package services

import (
	"github.com/ad/go-telegram-onboarding/internal/models"
)

// materialOrder fixes the declaration order of the gated materials so the
// remaining-items message is stable regardless of completion order.
var materialOrder = []struct {
	Key   models.MaterialKey
	Label string
}{
	{models.MaterialText, "📘 Company overview"},
	{models.MaterialAudio, "🎧 Audio introduction"},
	{models.MaterialVideo, "🎥 Intro video"},
	{models.MaterialLinks, "🔗 Useful links"},
}

type GateResult struct {
	AllDone bool
	Missing []string
}

// EvaluateGate is pure: it computes whether every sub-flag is set and which
// labels remain, in declaration order. No I/O.
func EvaluateGate(p *models.StageProgress) GateResult {
	result := GateResult{AllDone: true}
	for _, m := range materialOrder {
		if !p.Done(m.Key) {
			result.AllDone = false
			result.Missing = append(result.Missing, m.Label)
		}
	}
	return result
}

// MaterialLabel returns the fixed display label for a material key.
func MaterialLabel(key models.MaterialKey) string {
	for _, m := range materialOrder {
		if m.Key == key {
			return m.Label
		}
	}
	return string(key)
}

// MaterialKeys returns the material keys in declaration order.
func MaterialKeys() []models.MaterialKey {
	keys := make([]models.MaterialKey, len(materialOrder))
	for i, m := range materialOrder {
		keys[i] = m.Key
	}
	return keys
}
