package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	BotToken     string
	OperatorIDs  []int64
	DBPath       string
	ManifestPath string
	NextStepLink string

	// Exact-text confirmation gate before the tutorial. The gate and its
	// case sensitivity are policy, not hard-coded behavior.
	ConfirmText              string
	ConfirmGateEnabled       bool
	ConfirmGateCaseSensitive bool

	RetryThreshold int
	MinNoteLength  int

	LeadTarget         int
	MeetingNoteTarget  int
	PresentationTarget int
}

// Load reads configuration from the environment. The .env file itself is
// loaded by godotenv autoload in main.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:                 os.Getenv("BOT_TOKEN"),
		DBPath:                   envString("DB_PATH", "onboarding.db"),
		ManifestPath:             envString("CONTENT_MANIFEST", "content/manifest.yml"),
		NextStepLink:             os.Getenv("NEXT_STEP_LINK"),
		ConfirmText:              envString("CONFIRM_TEXT", "I understood ✅"),
		ConfirmGateEnabled:       envBool("CONFIRM_GATE_ENABLED", true),
		ConfirmGateCaseSensitive: envBool("CONFIRM_GATE_CASE_SENSITIVE", false),
		RetryThreshold:           envInt("RETRY_THRESHOLD", 3),
		MinNoteLength:            envInt("MIN_NOTE_LENGTH", 5),
		LeadTarget:               envInt("LEAD_TARGET", 20),
		MeetingNoteTarget:        envInt("MEETING_NOTE_TARGET", 5),
		PresentationTarget:       envInt("PRESENTATION_TARGET", 10),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable is required")
	}

	ids, err := parseOperatorIDs(os.Getenv("OPERATOR_IDS"))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("OPERATOR_IDS environment variable is required")
	}
	cfg.OperatorIDs = ids

	return cfg, nil
}

func parseOperatorIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid operator id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
