package config

import "testing"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OPERATOR_IDS", "111, 222")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.OperatorIDs) != 2 || cfg.OperatorIDs[0] != 111 || cfg.OperatorIDs[1] != 222 {
		t.Errorf("Operator IDs not parsed: %v", cfg.OperatorIDs)
	}
	if cfg.DBPath != "onboarding.db" {
		t.Errorf("Unexpected default DB path: %s", cfg.DBPath)
	}
	if cfg.ConfirmText != "I understood ✅" {
		t.Errorf("Unexpected default confirm text: %s", cfg.ConfirmText)
	}
	if !cfg.ConfirmGateEnabled || cfg.ConfirmGateCaseSensitive {
		t.Errorf("Unexpected confirm gate defaults: %+v", cfg)
	}
	if cfg.RetryThreshold != 3 || cfg.MinNoteLength != 5 {
		t.Errorf("Unexpected retry/note defaults: %+v", cfg)
	}
	if cfg.LeadTarget != 20 || cfg.MeetingNoteTarget != 5 || cfg.PresentationTarget != 10 {
		t.Errorf("Unexpected stage targets: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CONFIRM_TEXT", "Tushundim ✅")
	t.Setenv("CONFIRM_GATE_ENABLED", "false")
	t.Setenv("LEAD_TARGET", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ConfirmText != "Tushundim ✅" {
		t.Errorf("Confirm text override ignored: %s", cfg.ConfirmText)
	}
	if cfg.ConfirmGateEnabled {
		t.Error("Confirm gate override ignored")
	}
	if cfg.LeadTarget != 30 {
		t.Errorf("Lead target override ignored: %d", cfg.LeadTarget)
	}
}

func TestLoad_RequiredVars(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("OPERATOR_IDS", "111")
	if _, err := Load(); err == nil {
		t.Error("Expected error without BOT_TOKEN")
	}

	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OPERATOR_IDS", "")
	if _, err := Load(); err == nil {
		t.Error("Expected error without OPERATOR_IDS")
	}

	t.Setenv("OPERATOR_IDS", "111,notanumber")
	if _, err := Load(); err == nil {
		t.Error("Expected error for malformed operator ID")
	}
}
