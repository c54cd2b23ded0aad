package config

import "testing"

func TestApplyDefaultsBackfillsZeroValues(t *testing.T) {
	// A hand-edited config that only sets the API key.
	cfg := Config{}
	cfg.API.Key = "sk-test"
	cfg.applyDefaults()

	def := Default()
	if cfg.API.Key != "sk-test" {
		t.Errorf("explicit value overwritten: %q", cfg.API.Key)
	}
	if cfg.Scanning.DailyLimit != def.Scanning.DailyLimit {
		t.Errorf("DailyLimit = %d, want default %d", cfg.Scanning.DailyLimit, def.Scanning.DailyLimit)
	}
	if cfg.Scanning.MinTextLen != def.Scanning.MinTextLen {
		t.Errorf("MinTextLen = %d, want default %d", cfg.Scanning.MinTextLen, def.Scanning.MinTextLen)
	}
	if cfg.API.MaxPromptChars != def.API.MaxPromptChars {
		t.Errorf("MaxPromptChars = %d, want default %d", cfg.API.MaxPromptChars, def.API.MaxPromptChars)
	}
	if cfg.API.Model != def.API.Model {
		t.Errorf("Model = %q, want default %q", cfg.API.Model, def.API.Model)
	}
	if cfg.Scanning.ConfidenceThreshold != def.Scanning.ConfidenceThreshold {
		t.Errorf("ConfidenceThreshold = %v, want default %v", cfg.Scanning.ConfidenceThreshold, def.Scanning.ConfidenceThreshold)
	}
	if cfg.Store.Port != def.Store.Port {
		t.Errorf("Port = %d, want default %d", cfg.Store.Port, def.Store.Port)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Scanning.DailyLimit = 50
	cfg.Scanning.MinTextLen = 10
	cfg.Store.Port = 9000
	cfg.applyDefaults()

	if cfg.Scanning.DailyLimit != 50 || cfg.Scanning.MinTextLen != 10 || cfg.Store.Port != 9000 {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}
