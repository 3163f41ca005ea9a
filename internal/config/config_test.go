package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultMode != "learn" || cfg.DefaultOrder != "series" {
		t.Fatalf("defaults = %q/%q", cfg.DefaultMode, cfg.DefaultOrder)
	}
	if cfg.OpponentReplyDelayMS != 600 || cfg.HintExpirySec != 4 {
		t.Fatalf("delays = %d/%d", cfg.OpponentReplyDelayMS, cfg.HintExpirySec)
	}
}

func TestLoadOverridesAndValidation(t *testing.T) {
	t.Setenv("TRAINER_DEFAULT_MODE", "drill")
	t.Setenv("TRAINER_DEFAULT_ORDER", "random")
	t.Setenv("TRAINER_REPLY_DELAY_MS", "0")
	t.Setenv("TRAINER_USER_ID", "u42")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultMode != "drill" || cfg.DefaultOrder != "random" || cfg.OpponentReplyDelayMS != 0 || cfg.UserID != "u42" {
		t.Fatalf("cfg = %+v", cfg)
	}

	t.Setenv("TRAINER_DEFAULT_MODE", "cram")
	if _, err := Load(); err == nil {
		t.Fatal("invalid mode should be rejected")
	}
}
