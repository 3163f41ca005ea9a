// Package config loads the trainer's runtime settings from the
// environment. Nothing is strictly required: without REDIS_URL or
// DATABASE_URL the trainer falls back to in-memory persistence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	RedisURL    string
	DatabaseURL string

	UserID     string
	OpeningDir string

	DefaultOpening string
	DefaultMode    string
	DefaultOrder   string

	OpponentReplyDelayMS int
	HintExpirySec        int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		UserID:               "local",
		DefaultOpening:       "italian-game",
		DefaultMode:          "learn",
		DefaultOrder:         "series",
		OpponentReplyDelayMS: 600,
		HintExpirySec:        4,
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.OpeningDir = strings.TrimSpace(os.Getenv("TRAINER_OPENING_DIR"))

	if v := strings.TrimSpace(os.Getenv("TRAINER_USER_ID")); v != "" {
		cfg.UserID = v
	}
	if v := strings.TrimSpace(os.Getenv("TRAINER_DEFAULT_OPENING")); v != "" {
		cfg.DefaultOpening = v
	}
	if v := strings.TrimSpace(os.Getenv("TRAINER_DEFAULT_MODE")); v != "" {
		cfg.DefaultMode = v
	}
	if v := strings.TrimSpace(os.Getenv("TRAINER_DEFAULT_ORDER")); v != "" {
		cfg.DefaultOrder = v
	}
	if v := strings.TrimSpace(os.Getenv("TRAINER_REPLY_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.OpponentReplyDelayMS = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TRAINER_HINT_EXPIRY_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HintExpirySec = n
		}
	}

	if cfg.DefaultMode != "learn" && cfg.DefaultMode != "drill" {
		return nil, fmt.Errorf("TRAINER_DEFAULT_MODE must be learn or drill, got %q", cfg.DefaultMode)
	}
	if cfg.DefaultOrder != "series" && cfg.DefaultOrder != "random" {
		return nil, fmt.Errorf("TRAINER_DEFAULT_ORDER must be series or random, got %q", cfg.DefaultOrder)
	}
	return cfg, nil
}
