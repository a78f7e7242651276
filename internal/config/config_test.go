package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Password: "secret"},
		JWT:      JWTConfig{Secret: "jwt-secret"},
		Platform: PlatformConfig{BotToken: "bot-token", WebhookSecret: "hook-secret"},
		Engine: EngineConfig{
			ShiftStart: "09:00",
			ShiftEnd:   "17:00",
			AdvanceCap: decimal.NewFromInt(1000),
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("complete configuration passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("admin chat id is optional", func(t *testing.T) {
		cfg := validConfig()
		cfg.Platform.AdminChatID = 0
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing webhook secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Platform.WebhookSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("malformed shift window", func(t *testing.T) {
		cfg := validConfig()
		cfg.Engine.ShiftStart = "9am"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive advance cap", func(t *testing.T) {
		cfg := validConfig()
		cfg.Engine.AdvanceCap = decimal.Zero
		assert.Error(t, cfg.Validate())
	})
}
