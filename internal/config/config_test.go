package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	keys := []string{"BOT_TOKEN", "PUBLIC_URL", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD"}
	for _, key := range keys {
		t.Setenv(key, env[key])
	}
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		setEnv(t, map[string]string{
			"BOT_TOKEN":   "test-token",
			"DB_PASSWORD": "secret",
		})

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "test-token", cfg.BotToken)
		assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "5432", cfg.Database.Port)
		assert.Equal(t, "qaqabot", cfg.Database.Name)
		assert.Equal(t, "qaqabot", cfg.Database.User)
		assert.Equal(t, "secret", cfg.Database.Password)
	})

	t.Run("reads explicit values", func(t *testing.T) {
		setEnv(t, map[string]string{
			"BOT_TOKEN":   "test-token",
			"PUBLIC_URL":  "https://qaqa.example",
			"DB_HOST":     "db.internal",
			"DB_PORT":     "5433",
			"DB_NAME":     "games",
			"DB_USER":     "bot",
			"DB_PASSWORD": "secret",
		})

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://qaqa.example", cfg.PublicURL)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "5433", cfg.Database.Port)
		assert.Equal(t, "games", cfg.Database.Name)
		assert.Equal(t, "bot", cfg.Database.User)
	})

	t.Run("requires BOT_TOKEN", func(t *testing.T) {
		setEnv(t, map[string]string{
			"DB_PASSWORD": "secret",
		})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BOT_TOKEN")
	})

	t.Run("requires DB_PASSWORD", func(t *testing.T) {
		setEnv(t, map[string]string{
			"BOT_TOKEN": "test-token",
		})

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
	})
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.internal",
			Port:     "5433",
			Name:     "games",
			User:     "bot",
			Password: "secret",
		},
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=bot password=secret dbname=games sslmode=disable",
		cfg.DSN())
}
