package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "https://app.example.com")
	t.Setenv("API_TOKEN", "token")
	t.Setenv("TASK_ID", "2723")
	t.Setenv("IMAGE_URL", "")
	t.Setenv("IMAGE_ID", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, "https://i.imgur.com/tEkCb69.jpg", cfg.ImageURL)
	require.Equal(t, int64(770730), cfg.ImageID)
	require.Equal(t, "./images", cfg.OutputDir)
	require.Equal(t, 60*time.Second, cfg.RequestTimeout)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.TelegramEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("IMAGE_ID", "42")
	t.Setenv("BATCH_IMAGE_IDS", "1, 2,3,")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("TELEGRAM_CHAT_ID", "-100500")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int64(42), cfg.ImageID)
	require.Equal(t, []int64{1, 2, 3}, cfg.BatchImageIDs)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.True(t, cfg.TelegramEnabled())
	require.Equal(t, int64(-100500), cfg.TelegramChatID)
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("IMAGE_ID", "abc")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("IMAGE_ID", "")
	t.Setenv("BATCH_IMAGE_IDS", "1,x")
	_, err = Load()
	require.Error(t, err)
}

func TestValidate_Required(t *testing.T) {
	cfg := &Config{TelegramToken: "tg"}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SERVER_ADDRESS")
	require.Contains(t, err.Error(), "API_TOKEN")
	require.Contains(t, err.Error(), "TASK_ID")
	require.Contains(t, err.Error(), "TELEGRAM_CHAT_ID")
}
