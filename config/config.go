package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultImageURL       = "https://i.imgur.com/tEkCb69.jpg"
	defaultImageID        = 770730
	defaultOutputDir      = "./images"
	defaultRequestTimeout = 60 * time.Second
	defaultLogLevel       = "info"
)

var defaultBatchIDs = []int64{770730, 770731, 770732}

type Config struct {
	ServerAddress  string
	APIToken       string
	TaskID         string
	ImageURL       string
	ImageID        int64
	BatchImageIDs  []int64
	OutputDir      string
	RequestTimeout time.Duration
	LogLevel       string
	TelegramToken  string
	TelegramChatID int64
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		APIToken:       os.Getenv("API_TOKEN"),
		TaskID:         os.Getenv("TASK_ID"),
		ImageURL:       getenv("IMAGE_URL", defaultImageURL),
		ImageID:        defaultImageID,
		BatchImageIDs:  defaultBatchIDs,
		OutputDir:      getenv("OUTPUT_DIR", defaultOutputDir),
		RequestTimeout: defaultRequestTimeout,
		LogLevel:       getenv("LOG_LEVEL", defaultLogLevel),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	if v := os.Getenv("IMAGE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("IMAGE_ID: %w", err)
		}
		cfg.ImageID = id
	}

	if v, ok := os.LookupEnv("BATCH_IMAGE_IDS"); ok {
		ids, err := parseIDs(v)
		if err != nil {
			return nil, fmt.Errorf("BATCH_IMAGE_IDS: %w", err)
		}
		cfg.BatchImageIDs = ids
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("SERVER_ADDRESS is required"))
	}
	if c.APIToken == "" {
		errs = append(errs, errors.New("API_TOKEN is required"))
	}
	if c.TaskID == "" {
		errs = append(errs, errors.New("TASK_ID is required"))
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set"))
	}
	return errors.Join(errs...)
}

// TelegramEnabled включена ли отправка оверлеев в Telegram
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
