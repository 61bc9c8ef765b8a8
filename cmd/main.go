package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"inference-inspector/config"
	telegram "inference-inspector/internal/api"
	app "inference-inspector/internal/application"
	"inference-inspector/internal/container"
	"inference-inspector/internal/domain/entity"
	"inference-inspector/internal/domain/port"
	"inference-inspector/internal/infrastructure/platform"
	"inference-inspector/internal/infrastructure/storage"
	"inference-inspector/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	session, err := entity.ParseSessionID(cfg.TaskID)
	if err != nil {
		logger.Fatal("Invalid TASK_ID", zap.Error(err))
	}

	// Один клиент платформы на весь процесс
	client := platform.NewClient(cfg.ServerAddress, cfg.APIToken, cfg.RequestTimeout, logger.Named("platform"))

	var publisher port.OverlayPublisher
	if cfg.TelegramEnabled() {
		pub, err := telegram.NewPublisher(cfg.TelegramToken, cfg.TelegramChatID, logger.Named("telegram"))
		if err != nil {
			logger.Fatal("Failed to create telegram publisher", zap.Error(err))
		}
		publisher = pub
	}

	appContainer := container.New(container.Dependencies{
		Tasks:      client,
		Images:     client,
		Downloader: storage.NewHTTPDownloader(cfg.RequestTimeout, logger.Named("download")),
		Store:      storage.NewFileRasterStore(),
		Renderer:   vision.NewRenderer(),
		Publisher:  publisher,
		OutputDir:  cfg.OutputDir,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := appContainer.Scenario.Run(ctx, app.ScenarioInput{
		Session:  session,
		ImageURL: cfg.ImageURL,
		ImageID:  cfg.ImageID,
		BatchIDs: cfg.BatchImageIDs,
	})
	if err != nil {
		logger.Error("Scenario failed",
			zap.Error(err),
			zap.String("run_id", res.RunID),
			zap.Strings("written", res.Written),
		)
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("Done", zap.String("run_id", res.RunID), zap.Strings("written", res.Written))
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
