package telegram

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"inference-inspector/internal/domain/port"
)

// Publisher отправляет готовые оверлеи в Telegram-чат для ручной проверки
type Publisher struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewPublisher авторизует бота по токену
func NewPublisher(token string, chatID int64, logger *zap.Logger) (*Publisher, error) {
	return NewPublisherWithEndpoint(token, tgbotapi.APIEndpoint, chatID, logger)
}

// NewPublisherWithEndpoint то же, что NewPublisher, но с другим адресом Bot API
func NewPublisherWithEndpoint(token, endpoint string, chatID int64, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}

	logger.Info("Authorized on account", zap.String("account", api.Self.UserName))

	return &Publisher{
		api:    api,
		chatID: chatID,
		logger: logger,
	}, nil
}

// Publish отправляет файл path как фото с подписью caption
func (p *Publisher) Publish(ctx context.Context, path, caption string) error {
	_ = ctx

	photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(path))
	photo.Caption = caption

	msg, err := p.api.Send(photo)
	if err != nil {
		return fmt.Errorf("send photo: %w", err)
	}

	p.logger.Debug("overlay published", zap.String("path", path), zap.Int("message_id", msg.MessageID))
	return nil
}

var _ port.OverlayPublisher = (*Publisher)(nil)
