package app

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"inference-inspector/internal/domain/entity"
	"inference-inspector/internal/domain/port"
)

// SessionInspector читает метаданные развёрнутой сессии: информацию, схему выхода и настройки.
// Все методы идемпотентны и не имеют побочных эффектов кроме сетевого вызова.
type SessionInspector struct {
	tasks  port.TaskAPI
	logger *zap.Logger
}

// NewSessionInspector создаёт инспектор сессий
func NewSessionInspector(tasks port.TaskAPI, logger *zap.Logger) *SessionInspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionInspector{tasks: tasks, logger: logger}
}

// FetchSessionInfo возвращает диагностическую информацию о модели
func (s *SessionInspector) FetchSessionInfo(ctx context.Context, session entity.SessionID) (entity.SessionInfo, error) {
	resp, err := s.tasks.SendRequest(ctx, session, port.MethodSessionInfo, nil)
	if err != nil {
		return nil, err
	}

	var info entity.SessionInfo
	if err := json.Unmarshal(resp, &info); err != nil {
		return nil, fmt.Errorf("decode session info: %w", err)
	}
	return info, nil
}

// FetchOutputSchema возвращает классы и теги, которые выдаёт модель
func (s *SessionInspector) FetchOutputSchema(ctx context.Context, session entity.SessionID) (*entity.OutputSchema, error) {
	resp, err := s.tasks.SendRequest(ctx, session, port.MethodOutputMeta, nil)
	if err != nil {
		return nil, err
	}
	return entity.ParseOutputSchema(resp)
}

// FetchInferenceSettings возвращает настройки инференса по умолчанию.
// Настройки, пришедшие YAML-текстом, разбираются здесь, дальше ходит только словарь.
func (s *SessionInspector) FetchInferenceSettings(ctx context.Context, session entity.SessionID) (entity.InferenceSettings, error) {
	resp, err := s.tasks.SendRequest(ctx, session, port.MethodInferenceSettings, nil)
	if err != nil {
		return nil, err
	}

	raw, err := entity.ParseRawSettings(resp)
	if err != nil {
		return nil, err
	}
	if raw.Encoding == entity.SettingsText {
		s.logger.Debug("settings came as structured text", zap.Int("length", len(raw.Text)))
	}
	return raw.Resolve()
}
