package port

import (
	"context"
	"encoding/json"
	"image"

	"inference-inspector/internal/domain/entity"
)

// Методы, которые принимает развёрнутая сессия
const (
	MethodSessionInfo       = "get_session_info"
	MethodOutputMeta        = "get_output_classes_and_tags"
	MethodInferenceSettings = "get_custom_inference_settings"
	MethodInferenceURL      = "inference_image_url"
	MethodInferenceImageID  = "inference_image_id"
	MethodInferenceBatchIDs = "inference_batch_ids"
)

// TaskAPI удалённый вызов метода сессии
type TaskAPI interface {
	// SendRequest отправляет запрос method с данными data и возвращает JSON-ответ
	SendRequest(ctx context.Context, session entity.SessionID, method string, data any) (json.RawMessage, error)
}

// ImageAPI получение изображений, хранящихся на платформе
type ImageAPI interface {
	// DownloadImageByID возвращает декодированное изображение по его id
	DownloadImageByID(ctx context.Context, id int64) (image.Image, error)
}
