package port

import (
	"context"
	"image"

	"inference-inspector/internal/domain/entity"
)

// OverlayRenderer рисует разметку поверх изображения
type OverlayRenderer interface {
	// Render возвращает новое изображение, исходное не меняется.
	// Если roi задан, его граница рисуется первой, контуры объектов поверх.
	Render(img image.Image, ann *entity.Annotation, roi *entity.Region) (image.Image, error)
}

// OverlayPublisher отправляет готовую визуализацию для ручной проверки
type OverlayPublisher interface {
	Publish(ctx context.Context, path, caption string) error
}
