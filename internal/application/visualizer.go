package app

import (
	"context"
	"errors"
	"image"
	"path/filepath"

	"go.uber.org/zap"

	"inference-inspector/internal/domain/entity"
	"inference-inspector/internal/domain/port"
)

// Visualizer рисует предсказания поверх изображений и сохраняет результат на диск.
type Visualizer struct {
	renderer  port.OverlayRenderer
	store     port.RasterStore
	publisher port.OverlayPublisher
	outputDir string
	logger    *zap.Logger
}

// NewVisualizer создаёт визуализатор; publisher может быть nil
func NewVisualizer(
	renderer port.OverlayRenderer,
	store port.RasterStore,
	publisher port.OverlayPublisher,
	outputDir string,
	logger *zap.Logger,
) *Visualizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Visualizer{
		renderer:  renderer,
		store:     store,
		publisher: publisher,
		outputDir: outputDir,
		logger:    logger,
	}
}

// Render возвращает копию изображения с границей roi (если есть) и контурами аннотации
func (v *Visualizer) Render(img image.Image, ann *entity.Annotation, roi *entity.Region) (image.Image, error) {
	if img == nil {
		return nil, errors.New("empty image")
	}
	return v.renderer.Render(img, ann, roi)
}

// Save записывает оверлей в path, существующий файл перезаписывается
func (v *Visualizer) Save(img image.Image, path string) error {
	return v.store.Write(img, path)
}

// Visualize рисует предсказание, сохраняет его как <outputDir>/<name> и возвращает путь.
func (v *Visualizer) Visualize(ctx context.Context, p *entity.Prediction, name string) (string, error) {
	overlay, err := v.Render(p.Image, p.Annotation, p.Region)
	if err != nil {
		return "", err
	}

	path := filepath.Join(v.outputDir, name)
	if err := v.Save(overlay, path); err != nil {
		return "", err
	}

	v.logger.Info("overlay saved",
		zap.String("path", path),
		zap.Stringer("source", p.Source),
		zap.Int("objects", len(p.Annotation.Labels)),
	)

	if v.publisher != nil {
		if err := v.publisher.Publish(ctx, path, name); err != nil {
			return path, err
		}
	}
	return path, nil
}
