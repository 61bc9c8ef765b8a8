package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"go.uber.org/zap"

	"inference-inspector/internal/domain/entity"
	"inference-inspector/internal/domain/port"
)

// InferenceOrchestrator отправляет запросы на инференс и разбирает ответы по схеме сессии.
// Повторов нет: ошибка удалённого вызова сразу возвращается вызывающему.
type InferenceOrchestrator struct {
	tasks       port.TaskAPI
	images      port.ImageAPI
	downloader  port.Downloader
	store       port.RasterStore
	downloadDir string
	logger      *zap.Logger
}

// NewInferenceOrchestrator создаёт оркестратор; изображения по URL скачиваются в downloadDir
func NewInferenceOrchestrator(
	tasks port.TaskAPI,
	images port.ImageAPI,
	downloader port.Downloader,
	store port.RasterStore,
	downloadDir string,
	logger *zap.Logger,
) *InferenceOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InferenceOrchestrator{
		tasks:       tasks,
		images:      images,
		downloader:  downloader,
		store:       store,
		downloadDir: downloadDir,
		logger:      logger,
	}
}

// Infer получает изображение источника и запускает на нём инференс, при необходимости в пределах roi.
func (o *InferenceOrchestrator) Infer(
	ctx context.Context,
	session entity.SessionID,
	schema *entity.OutputSchema,
	source entity.ImageSource,
	settings entity.InferenceSettings,
	roi *entity.Region,
) (*entity.Prediction, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: output schema is not loaded", entity.ErrSchemaMismatch)
	}

	img, err := o.FetchImage(ctx, source)
	if err != nil {
		return nil, err
	}
	return o.InferImage(ctx, session, schema, source, img, settings, roi)
}

// FetchImage скачивает изображение источника: URL сохраняется на диск и читается оттуда,
// изображение платформы приходит сразу пикселями.
func (o *InferenceOrchestrator) FetchImage(ctx context.Context, source entity.ImageSource) (image.Image, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}

	if !source.IsURL() {
		return o.images.DownloadImageByID(ctx, source.ImageID)
	}

	path := filepath.Join(o.downloadDir, source.FileName())
	if err := o.downloader.DownloadURLToPath(ctx, source.URL, path); err != nil {
		return nil, err
	}
	o.logger.Debug("source image saved", zap.String("url", source.URL), zap.String("path", path))
	return o.store.Read(path)
}

// InferImage запускает инференс для уже полученного изображения источника.
func (o *InferenceOrchestrator) InferImage(
	ctx context.Context,
	session entity.SessionID,
	schema *entity.OutputSchema,
	source entity.ImageSource,
	img image.Image,
	settings entity.InferenceSettings,
	roi *entity.Region,
) (*entity.Prediction, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: output schema is not loaded", entity.ErrSchemaMismatch)
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if roi != nil {
		if err := roi.ValidateFor(img); err != nil {
			return nil, err
		}
	}

	method := port.MethodInferenceImageID
	data := map[string]any{"image_id": source.ImageID}
	if source.IsURL() {
		method = port.MethodInferenceURL
		data = map[string]any{"image_url": source.URL}
	}
	withSettings(data, settings)
	if roi != nil {
		data["rectangle"] = roi.Wire()
	}

	resp, err := o.tasks.SendRequest(ctx, session, method, data)
	if err != nil {
		return nil, err
	}

	ann, err := entity.DecodeAnnotation(unwrapAnnotation(resp), schema)
	if err != nil {
		return nil, err
	}

	o.logger.Info("inference done",
		zap.Stringer("source", source),
		zap.Stringer("roi", regionField{roi: roi}),
		zap.Strings("classes", ann.ClassNames()),
	)

	return &entity.Prediction{Source: source, Region: roi, Annotation: ann, Image: img}, nil
}

// InferBatch отправляет один запрос со списком id и ожидает столько же результатов в том же порядке.
func (o *InferenceOrchestrator) InferBatch(
	ctx context.Context,
	session entity.SessionID,
	schema *entity.OutputSchema,
	ids []int64,
	settings entity.InferenceSettings,
) ([]*entity.Prediction, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: output schema is not loaded", entity.ErrSchemaMismatch)
	}
	if len(ids) == 0 {
		return nil, errors.New("batch is empty")
	}

	data := map[string]any{"batch_ids": ids}
	withSettings(data, settings)

	resp, err := o.tasks.SendRequest(ctx, session, port.MethodInferenceBatchIDs, data)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resp, &items); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}
	if len(items) != len(ids) {
		return nil, fmt.Errorf("%w: sent %d ids, got %d results", entity.ErrBatchSizeMismatch, len(ids), len(items))
	}

	predictions := make([]*entity.Prediction, 0, len(ids))
	for i, id := range ids {
		ann, err := entity.DecodeAnnotation(unwrapAnnotation(items[i]), schema)
		if err != nil {
			return nil, fmt.Errorf("batch item %d (image %d): %w", i, id, err)
		}
		img, err := o.images.DownloadImageByID(ctx, id)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, &entity.Prediction{
			Source:     entity.FromImageID(id),
			Annotation: ann,
			Image:      img,
		})
	}

	o.logger.Info("batch inference done", zap.Int64s("image_ids", ids))
	return predictions, nil
}

func withSettings(data map[string]any, settings entity.InferenceSettings) {
	if len(settings) > 0 {
		data["settings"] = settings
	}
}

// unwrapAnnotation снимает обёртку {"annotation": ...}, если сервер её добавил.
func unwrapAnnotation(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var envelope struct {
		Annotation json.RawMessage `json:"annotation"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Annotation) > 0 {
		return envelope.Annotation
	}
	return raw
}

type regionField struct {
	roi *entity.Region
}

func (f regionField) String() string {
	if f.roi == nil {
		return "none"
	}
	return f.roi.String()
}
