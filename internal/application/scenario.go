package app

import (
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inference-inspector/internal/domain/entity"
)

// ScenarioInput параметры демонстрационного прогона
type ScenarioInput struct {
	Session  entity.SessionID
	ImageURL string
	ImageID  int64
	BatchIDs []int64
}

// ScenarioResult что успел сделать прогон
type ScenarioResult struct {
	RunID    string
	Info     entity.SessionInfo
	Schema   *entity.OutputSchema
	Settings entity.InferenceSettings
	Written  []string
}

// Scenario прогоняет фиксированную последовательность шагов:
// метаданные сессии, URL целиком, URL с ROI, id целиком, id с ROI, батч id.
type Scenario struct {
	inspector    *SessionInspector
	orchestrator *InferenceOrchestrator
	visualizer   *Visualizer
	logger       *zap.Logger
}

// NewScenario собирает сценарий из сервисов
func NewScenario(inspector *SessionInspector, orchestrator *InferenceOrchestrator, visualizer *Visualizer, logger *zap.Logger) *Scenario {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scenario{
		inspector:    inspector,
		orchestrator: orchestrator,
		visualizer:   visualizer,
		logger:       logger,
	}
}

// Run выполняет шаги по порядку и останавливается на первой ошибке.
// Уже записанные файлы остаются на диске и перечислены в результате.
func (s *Scenario) Run(ctx context.Context, in ScenarioInput) (*ScenarioResult, error) {
	res := &ScenarioResult{RunID: uuid.NewString()}
	log := s.logger.With(zap.String("run_id", res.RunID), zap.Int64("task_id", int64(in.Session)))

	info, err := s.inspector.FetchSessionInfo(ctx, in.Session)
	if err != nil {
		return res, fmt.Errorf("get session info: %w", err)
	}
	res.Info = info
	log.Info("Information about deployed model", zap.Any("info", info))

	schema, err := s.inspector.FetchOutputSchema(ctx, in.Session)
	if err != nil {
		return res, fmt.Errorf("get output classes and tags: %w", err)
	}
	res.Schema = schema
	log.Info("Model produces following classes and tags",
		zap.Strings("classes", classTitles(schema)),
		zap.Strings("tags", tagNames(schema)),
	)

	settings, err := s.inspector.FetchInferenceSettings(ctx, in.Session)
	if err != nil {
		return res, fmt.Errorf("get inference settings: %w", err)
	}
	res.Settings = settings
	log.Info("Model inference settings", zap.Any("settings", settings))

	// 1. изображение по URL целиком
	urlSource := entity.FromURL(in.ImageURL)
	full, err := s.orchestrator.Infer(ctx, in.Session, schema, urlSource, settings, nil)
	if err != nil {
		return res, fmt.Errorf("inference by url: %w", err)
	}
	if err := s.visualize(ctx, res, full, "01_prediction_full_image.jpg"); err != nil {
		return res, err
	}

	// 2. то же изображение, только левая половина
	roi := LeftHalf(full.Image)
	half, err := s.orchestrator.InferImage(ctx, in.Session, schema, urlSource, full.Image, settings, &roi)
	if err != nil {
		return res, fmt.Errorf("inference by url with roi: %w", err)
	}
	if err := s.visualize(ctx, res, half, "02_prediction_roi.jpg"); err != nil {
		return res, err
	}

	// 3. изображение с платформы по id
	idSource := entity.FromImageID(in.ImageID)
	byID, err := s.orchestrator.Infer(ctx, in.Session, schema, idSource, settings, nil)
	if err != nil {
		return res, fmt.Errorf("inference by image id: %w", err)
	}
	if err := s.visualize(ctx, res, byID, "03_prediction_image_id.jpg"); err != nil {
		return res, err
	}

	// 4. по id с ROI
	idROI := LeftHalf(byID.Image)
	byIDHalf, err := s.orchestrator.InferImage(ctx, in.Session, schema, idSource, byID.Image, settings, &idROI)
	if err != nil {
		return res, fmt.Errorf("inference by image id with roi: %w", err)
	}
	if err := s.visualize(ctx, res, byIDHalf, "04_prediction_image_id_roi.jpg"); err != nil {
		return res, err
	}

	// 5. батч по id
	if len(in.BatchIDs) == 0 {
		log.Info("Batch step skipped: no image ids")
		return res, nil
	}
	batch, err := s.orchestrator.InferBatch(ctx, in.Session, schema, in.BatchIDs, settings)
	if err != nil {
		return res, fmt.Errorf("batch inference: %w", err)
	}
	for i, p := range batch {
		name := fmt.Sprintf("05_prediction_batch_%02d_%d.jpg", i, p.Source.ImageID)
		if err := s.visualize(ctx, res, p, name); err != nil {
			return res, err
		}
	}

	log.Info("Scenario finished", zap.Int("files", len(res.Written)))
	return res, nil
}

func (s *Scenario) visualize(ctx context.Context, res *ScenarioResult, p *entity.Prediction, name string) error {
	path, err := s.visualizer.Visualize(ctx, p, name)
	if path != "" {
		res.Written = append(res.Written, path)
	}
	if err != nil {
		return fmt.Errorf("visualize %s: %w", name, err)
	}
	return nil
}

// LeftHalf область на всю высоту и левую половину ширины изображения
func LeftHalf(img image.Image) entity.Region {
	b := img.Bounds()
	return entity.Region{Top: 0, Left: 0, Bottom: b.Dy() - 1, Right: b.Dx() / 2}
}

func classTitles(s *entity.OutputSchema) []string {
	classes := s.Classes()
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		out = append(out, c.Title)
	}
	return out
}

func tagNames(s *entity.OutputSchema) []string {
	tags := s.Tags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}
