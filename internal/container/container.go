package container

import (
	"go.uber.org/zap"

	app "inference-inspector/internal/application"
	"inference-inspector/internal/domain/port"
)

// Dependencies внешние адаптеры, которые собираются в cmd
type Dependencies struct {
	Tasks      port.TaskAPI
	Images     port.ImageAPI
	Downloader port.Downloader
	Store      port.RasterStore
	Renderer   port.OverlayRenderer
	Publisher  port.OverlayPublisher // может быть nil
	OutputDir  string
	Logger     *zap.Logger
}

type Container struct {
	SessionInspector      *app.SessionInspector
	InferenceOrchestrator *app.InferenceOrchestrator
	Visualizer            *app.Visualizer
	Scenario              *app.Scenario
}

func New(deps Dependencies) *Container {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	inspector := app.NewSessionInspector(deps.Tasks, logger.Named("inspector"))
	orchestrator := app.NewInferenceOrchestrator(deps.Tasks, deps.Images, deps.Downloader, deps.Store, deps.OutputDir, logger.Named("inference"))
	visualizer := app.NewVisualizer(deps.Renderer, deps.Store, deps.Publisher, deps.OutputDir, logger.Named("visualizer"))

	return &Container{
		SessionInspector:      inspector,
		InferenceOrchestrator: orchestrator,
		Visualizer:            visualizer,
		Scenario:              app.NewScenario(inspector, orchestrator, visualizer, logger.Named("scenario")),
	}
}
