package app

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"inference-inspector/internal/domain/entity"
)

const testSchemaJSON = `{
	"classes": [{"title": "person", "shape": "rectangle", "color": "#FF0000"}],
	"tags": [{"name": "confidence", "value_type": "any_number"}]
}`

const personAnnotation = `{
	"size": {"height": 60, "width": 80},
	"tags": [],
	"objects": [{
		"classTitle": "person", "geometryType": "rectangle",
		"tags": [{"name": "confidence", "value": 0.87}],
		"points": {"exterior": [[10, 10], [30, 40]], "interior": []}
	}]
}`

type call struct {
	Session entity.SessionID
	Method  string
	Data    map[string]any
}

// fakeTasks отвечает заранее заданным JSON на каждый метод
type fakeTasks struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []call
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{
		responses: map[string]string{
			"get_session_info":              `{"app_name": "Serve YOLO", "session_id": 2723, "model_files": "yolov5s.pt"}`,
			"get_output_classes_and_tags":   testSchemaJSON,
			"get_custom_inference_settings": `{"settings": "conf_thresh: 0.5\n"}`,
			"inference_image_url":           personAnnotation,
			"inference_image_id":            `{"annotation": ` + personAnnotation + `}`,
		},
		errs: map[string]error{},
	}
}

func (f *fakeTasks) SendRequest(ctx context.Context, session entity.SessionID, method string, data any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, _ := data.(map[string]any)
	f.calls = append(f.calls, call{Session: session, Method: method, Data: m})

	if err, ok := f.errs[method]; ok {
		return nil, err
	}
	resp, ok := f.responses[method]
	if !ok {
		return nil, fmt.Errorf("%w: no handler for %s", entity.ErrSessionUnavailable, method)
	}
	return json.RawMessage(resp), nil
}

func (f *fakeTasks) callsFor(method string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// fakeImages отдаёт однотонные изображения заданного размера
type fakeImages struct {
	size      image.Point
	requested []int64
	err       error
}

func (f *fakeImages) DownloadImageByID(ctx context.Context, id int64) (image.Image, error) {
	f.requested = append(f.requested, id)
	if f.err != nil {
		return nil, f.err
	}
	return grayImage(f.size.X, f.size.Y), nil
}

// fakeDownloader вместо сети пишет PNG на диск
type fakeDownloader struct {
	size image.Point
	urls []string
}

func (f *fakeDownloader) DownloadURLToPath(ctx context.Context, url, path string) error {
	f.urls = append(f.urls, url)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, grayImage(f.size.X, f.size.Y))
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, path, caption string) error {
	f.published = append(f.published, caption)
	return f.err
}

func grayImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 128, G: 128, B: 128, A: 255}}, image.Point{}, draw.Src)
	return img
}
