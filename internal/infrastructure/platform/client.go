package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"inference-inspector/internal/domain/entity"
	"inference-inspector/internal/domain/port"
)

const (
	apiPrefix       = "/public/api/v3/"
	methodTaskCall  = "tasks.request.direct"
	methodImageLoad = "images.download"
	headerAPIKey    = "x-api-key"
	maxErrorBody    = 4 << 10
)

// Client HTTP-клиент платформы: вызовы сессий и скачивание изображений.
// Создаётся один раз при старте и передаётся явно.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient создаёт клиента для сервера serverAddress с токеном token
func NewClient(serverAddress, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(serverAddress, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type taskRequest struct {
	TaskID  entity.SessionID `json:"taskId"`
	Command string           `json:"command"`
	Context map[string]any   `json:"context"`
	State   any              `json:"state"`
}

type apiError struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// SendRequest вызывает метод развёрнутой сессии.
// Любая ошибка транспорта или статус не 2xx считается недоступностью сессии.
func (c *Client) SendRequest(ctx context.Context, session entity.SessionID, method string, data any) (json.RawMessage, error) {
	if data == nil {
		data = map[string]any{}
	}
	body := taskRequest{TaskID: session, Command: method, Context: map[string]any{}, State: data}

	start := time.Now()
	resp, err := c.post(ctx, methodTaskCall, body)
	if err != nil {
		return nil, fmt.Errorf("%w: task %d %s: %v", entity.ErrSessionUnavailable, session, method, err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(resp, &raw); err != nil {
		return nil, fmt.Errorf("task %d %s: decode response: %w", session, method, err)
	}

	c.logger.Debug("task request done",
		zap.Int64("task_id", int64(session)),
		zap.String("method", method),
		zap.Int("response_bytes", len(resp)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return raw, nil
}

// DownloadImageByID скачивает изображение с платформы и декодирует его
func (c *Client) DownloadImageByID(ctx context.Context, id int64) (image.Image, error) {
	resp, err := c.post(ctx, methodImageLoad, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("download image %d: %w", id, err)
	}

	img, err := imaging.Decode(bytes.NewReader(resp), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image %d: %w", id, err)
	}

	c.logger.Debug("image downloaded",
		zap.Int64("image_id", id),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return img, nil
}

// post отправляет JSON и возвращает тело успешного ответа
func (c *Client) post(ctx context.Context, method string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+method, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAPIKey, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		if len(apiErr.Details) > 0 {
			return fmt.Errorf("status %d: %s %v", resp.StatusCode, apiErr.Error, apiErr.Details)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

var (
	_ port.TaskAPI  = (*Client)(nil)
	_ port.ImageAPI = (*Client)(nil)
)
