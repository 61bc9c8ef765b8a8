package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"inference-inspector/internal/domain/port"
)

// HTTPDownloader скачивает файлы по URL на локальный диск
type HTTPDownloader struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTPDownloader создаёт загрузчик с таймаутом timeout
func NewHTTPDownloader(timeout time.Duration, logger *zap.Logger) *HTTPDownloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPDownloader{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// DownloadURLToPath скачивает url в path, создавая каталоги.
// Файл пишется во временный и переименовывается, чтобы не оставлять обрывков.
func (d *HTTPDownloader) DownloadURLToPath(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: %s returned status %d", url, resp.StatusCode)
	}

	if err := ensureDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return writeError(path, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("read file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return writeError(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return writeError(path, err)
	}

	d.logger.Debug("file downloaded", zap.String("url", url), zap.String("path", path), zap.Int64("bytes", n))
	return nil
}

var _ port.Downloader = (*HTTPDownloader)(nil)
