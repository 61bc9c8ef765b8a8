package port

import (
	"context"
	"image"
)

// Downloader скачивание файла по сети на диск
type Downloader interface {
	DownloadURLToPath(ctx context.Context, url, path string) error
}

// RasterStore чтение и запись изображений на локальном диске
type RasterStore interface {
	Read(path string) (image.Image, error)
	// Write создаёт недостающие каталоги и перезаписывает существующий файл
	Write(img image.Image, path string) error
}
