package storage

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"inference-inspector/internal/domain/entity"
	"inference-inspector/internal/domain/port"
)

const jpegQuality = 90

// FileRasterStore читает и пишет изображения на диске, формат по расширению файла
type FileRasterStore struct{}

// NewFileRasterStore создаёт хранилище изображений
func NewFileRasterStore() *FileRasterStore {
	return &FileRasterStore{}
}

// Read открывает и декодирует изображение с учётом EXIF-ориентации
func (s *FileRasterStore) Read(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	return img, nil
}

// Write сохраняет изображение, создаёт недостающие каталоги и перезаписывает существующий файл
func (s *FileRasterStore) Write(img image.Image, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return writeError(path, err)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", entity.ErrWrite, path, err)
}

var _ port.RasterStore = (*FileRasterStore)(nil)
