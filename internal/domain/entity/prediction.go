package entity

import (
	"fmt"
	"image"
	"path"
	"strings"
)

// ImageSource источник изображения для инференса: URL или id изображения на платформе
type ImageSource struct {
	URL     string
	ImageID int64
}

// FromURL источник по ссылке
func FromURL(url string) ImageSource {
	return ImageSource{URL: url}
}

// FromImageID источник по идентификатору на платформе
func FromImageID(id int64) ImageSource {
	return ImageSource{ImageID: id}
}

// IsURL сообщает, что изображение берётся по ссылке
func (s ImageSource) IsURL() bool {
	return s.URL != ""
}

// Validate проверяет, что задан ровно один вариант источника
func (s ImageSource) Validate() error {
	switch {
	case s.URL != "" && s.ImageID != 0:
		return fmt.Errorf("image source has both url and image id")
	case s.URL == "" && s.ImageID <= 0:
		return fmt.Errorf("image source is empty")
	}
	return nil
}

// FileName имя файла, под которым сохраняется скачанное по URL изображение
func (s ImageSource) FileName() string {
	if !s.IsURL() {
		return fmt.Sprintf("%d.jpg", s.ImageID)
	}
	u := s.URL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	name := path.Base(u)
	if name == "." || name == "/" || name == "" {
		return "image.jpg"
	}
	return name
}

func (s ImageSource) String() string {
	if s.IsURL() {
		return s.URL
	}
	return fmt.Sprintf("image_id=%d", s.ImageID)
}

// Prediction аннотация вместе с исходным изображением и параметрами запроса
type Prediction struct {
	Source     ImageSource
	Region     *Region
	Annotation *Annotation
	Image      image.Image
}
