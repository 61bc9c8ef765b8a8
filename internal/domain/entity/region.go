package entity

import (
	"fmt"
	"image"
)

// Region прямоугольная область интереса в пиксельных координатах (границы включительно)
type Region struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// Validate проверяет, что область лежит внутри изображения width x height и имеет ненулевую площадь.
func (r Region) Validate(width, height int) error {
	if r.Top < 0 || r.Left < 0 {
		return fmt.Errorf("%w: negative origin (top=%d, left=%d)", ErrInvalidRegion, r.Top, r.Left)
	}
	if r.Top >= r.Bottom || r.Left >= r.Right {
		return fmt.Errorf("%w: empty region %v", ErrInvalidRegion, r)
	}
	if r.Bottom >= height || r.Right >= width {
		return fmt.Errorf("%w: region %v is outside of %dx%d image", ErrInvalidRegion, r, width, height)
	}
	return nil
}

// ValidateFor проверяет область относительно границ изображения.
func (r Region) ValidateFor(img image.Image) error {
	b := img.Bounds()
	return r.Validate(b.Dx(), b.Dy())
}

// Rect возвращает область как image.Rectangle (Max включает правый нижний пиксель).
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right+1, r.Bottom+1)
}

// Wire возвращает область в формате [top, left, bottom, right].
func (r Region) Wire() [4]int {
	return [4]int{r.Top, r.Left, r.Bottom, r.Right}
}

func (r Region) String() string {
	return fmt.Sprintf("[top=%d left=%d bottom=%d right=%d]", r.Top, r.Left, r.Bottom, r.Right)
}
