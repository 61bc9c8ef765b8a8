package vision

import (
	"errors"
	"image"

	"github.com/fogleman/gg"

	"inference-inspector/internal/domain/entity"
	"inference-inspector/internal/domain/port"
)

// GGRenderer рисует оверлей средствами fogleman/gg (без OpenCV)
type GGRenderer struct{}

// NewGGRenderer создаёт рендерер на gg
func NewGGRenderer() *GGRenderer {
	return &GGRenderer{}
}

// Render копирует изображение, рисует границу ROI и поверх неё контуры объектов.
func (r *GGRenderer) Render(img image.Image, ann *entity.Annotation, roi *entity.Region) (image.Image, error) {
	if img == nil {
		return nil, errors.New("empty image")
	}

	// NewContextForImage рисует в собственную RGBA-копию
	dc := gg.NewContextForImage(img)

	if roi != nil {
		dc.SetColor(RegionColor)
		dc.SetLineWidth(RegionStrokeWidth)
		strokeRect(dc, roi.Left, roi.Top, roi.Right, roi.Bottom)
	}

	if ann != nil {
		dc.SetLineWidth(ContourStrokeWidth)
		for _, label := range ann.Labels {
			dc.SetColor(label.Class.RGBA())
			drawGeometry(dc, label.Geometry)
		}
	}

	return dc.Image(), nil
}

func drawGeometry(dc *gg.Context, g entity.Geometry) {
	switch geom := g.(type) {
	case entity.Rectangle:
		strokeRect(dc, geom.Left, geom.Top, geom.Right, geom.Bottom)
	case entity.Polygon:
		strokePath(dc, geom.Exterior, true)
		for _, hole := range geom.Interior {
			strokePath(dc, hole, true)
		}
	case entity.Polyline:
		strokePath(dc, geom.Points, false)
	case entity.Point:
		dc.DrawCircle(center(geom.X), center(geom.Y), PointRadius)
		dc.Fill()
	case entity.Bitmap:
		half := ContourStrokeWidth / 2
		for _, p := range geom.Contour() {
			dc.DrawRectangle(float64(p.X-half), float64(p.Y-half), ContourStrokeWidth, ContourStrokeWidth)
		}
		dc.Fill()
	}
}

// strokeRect обводит прямоугольник с включительными границами по центрам пикселей.
func strokeRect(dc *gg.Context, left, top, right, bottom int) {
	dc.DrawRectangle(center(left), center(top), float64(right-left), float64(bottom-top))
	dc.Stroke()
}

func strokePath(dc *gg.Context, pts []image.Point, closed bool) {
	if len(pts) == 0 {
		return
	}
	dc.NewSubPath()
	dc.MoveTo(center(pts[0].X), center(pts[0].Y))
	for _, p := range pts[1:] {
		dc.LineTo(center(p.X), center(p.Y))
	}
	if closed {
		dc.ClosePath()
	}
	dc.Stroke()
}

func center(v int) float64 {
	return float64(v) + 0.5
}

var _ port.OverlayRenderer = (*GGRenderer)(nil)
