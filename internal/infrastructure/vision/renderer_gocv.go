//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"inference-inspector/internal/domain/entity"
	"inference-inspector/internal/domain/port"
)

// GoCVRenderer рисует оверлей через OpenCV
type GoCVRenderer struct{}

// NewGoCVRenderer создаёт рендерер на gocv
func NewGoCVRenderer() *GoCVRenderer {
	return &GoCVRenderer{}
}

// Render копирует изображение в Mat, рисует границу ROI и поверх неё контуры объектов.
func (r *GoCVRenderer) Render(img image.Image, ann *entity.Annotation, roi *entity.Region) (image.Image, error) {
	if img == nil {
		return nil, errors.New("empty image")
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	if roi != nil {
		rect := image.Rect(roi.Left, roi.Top, roi.Right, roi.Bottom)
		gocv.Rectangle(&mat, rect, RegionColor, RegionStrokeWidth)
	}

	if ann != nil {
		for _, label := range ann.Labels {
			drawGeometryMat(&mat, label.Geometry, label.Class.RGBA())
		}
	}

	return mat.ToImage()
}

func drawGeometryMat(mat *gocv.Mat, g entity.Geometry, c color.RGBA) {
	switch geom := g.(type) {
	case entity.Rectangle:
		rect := image.Rect(geom.Left, geom.Top, geom.Right, geom.Bottom)
		gocv.Rectangle(mat, rect, c, ContourStrokeWidth)
	case entity.Polygon:
		rings := append([][]image.Point{geom.Exterior}, geom.Interior...)
		pv := gocv.NewPointsVectorFromPoints(rings)
		defer pv.Close()
		gocv.Polylines(mat, pv, true, c, ContourStrokeWidth)
	case entity.Polyline:
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{geom.Points})
		defer pv.Close()
		gocv.Polylines(mat, pv, false, c, ContourStrokeWidth)
	case entity.Point:
		gocv.Circle(mat, geom.Point, PointRadius, c, -1)
	case entity.Bitmap:
		half := ContourStrokeWidth / 2
		for _, p := range geom.Contour() {
			rect := image.Rect(p.X-half, p.Y-half, p.X+half, p.Y+half)
			gocv.Rectangle(mat, rect, c, -1)
		}
	}
}

var _ port.OverlayRenderer = (*GoCVRenderer)(nil)
