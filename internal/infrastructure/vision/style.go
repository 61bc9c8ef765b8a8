package vision

import "image/color"

// Стиль отрисовки. ROI рисуется отдельным цветом и толще контуров объектов.
var RegionColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

const (
	RegionStrokeWidth  = 5
	ContourStrokeWidth = 3
	PointRadius        = 4
)
