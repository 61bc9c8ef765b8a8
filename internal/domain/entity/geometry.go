package entity

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
)

// Geometry форма размеченного объекта
type Geometry interface {
	Type() GeometryType
	// Bounds ограничивающий прямоугольник в пикселях
	Bounds() image.Rectangle
}

// Rectangle прямоугольник, границы включительно
type Rectangle struct {
	Top, Left, Bottom, Right int
}

func (Rectangle) Type() GeometryType { return GeometryRectangle }

func (r Rectangle) Bounds() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right+1, r.Bottom+1)
}

// Polygon многоугольник с внешним контуром и дырками
type Polygon struct {
	Exterior []image.Point
	Interior [][]image.Point
}

func (Polygon) Type() GeometryType { return GeometryPolygon }

func (p Polygon) Bounds() image.Rectangle { return pointsBounds(p.Exterior) }

// Polyline незамкнутая ломаная
type Polyline struct {
	Points []image.Point
}

func (Polyline) Type() GeometryType { return GeometryLine }

func (l Polyline) Bounds() image.Rectangle { return pointsBounds(l.Points) }

// Point одиночная точка
type Point struct {
	image.Point
}

func (Point) Type() GeometryType { return GeometryPoint }

func (p Point) Bounds() image.Rectangle {
	return image.Rectangle{Min: p.Point, Max: p.Point.Add(image.Pt(1, 1))}
}

// Bitmap бинарная маска со смещением Origin
type Bitmap struct {
	Origin image.Point
	Mask   [][]bool // [y][x]
}

func (Bitmap) Type() GeometryType { return GeometryBitmap }

func (b Bitmap) Bounds() image.Rectangle {
	if len(b.Mask) == 0 {
		return image.Rectangle{Min: b.Origin, Max: b.Origin}
	}
	return image.Rectangle{Min: b.Origin, Max: b.Origin.Add(image.Pt(len(b.Mask[0]), len(b.Mask)))}
}

// Contour возвращает пиксели маски, у которых есть сосед вне маски (в координатах изображения).
func (b Bitmap) Contour() []image.Point {
	var out []image.Point
	at := func(x, y int) bool {
		if y < 0 || y >= len(b.Mask) || x < 0 || x >= len(b.Mask[y]) {
			return false
		}
		return b.Mask[y][x]
	}
	for y, row := range b.Mask {
		for x, v := range row {
			if !v {
				continue
			}
			if !at(x-1, y) || !at(x+1, y) || !at(x, y-1) || !at(x, y+1) {
				out = append(out, b.Origin.Add(image.Pt(x, y)))
			}
		}
	}
	return out
}

type pointsJSON struct {
	Exterior [][]float64   `json:"exterior"`
	Interior [][][]float64 `json:"interior"`
}

type bitmapJSON struct {
	Data   string `json:"data"`
	Origin []int  `json:"origin"`
}

func decodeGeometry(kind GeometryType, points *pointsJSON, bitmap *bitmapJSON) (Geometry, error) {
	switch kind {
	case GeometryRectangle:
		pts, err := toPoints(points)
		if err != nil {
			return nil, err
		}
		if len(pts) != 2 {
			return nil, fmt.Errorf("rectangle needs 2 points, got %d", len(pts))
		}
		return Rectangle{
			Left:   minInt(pts[0].X, pts[1].X),
			Top:    minInt(pts[0].Y, pts[1].Y),
			Right:  maxInt(pts[0].X, pts[1].X),
			Bottom: maxInt(pts[0].Y, pts[1].Y),
		}, nil
	case GeometryPolygon:
		pts, err := toPoints(points)
		if err != nil {
			return nil, err
		}
		if len(pts) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(pts))
		}
		holes := make([][]image.Point, 0, len(points.Interior))
		for _, ring := range points.Interior {
			h, err := convertPoints(ring)
			if err != nil {
				return nil, err
			}
			holes = append(holes, h)
		}
		return Polygon{Exterior: pts, Interior: holes}, nil
	case GeometryLine:
		pts, err := toPoints(points)
		if err != nil {
			return nil, err
		}
		if len(pts) < 2 {
			return nil, fmt.Errorf("line needs at least 2 points, got %d", len(pts))
		}
		return Polyline{Points: pts}, nil
	case GeometryPoint:
		pts, err := toPoints(points)
		if err != nil {
			return nil, err
		}
		if len(pts) != 1 {
			return nil, fmt.Errorf("point needs 1 point, got %d", len(pts))
		}
		return Point{Point: pts[0]}, nil
	case GeometryBitmap:
		if bitmap == nil {
			return nil, fmt.Errorf("bitmap object has no bitmap field")
		}
		return decodeBitmap(bitmap)
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", kind)
	}
}

func toPoints(p *pointsJSON) ([]image.Point, error) {
	if p == nil {
		return nil, fmt.Errorf("object has no points")
	}
	return convertPoints(p.Exterior)
}

func convertPoints(raw [][]float64) ([]image.Point, error) {
	pts := make([]image.Point, 0, len(raw))
	for _, xy := range raw {
		if len(xy) != 2 {
			return nil, fmt.Errorf("point must have 2 coordinates, got %d", len(xy))
		}
		pts = append(pts, image.Pt(int(xy[0]), int(xy[1])))
	}
	return pts, nil
}

// decodeBitmap: base64 -> zlib -> PNG, ненулевая альфа или яркость считаются маской.
func decodeBitmap(b *bitmapJSON) (Bitmap, error) {
	if len(b.Origin) != 2 {
		return Bitmap{}, fmt.Errorf("bitmap origin must have 2 coordinates")
	}
	compressed, err := base64.StdEncoding.DecodeString(b.Data)
	if err != nil {
		return Bitmap{}, fmt.Errorf("bitmap base64: %w", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return Bitmap{}, fmt.Errorf("bitmap zlib: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return Bitmap{}, fmt.Errorf("bitmap zlib: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return Bitmap{}, fmt.Errorf("bitmap png: %w", err)
	}

	bounds := img.Bounds()
	mask := make([][]bool, bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		mask[y] = make([]bool, bounds.Dx())
		for x := 0; x < bounds.Dx(); x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mask[y][x] = a > 0 && (r|g|bl) > 0
		}
	}
	return Bitmap{Origin: image.Pt(b.Origin[0], b.Origin[1]), Mask: mask}, nil
}

// EncodeBitmapData кодирует маску в формат поля bitmap.data.
func EncodeBitmapData(mask [][]bool) (string, error) {
	h := len(mask)
	w := 0
	if h > 0 {
		w = len(mask[0])
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y, row := range mask {
		for x, v := range row {
			if v {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return "", err
	}
	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	if _, err := zw.Write(pngBuf.Bytes()); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(zbuf.Bytes()), nil
}

func pointsBounds(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = minInt(r.Min.X, p.X)
		r.Min.Y = minInt(r.Min.Y, p.Y)
		r.Max.X = maxInt(r.Max.X, p.X)
		r.Max.Y = maxInt(r.Max.Y, p.Y)
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
