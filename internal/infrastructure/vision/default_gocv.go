//go:build gocv
// +build gocv

package vision

import "inference-inspector/internal/domain/port"

// NewRenderer возвращает рендерер на OpenCV, если сборка с тегом gocv.
func NewRenderer() port.OverlayRenderer {
	return NewGoCVRenderer()
}
