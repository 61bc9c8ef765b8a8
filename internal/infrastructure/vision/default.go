//go:build !gocv
// +build !gocv

package vision

import "inference-inspector/internal/domain/port"

// NewRenderer возвращает рендерер на gg, если сборка без тега gocv.
func NewRenderer() port.OverlayRenderer {
	return NewGGRenderer()
}
