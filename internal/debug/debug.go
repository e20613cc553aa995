package debug

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"shader-playground/internal/logger"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the FPS text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug draws the on-screen overlay: FPS top-right, the variant and shader top-left and
// the latest log line along the bottom edge. Each part is toggled independently.
type Debug struct {
	ShowFPS bool
	ShowLog bool
	Title   string
	log     *logger.Logger

	frameCount  uint32
	lastFpsText string
}

// New returns an overlay reading log lines from log, which may be nil.
func New(log *logger.Logger) *Debug {
	return &Debug{log: log}
}

// Draw renders the enabled overlays. Call after the 3D pass.
func (d *Debug) Draw() {
	d.frameCount++
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	if d.Title != "" {
		rl.DrawText(d.Title, padding, padding, fontSize, rl.RayWhite)
	}
	if d.ShowFPS {
		if d.lastFpsText == "" || d.frameCount%updateInterval == 0 {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		w := rl.MeasureText(d.lastFpsText, fontSize)
		rl.DrawText(d.lastFpsText, screenW-w-padding, padding, fontSize, rl.Green)
	}
	if d.ShowLog && d.log != nil {
		if line := d.log.Last(); line != "" {
			y := screenH - lineHeight - padding
			rl.DrawRectangle(0, y-4, screenW, lineHeight+8, rl.Fade(rl.Black, 0.5))
			rl.DrawText(line, padding, y, fontSize, rl.LightGray)
		}
	}
}
