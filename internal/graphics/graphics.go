package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the playground window.
type Window struct {
	Width, Height int
	Title         string
	TargetFPS     int
	MSAA          bool
	// Background is the clear colour; it is read every frame so callers may change it.
	Background func() rl.Color
}

// Run opens the window and drives the main loop. load runs once after the OpenGL context
// exists and before the first frame; a load error closes the window and is returned.
// Each frame calls update (input, hot reload), clears the screen, then calls draw.
// unload runs before the window closes. ESC or the close button quits.
func Run(w Window, load func() error, update, draw, unload func()) error {
	flags := uint32(rl.FlagWindowResizable)
	if w.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	rl.SetConfigFlags(flags)
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(w.TargetFPS))

	if err := load(); err != nil {
		return err
	}
	defer unload()

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		bg := rl.Black
		if w.Background != nil {
			bg = w.Background()
		}
		rl.ClearBackground(bg)
		draw()
		rl.EndDrawing()
	}
	return nil
}
