package scene

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	gridExtent     = 10
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// drawEditorGrid draws a reference grid on the XZ plane just above the ground, with the
// world axes through the origin (X red, Y green, Z blue). Useful for checking where the
// pyramid's base corner sits.
func drawEditorGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	const y = 0.001
	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		start.X, start.Y, start.Z = float32(i), y, -gridExtent
		end.X, end.Y, end.Z = float32(i), y, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, y, float32(i)
		end.X, end.Y, end.Z = gridExtent, y, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	rl.DrawLine3D(rl.NewVector3(-gridExtent, y, 0), rl.NewVector3(gridExtent, y, 0), rl.NewColor(220, 80, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, 0, 0), rl.NewVector3(0, gridExtent, 0), rl.NewColor(80, 220, 80, axisLineAlpha))
	rl.DrawLine3D(rl.NewVector3(0, y, -gridExtent), rl.NewVector3(0, y, gridExtent), rl.NewColor(80, 80, 220, axisLineAlpha))
}
