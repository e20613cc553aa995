package scene

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"shader-playground/internal/logger"
	"shader-playground/internal/mesh"
	"shader-playground/internal/primitives"
	"shader-playground/internal/scenedef"
	"shader-playground/internal/shader"
)

const (
	defaultFovy = 45
	// rotateSpeed is radians per pixel of mouse drag; zoomStep is world units per wheel notch.
	rotateSpeed = 0.008
	zoomStep    = 0.75
	// checkerSize is the fallback texture used when the configured one cannot be loaded.
	checkerSize  = 256
	checkerCells = 8
)

// Options carry the collaborators a scene needs besides its definition.
type Options struct {
	Log          *logger.Logger
	Shaders      shader.Loader
	TextureCache string
	// Watcher is optional; when set, Update recompiles the pyramid shader whenever its
	// sources change on disk.
	Watcher *shader.Watcher
	// Grid starts with the editor grid visible. G toggles it at runtime.
	Grid bool
}

// Scene assembles one playground variant: an arc-rotate camera, the unlit ground and
// reference boxes, a shared texture and the pyramid drawn with its shader contract.
// New does the CPU work and can fail fast; Load allocates GPU resources and must run after
// the window/OpenGL context exists.
type Scene struct {
	Def         *scenedef.Scene
	Orbit       scenedef.Orbit
	Camera      rl.Camera3D
	GridVisible bool

	opts     Options
	mesh     *mesh.Mesh
	contract shader.Contract

	prims    *primitives.Registry
	gpu      *primitives.GPUMesh
	material *primitives.ContractMaterial
	tex      rl.Texture2D
	loaded   bool
}

// New validates def, builds the pyramid mesh and resolves its shader contract.
// def is cloned; later edits by the caller do not affect the scene.
func New(def *scenedef.Scene, opts Options) (*Scene, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	d, err := def.Clone()
	if err != nil {
		return nil, err
	}
	if opts.Log == nil {
		opts.Log = logger.NewAt("")
	}
	m, err := mesh.BuildPyramid(d.Pyramid.Width, d.Pyramid.Height, d.Pyramid.MeshConfig())
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", d.Name, err)
	}
	c, err := opts.Shaders.Load(d.Pyramid.Shader)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", d.Name, err)
	}
	if err := checkCompatible(c, m); err != nil {
		return nil, fmt.Errorf("scene %s: %w", d.Name, err)
	}
	s := &Scene{
		Def:         d,
		Orbit:       scenedef.NewOrbit(d.Camera),
		GridVisible: opts.Grid,
		opts:        opts,
		mesh:        m,
		contract:    c,
	}
	s.syncCamera()
	return s, nil
}

// Mesh returns the generated pyramid buffers.
func (s *Scene) Mesh() *mesh.Mesh {
	return s.mesh
}

// Contract returns the shader contract currently bound to the pyramid.
func (s *Scene) Contract() shader.Contract {
	return s.contract
}

// Background is the clear colour of the variant.
func (s *Scene) Background() rl.Color {
	return rgb(s.Def.Background)
}

// Load fetches the texture, uploads the pyramid and compiles its shader. A texture that
// cannot be fetched or decoded is replaced by a checkerboard and logged; everything else
// is an error.
func (s *Scene) Load(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	if s.needsTexture() {
		img, err := resolveImage(ctx, s.Def.Texture, s.opts.TextureCache)
		if err != nil {
			s.opts.Log.Logf("texture unavailable, using checker: %v", err)
			img = fallbackImage()
		}
		rimg := rl.NewImageFromImage(img)
		s.tex = rl.LoadTextureFromImage(rimg)
		rl.UnloadImage(rimg)
		if !rl.IsTextureValid(s.tex) {
			return fmt.Errorf("scene %s: texture upload failed", s.Def.Name)
		}
		rl.GenTextureMipmaps(&s.tex)
		rl.SetTextureFilter(s.tex, rl.FilterTrilinear)
	}

	gpu, err := primitives.Upload(s.mesh)
	if err != nil {
		s.unloadTexture()
		return fmt.Errorf("scene %s: %w", s.Def.Name, err)
	}
	cm, err := primitives.LoadContract(s.contract, s.tex, tint(s.Def.Pyramid.Tint))
	if err != nil {
		gpu.Unload()
		s.unloadTexture()
		return fmt.Errorf("scene %s: %w", s.Def.Name, err)
	}
	s.gpu = gpu
	s.material = cm
	s.prims = primitives.NewRegistry()
	s.loaded = true
	s.opts.Log.Logf("scene %s loaded: %d vertices, %d triangles, shader %s",
		s.Def.Name, s.mesh.VertexCount(), s.mesh.TriangleCount(), s.contract.Name)
	return nil
}

func (s *Scene) needsTexture() bool {
	if s.Def.Texture != nil || len(s.contract.Samplers) > 0 {
		return true
	}
	for _, b := range s.Def.Boxes {
		if b.Textured {
			return true
		}
	}
	return false
}

// Update runs once per frame: left-drag orbits the camera, the wheel zooms, G toggles the
// grid, and pending shader edits are recompiled.
func (s *Scene) Update() {
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		s.Orbit.Rotate(-d.X*rotateSpeed, -d.Y*rotateSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.Orbit.Zoom(-wheel * zoomStep)
	}
	if rl.IsKeyPressed(rl.KeyG) {
		s.GridVisible = !s.GridVisible
	}
	s.syncCamera()
	s.drainWatcher()
}

func (s *Scene) syncCamera() {
	eye := s.Orbit.Position()
	t := s.Orbit.Target
	fovy := s.Def.Camera.Fovy
	if fovy <= 0 {
		fovy = defaultFovy
	}
	s.Camera = rl.Camera3D{
		Position:   rl.NewVector3(eye[0], eye[1], eye[2]),
		Target:     rl.NewVector3(t[0], t[1], t[2]),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
}

// drainWatcher consumes every pending watcher event without blocking the frame.
func (s *Scene) drainWatcher() {
	w := s.opts.Watcher
	if w == nil {
		return
	}
	for {
		select {
		case name := <-w.Changes():
			if name == s.contract.Name {
				s.Reload()
			}
		case err := <-w.Errors():
			s.opts.Log.Error(err)
		default:
			return
		}
	}
}

// Reload recompiles the pyramid shader from the loader. On failure the previous shader stays
// bound and the error is logged.
func (s *Scene) Reload() {
	c, err := s.opts.Shaders.Load(s.contract.Name)
	if err == nil {
		err = checkCompatible(c, s.mesh)
	}
	if err != nil {
		s.opts.Log.Logf("shader %s reload rejected: %v", s.contract.Name, err)
		return
	}
	if !s.loaded {
		s.contract = c
		return
	}
	cm, err := primitives.LoadContract(c, s.tex, tint(s.Def.Pyramid.Tint))
	if err != nil {
		s.opts.Log.Logf("shader %s reload failed: %v", c.Name, err)
		return
	}
	s.material.Unload()
	s.material = cm
	s.contract = c
	s.opts.Log.Logf("shader %s reloaded", c.Name)
}

// Draw renders the 3D pass. Call between BeginDrawing and EndDrawing, after clearing to
// Background.
func (s *Scene) Draw() {
	if !s.loaded {
		return
	}
	rl.BeginMode3D(s.Camera)
	g := s.Def.Ground
	s.prims.Draw(primitives.Plane, [3]float32{}, [3]float32{g.Width, 1, g.Depth}, rgb(g.Color))
	if s.GridVisible {
		drawEditorGrid()
	}
	for _, b := range s.Def.Boxes {
		scale := [3]float32{b.Size, b.Size, b.Size}
		col := boxColor(b)
		if b.Textured {
			s.prims.DrawWithTexture(primitives.Cube, b.Position, scale, col, s.tex)
		} else {
			s.prims.Draw(primitives.Cube, b.Position, scale, col)
		}
	}
	p := s.Def.Pyramid
	s.material.SetLightDirection(p.Light)
	s.material.Draw(s.gpu, p.Position, p.DoubleSided)
	rl.EndMode3D()
}

// Unload releases every GPU resource the scene owns. The watcher belongs to the caller.
func (s *Scene) Unload() {
	if !s.loaded {
		return
	}
	s.material.Unload()
	s.gpu.Unload()
	s.prims.Unload()
	s.unloadTexture()
	s.material, s.gpu, s.prims = nil, nil, nil
	s.loaded = false
}

func (s *Scene) unloadTexture() {
	if rl.IsTextureValid(s.tex) {
		rl.UnloadTexture(s.tex)
	}
	s.tex = rl.Texture2D{}
}
