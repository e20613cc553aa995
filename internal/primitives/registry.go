package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Reference primitive kinds.
const (
	Cube  = "cube"
	Plane = "plane"
)

// cached holds the unit mesh for a primitive kind. Created lazily on first Draw.
type cached struct {
	mesh rl.Mesh
}

// Registry maps reference primitive kinds to unit meshes drawn with raylib's default,
// unlit material: colour times texture, no lighting. Meshes are created on first use so
// that GPU resources are allocated after the window/OpenGL context exists.
type Registry struct {
	cache map[string]cached
	mtl   rl.Material
	white rl.Texture2D // the default material's own 1x1 texture
	ready bool
}

// NewRegistry returns a registry with no primitives.
func NewRegistry() *Registry {
	return &Registry{cache: make(map[string]cached)}
}

func (r *Registry) ensureMaterial() {
	if r.ready {
		return
	}
	r.mtl = rl.LoadMaterialDefault()
	r.white = r.mtl.GetMap(rl.MapAlbedo).Texture
	r.ready = true
}

// ensure creates the unit mesh for kind if not yet cached. Unknown kinds report false.
func (r *Registry) ensure(kind string) (rl.Mesh, bool) {
	if c, ok := r.cache[kind]; ok {
		return c.mesh, true
	}
	var m rl.Mesh
	switch kind {
	case Cube:
		m = rl.GenMeshCube(1, 1, 1)
	case Plane:
		// raylib planes are centred on the origin in XZ, facing +Y.
		m = rl.GenMeshPlane(1, 1, 1, 1)
	default:
		return rl.Mesh{}, false
	}
	r.cache[kind] = cached{mesh: m}
	return m, true
}

// Draw draws one unlit instance of kind centred at position with scale and colour.
// Must be called between BeginMode3D and EndMode3D. Unknown kinds are skipped.
func (r *Registry) Draw(kind string, position, scale [3]float32, col rl.Color) {
	r.draw(kind, position, scale, col, rl.Texture2D{})
}

// DrawWithTexture is Draw with tex as the albedo map. An invalid texture falls back to Draw.
func (r *Registry) DrawWithTexture(kind string, position, scale [3]float32, col rl.Color, tex rl.Texture2D) {
	r.draw(kind, position, scale, col, tex)
}

func (r *Registry) draw(kind string, position, scale [3]float32, col rl.Color, tex rl.Texture2D) {
	m, ok := r.ensure(kind)
	if !ok {
		return
	}
	r.ensureMaterial()
	albedo := r.mtl.GetMap(rl.MapAlbedo)
	albedo.Color = col
	if rl.IsTextureValid(tex) {
		albedo.Texture = tex
	} else {
		albedo.Texture = r.white
	}
	rl.DrawMesh(m, r.mtl, Transform(position, scale))
}

// Transform scales a unit primitive then moves it to position. A zero scale component means 1.
func Transform(position, scale [3]float32) rl.Matrix {
	for i := range scale {
		if scale[i] == 0 {
			scale[i] = 1
		}
	}
	scaleM := rl.MatrixScale(scale[0], scale[1], scale[2])
	transM := rl.MatrixTranslate(position[0], position[1], position[2])
	return rl.MatrixMultiply(scaleM, transM)
}

// Unload frees the cached meshes. The default material's shader and texture belong to raylib.
func (r *Registry) Unload() {
	for k, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, k)
	}
}
