package primitives

import (
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"shader-playground/internal/mesh"
)

// Buffers is a mesh laid out the way raylib uploads it. The slices back the GPU mesh's CPU
// pointers, so they must outlive the uploaded rl.Mesh.
type Buffers struct {
	Vertices  []float32
	Texcoords []float32
	Normals   []float32
	Indices   []uint16
}

// NewBuffers validates m and narrows its indices to uint16. Buffers share no memory with m.
func NewBuffers(m *mesh.Mesh) (Buffers, error) {
	if err := m.Validate(false); err != nil {
		return Buffers{}, err
	}
	indices, err := m.Indices16()
	if err != nil {
		return Buffers{}, err
	}
	b := Buffers{
		Vertices: append([]float32(nil), m.Positions...),
		Indices:  indices,
	}
	if m.UVs != nil {
		b.Texcoords = append([]float32(nil), m.UVs...)
	}
	if m.Normals != nil {
		b.Normals = append([]float32(nil), m.Normals...)
	}
	return b, nil
}

// Mesh describes the buffers as an rl.Mesh without uploading it.
func (b *Buffers) Mesh() rl.Mesh {
	m := rl.Mesh{
		VertexCount:   int32(len(b.Vertices) / 3),
		TriangleCount: int32(len(b.Indices) / 3),
		Vertices:      unsafe.SliceData(b.Vertices),
		Indices:       unsafe.SliceData(b.Indices),
	}
	if len(b.Texcoords) > 0 {
		m.Texcoords = unsafe.SliceData(b.Texcoords)
	}
	if len(b.Normals) > 0 {
		m.Normals = unsafe.SliceData(b.Normals)
	}
	return m
}

// GPUMesh is an uploaded mesh together with the Go memory its CPU pointers refer to.
type GPUMesh struct {
	Mesh rl.Mesh
	buf  Buffers
}

// Upload sends m to the GPU. Must be called after the window/OpenGL context exists.
func Upload(m *mesh.Mesh) (*GPUMesh, error) {
	b, err := NewBuffers(m)
	if err != nil {
		return nil, err
	}
	g := &GPUMesh{buf: b}
	g.Mesh = g.buf.Mesh()
	rl.UploadMesh(&g.Mesh, false)
	if g.Mesh.VaoID == 0 && g.Mesh.VboID == nil {
		return nil, fmt.Errorf("primitives: upload failed")
	}
	return g, nil
}

// Unload releases the GPU buffers. raylib tracks meshes created by UploadMesh and only frees
// their GPU side, so the Go slices are left to the garbage collector.
func (g *GPUMesh) Unload() {
	if g == nil || g.Mesh.VaoID == 0 {
		return
	}
	rl.UnloadMesh(&g.Mesh)
	g.Mesh = rl.Mesh{}
	g.buf = Buffers{}
}
