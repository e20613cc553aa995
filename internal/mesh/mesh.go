package mesh

import (
	"errors"
	"fmt"
	"math"

	"cogentcore.org/core/math32"
)

var (
	// ErrInvalidArgument is returned for non-positive or non-finite dimensions.
	ErrInvalidArgument = errors.New("mesh: invalid argument")
	// ErrInconsistentBufferLength is returned when positions, UVs, normals and indices disagree.
	ErrInconsistentBufferLength = errors.New("mesh: inconsistent buffer length")
	// ErrIndexOverflow is returned by Indices16 for meshes too large for 16-bit indices.
	ErrIndexOverflow = errors.New("mesh: index overflow")
)

// Mesh is a flat-packed triangle list ready to hand to a renderer.
// Positions and Normals hold 3 floats per vertex, UVs 2 floats per vertex, and Indices
// name vertices in triples with counter-clockwise winding seen from outside.
// UVs and Normals are nil when not generated.
type Mesh struct {
	Positions []float32 `yaml:"positions" json:"positions"`
	Indices   []uint32  `yaml:"indices" json:"indices"`
	UVs       []float32 `yaml:"uvs,omitempty" json:"uvs,omitempty"`
	Normals   []float32 `yaml:"normals,omitempty" json:"normals,omitempty"`
}

// VertexCount returns the number of vertex entries in Positions.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of index triples.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) math32.Vector3 {
	return math32.Vec3(m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2])
}

// Normal returns the normal of vertex i. Normals must be present.
func (m *Mesh) Normal(i int) math32.Vector3 {
	return math32.Vec3(m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2])
}

// Triangle returns the three corner positions of triangle t in winding order.
func (m *Mesh) Triangle(t int) math32.Triangle {
	return math32.NewTriangle(
		m.Vertex(int(m.Indices[3*t])),
		m.Vertex(int(m.Indices[3*t+1])),
		m.Vertex(int(m.Indices[3*t+2])),
	)
}

// Validate checks the buffer invariants. Every index must reference an existing vertex,
// UVs and Normals (when present) must have one entry per vertex, and in faceted mode the
// vertex count must be a multiple of 3 with normals present.
func (m *Mesh) Validate(faceted bool) error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrInconsistentBufferLength, len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInconsistentBufferLength, len(m.Indices))
	}
	n := m.VertexCount()
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range for %d vertices", ErrInconsistentBufferLength, idx, i, n)
		}
	}
	if m.UVs != nil && len(m.UVs) != 2*n {
		return fmt.Errorf("%w: %d uv floats for %d vertices", ErrInconsistentBufferLength, len(m.UVs), n)
	}
	if m.Normals != nil && len(m.Normals) != 3*n {
		return fmt.Errorf("%w: %d normal floats for %d vertices", ErrInconsistentBufferLength, len(m.Normals), n)
	}
	if faceted {
		if n%3 != 0 {
			return fmt.Errorf("%w: faceted mesh has %d vertices", ErrInconsistentBufferLength, n)
		}
		if m.Normals == nil {
			return fmt.Errorf("%w: faceted mesh has no normals", ErrInconsistentBufferLength)
		}
	}
	return nil
}

// Indices16 narrows Indices for renderers with 16-bit index buffers.
func (m *Mesh) Indices16() ([]uint16, error) {
	out := make([]uint16, len(m.Indices))
	for i, idx := range m.Indices {
		if idx > math.MaxUint16 {
			return nil, fmt.Errorf("%w: index %d at %d", ErrIndexOverflow, idx, i)
		}
		out[i] = uint16(idx)
	}
	return out, nil
}

// ComputeFlatNormals returns one normal per vertex: each triangle's unit face normal,
// normalize((v1-v0) x (v2-v0)), written to all three of its corners. A vertex shared by
// several triangles keeps the normal of the last one; degenerate triangles give zero.
func ComputeFlatNormals(positions []float32, indices []uint32) ([]float32, error) {
	if len(positions)%3 != 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d positions, %d indices", ErrInconsistentBufferLength, len(positions), len(indices))
	}
	n := len(positions) / 3
	vertex := func(i uint32) math32.Vector3 {
		return math32.Vec3(positions[3*i], positions[3*i+1], positions[3*i+2])
	}
	normals := make([]float32, len(positions))
	for t := 0; t < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			return nil, fmt.Errorf("%w: triangle %d references vertex beyond %d", ErrInconsistentBufferLength, t/3, n)
		}
		v0 := vertex(i0)
		face := faceNormal(v0, vertex(i1), vertex(i2))
		for _, i := range [3]uint32{i0, i1, i2} {
			normals[3*i] = face.X
			normals[3*i+1] = face.Y
			normals[3*i+2] = face.Z
		}
	}
	return normals, nil
}

// faceNormal works in float64 on edges scaled by their largest component, so neither
// very large nor very small triangles overflow or underflow before normalizing.
func faceNormal(v0, v1, v2 math32.Vector3) math32.Vector3 {
	e1 := [3]float64{float64(v1.X) - float64(v0.X), float64(v1.Y) - float64(v0.Y), float64(v1.Z) - float64(v0.Z)}
	e2 := [3]float64{float64(v2.X) - float64(v0.X), float64(v2.Y) - float64(v0.Y), float64(v2.Z) - float64(v0.Z)}
	scale := 0.0
	for i := range 3 {
		scale = max(scale, math.Abs(e1[i]), math.Abs(e2[i]))
	}
	if scale == 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return math32.Vector3{}
	}
	for i := range 3 {
		e1[i] /= scale
		e2[i] /= scale
	}
	nx := e1[1]*e2[2] - e1[2]*e2[1]
	ny := e1[2]*e2[0] - e1[0]*e2[2]
	nz := e1[0]*e2[1] - e1[1]*e2[0]
	l := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if l == 0 {
		return math32.Vector3{}
	}
	return math32.Vec3(float32(nx/l), float32(ny/l), float32(nz/l))
}

// zeroNormal returns the first triangle whose normal is the zero vector, or -1.
func (m *Mesh) zeroNormal() int {
	for t := 0; t < m.TriangleCount(); t++ {
		if m.Normal(int(m.Indices[3*t])) == (math32.Vector3{}) {
			return t
		}
	}
	return -1
}
