package mesh

import (
	"fmt"

	"cogentcore.org/core/math32"
	fmath "github.com/chewxy/math32"
)

// Config selects how BuildPyramid lays out the buffers.
// Faceted duplicates corners per triangle so every face gets its own normal and UVs.
// Capped adds the two base triangles. WithUVs fills Mesh.UVs.
type Config struct {
	Faceted bool `yaml:"faceted" json:"faceted"`
	Capped  bool `yaml:"capped" json:"capped"`
	WithUVs bool `yaml:"uvs" json:"uvs"`
}

// FullConfig is the textured, lit pyramid: base plus four sides, 18 unshared corners.
func FullConfig() Config {
	return Config{Faceted: true, Capped: true, WithUVs: true}
}

// MinimalConfig is the capless silhouette: 5 shared positions, 4 side triangles, no UVs or normals.
func MinimalConfig() Config {
	return Config{}
}

// Corner indices into the ring A, C, D, B (counter-clockwise seen from above).
// Side i is (ring[i], ring[i+1], apex) which points outward.
const (
	cornerA = iota // (0, 0, 0)
	cornerC        // (0, 0, w)
	cornerD        // (w, 0, w)
	cornerB        // (w, 0, 0)
	apex
)

// baseTris are the two cap triangles, wound so their normal points down (-Y).
var baseTris = [2][3]int{
	{cornerA, cornerB, cornerC},
	{cornerD, cornerC, cornerB},
}

// sideUVs is the same triangular half of the texture for each side: base edge along v=0, apex at top centre.
var sideUVs = [3][2]float32{{0, 0}, {1, 0}, {0.5, 1}}

// BuildPyramid generates a square-based pyramid with its base on the XZ plane covering
// [0,width]x[0,width] and its apex at (width/2, height, width/2).
// It returns an error wrapping ErrInvalidArgument when width or height is not a finite
// positive number; no buffers are returned in that case.
func BuildPyramid(width, height float32, cfg Config) (*Mesh, error) {
	if !validDimension(width) {
		return nil, fmt.Errorf("%w: width %v must be a finite positive number", ErrInvalidArgument, width)
	}
	if !validDimension(height) {
		return nil, fmt.Errorf("%w: height %v must be a finite positive number", ErrInvalidArgument, height)
	}
	points := corners(width, height)
	var m *Mesh
	if cfg.Faceted {
		m = buildFaceted(points, width, cfg)
	} else {
		m = buildShared(points, width, cfg)
	}
	if err := m.Validate(cfg.Faceted); err != nil {
		return nil, err
	}
	if cfg.Faceted {
		if t := m.zeroNormal(); t >= 0 {
			return nil, fmt.Errorf("%w: width %v height %v collapse triangle %d", ErrInvalidArgument, width, height, t)
		}
	}
	return m, nil
}

func validDimension(v float32) bool {
	return v > 0 && !fmath.IsInf(v, 1)
}

// corners returns the 4 base corners in ring order followed by the apex.
func corners(w, h float32) [5]math32.Vector3 {
	return [5]math32.Vector3{
		cornerA: math32.Vec3(0, 0, 0),
		cornerC: math32.Vec3(0, 0, w),
		cornerD: math32.Vec3(w, 0, w),
		cornerB: math32.Vec3(w, 0, 0),
		apex:    math32.Vec3(w/2, h, w/2),
	}
}

// planarUV projects a point straight down onto the unit square of the base.
func planarUV(p math32.Vector3, w float32) [2]float32 {
	return [2]float32{p.X / w, p.Z / w}
}

func buildFaceted(points [5]math32.Vector3, w float32, cfg Config) *Mesh {
	ntri := 4
	if cfg.Capped {
		ntri += 2
	}
	m := &Mesh{
		Positions: make([]float32, 0, ntri*9),
		Indices:   make([]uint32, 0, ntri*3),
	}
	if cfg.WithUVs {
		m.UVs = make([]float32, 0, ntri*6)
	}
	emit := func(p math32.Vector3, uv [2]float32) {
		m.Indices = append(m.Indices, uint32(len(m.Positions)/3))
		m.Positions = append(m.Positions, p.X, p.Y, p.Z)
		if cfg.WithUVs {
			m.UVs = append(m.UVs, uv[0], uv[1])
		}
	}
	if cfg.Capped {
		for _, tri := range baseTris {
			for _, c := range tri {
				emit(points[c], planarUV(points[c], w))
			}
		}
	}
	for i := 0; i < 4; i++ {
		emit(points[i], sideUVs[0])
		emit(points[(i+1)%4], sideUVs[1])
		emit(points[apex], sideUVs[2])
	}
	// Corners are never shared here, so flat normals cannot fail on index range.
	m.Normals, _ = ComputeFlatNormals(m.Positions, m.Indices)
	return m
}

func buildShared(points [5]math32.Vector3, w float32, cfg Config) *Mesh {
	m := &Mesh{Positions: make([]float32, 0, len(points)*3)}
	for _, p := range points {
		m.Positions = append(m.Positions, p.X, p.Y, p.Z)
	}
	if cfg.WithUVs {
		m.UVs = make([]float32, 0, len(points)*2)
		for _, p := range points[:apex] {
			uv := planarUV(p, w)
			m.UVs = append(m.UVs, uv[0], uv[1])
		}
		m.UVs = append(m.UVs, 0.5, 0.5)
	}
	for i := 0; i < 4; i++ {
		m.Indices = append(m.Indices, uint32(i), uint32((i+1)%4), apex)
	}
	if cfg.Capped {
		for _, tri := range baseTris {
			m.Indices = append(m.Indices, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
		}
	}
	return m
}
