package mesh

import (
	"errors"
	"math"
	"sync"
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	fmath "github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func centroid(width, height float32) math32.Vector3 {
	return math32.Vec3(width/2, height/5, width/2)
}

func TestBuildPyramidFullExample(t *testing.T) {
	m, err := BuildPyramid(2, 2, FullConfig())
	require.NoError(t, err)

	assert.Equal(t, 18, m.VertexCount())
	assert.Equal(t, 6, m.TriangleCount())
	assert.Len(t, m.Positions, 18*3)
	assert.Len(t, m.UVs, 18*2)
	assert.Len(t, m.Normals, 18*3)

	want := map[math32.Vector3]bool{
		math32.Vec3(0, 0, 0): true,
		math32.Vec3(2, 0, 0): true,
		math32.Vec3(0, 0, 2): true,
		math32.Vec3(2, 0, 2): true,
		math32.Vec3(1, 2, 1): true,
	}
	for i := 0; i < m.VertexCount(); i++ {
		assert.True(t, want[m.Vertex(i)], "unexpected corner %v", m.Vertex(i))
	}
	for i, idx := range m.Indices {
		assert.Equal(t, uint32(i), idx)
	}
}

func TestBuildPyramidFacetedNormals(t *testing.T) {
	sizes := [][2]float32{{2, 2}, {1, 0.25}, {0.01, 40}, {300, 7}, {1e10, 1}, {1e-12, 1}, {3e-13, 3e-13}}
	for _, sz := range sizes {
		for _, capped := range []bool{true, false} {
			cfg := Config{Faceted: true, Capped: capped, WithUVs: true}
			m, err := BuildPyramid(sz[0], sz[1], cfg)
			require.NoError(t, err)
			require.NoError(t, m.Validate(true))

			assert.Zero(t, m.VertexCount()%3)
			assert.Zero(t, len(m.Indices)%3)
			assert.Equal(t, m.VertexCount(), len(m.UVs)/2)
			assert.Equal(t, m.VertexCount(), len(m.Normals)/3)

			ctr := centroid(sz[0], sz[1])
			for tri := 0; tri < m.TriangleCount(); tri++ {
				var face math32.Vector3
				for k := 0; k < 3; k++ {
					vi := int(m.Indices[3*tri+k])
					n := m.Normal(vi)
					tolassert.EqualTol(t, 1, n.Length(), tol)
					assert.Greater(t, n.Dot(m.Vertex(vi).Sub(ctr)), float32(0), "inward normal on triangle %d of %v", tri, sz)
					if k == 0 {
						face = n
					} else {
						assert.Equal(t, face, n, "faceted normals must be uniform across a face")
					}
				}
				assert.Greater(t, area64(m, tri), 0.0, "triangle %d of %v", tri, sz)
			}
		}
	}
}

// area64 is the triangle area in float64, which stays positive where float32 underflows.
func area64(m *Mesh, tri int) float64 {
	var e [2][3]float64
	v0 := m.Vertex(int(m.Indices[3*tri]))
	for k := 1; k <= 2; k++ {
		v := m.Vertex(int(m.Indices[3*tri+k]))
		e[k-1] = [3]float64{float64(v.X) - float64(v0.X), float64(v.Y) - float64(v0.Y), float64(v.Z) - float64(v0.Z)}
	}
	nx := e[0][1]*e[1][2] - e[0][2]*e[1][1]
	ny := e[0][2]*e[1][0] - e[0][0]*e[1][2]
	nz := e[0][0]*e[1][1] - e[0][1]*e[1][0]
	return math.Sqrt(nx*nx+ny*ny+nz*nz) / 2
}

func TestBuildPyramidFacetedUncapped(t *testing.T) {
	m, err := BuildPyramid(3, 1, Config{Faceted: true})
	require.NoError(t, err)
	assert.Equal(t, 4, m.TriangleCount())
	assert.Equal(t, 12, m.VertexCount())
	assert.Nil(t, m.UVs)
	for i := 0; i < m.VertexCount(); i++ {
		assert.Greater(t, m.Normal(i).Y, float32(0), "side faces lean upward")
	}
}

func TestBuildPyramidUVs(t *testing.T) {
	m, err := BuildPyramid(2, 2, FullConfig())
	require.NoError(t, err)
	for i := 0; i < len(m.UVs); i++ {
		assert.GreaterOrEqual(t, m.UVs[i], float32(0))
		assert.LessOrEqual(t, m.UVs[i], float32(1))
	}
	// base corners map onto the unit square by x/w, z/w
	for i := 0; i < 6; i++ {
		v := m.Vertex(i)
		assert.Equal(t, v.X/2, m.UVs[2*i])
		assert.Equal(t, v.Z/2, m.UVs[2*i+1])
	}
	// every side triangle ends at the apex with (0.5, 1)
	for tri := 2; tri < 6; tri++ {
		last := 3*tri + 2
		assert.Equal(t, math32.Vec3(1, 2, 1), m.Vertex(last))
		assert.Equal(t, []float32{0.5, 1}, m.UVs[2*last:2*last+2])
	}
}

func TestBuildPyramidMinimal(t *testing.T) {
	m, err := BuildPyramid(2, 2, MinimalConfig())
	require.NoError(t, err)
	assert.Len(t, m.Indices, 12)
	assert.Equal(t, 4, m.TriangleCount())
	assert.Equal(t, 5, m.VertexCount())
	assert.Nil(t, m.UVs)
	assert.Nil(t, m.Normals)

	distinct := map[uint32]bool{}
	for _, idx := range m.Indices {
		distinct[idx] = true
	}
	assert.Len(t, distinct, 5)

	// The 5-entry index list [0,1,2,3,4] of the old demo is not a triangle list; the
	// corrected layout must always come in triples.
	assert.NotEqual(t, []uint32{0, 1, 2, 3, 4}, m.Indices)
	assert.Zero(t, len(m.Indices)%3)

	ctr := centroid(2, 2)
	for tri := 0; tri < m.TriangleCount(); tri++ {
		tr := m.Triangle(tri)
		n := tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A))
		assert.Greater(t, n.Dot(tr.Midpoint().Sub(ctr)), float32(0), "triangle %d wound inward", tri)
	}
}

func TestBuildPyramidMinimalCapped(t *testing.T) {
	m, err := BuildPyramid(2, 1, Config{Capped: true, WithUVs: true})
	require.NoError(t, err)
	assert.Equal(t, 6, m.TriangleCount())
	assert.Equal(t, 5, m.VertexCount())
	assert.Len(t, m.UVs, 10)
	assert.Equal(t, []float32{0.5, 0.5}, m.UVs[8:])

	for tri := 4; tri < 6; tri++ {
		tr := m.Triangle(tri)
		tolassert.EqualTol(t, -1, tr.Normal().Y, tol)
	}
}

func TestBuildPyramidInvalid(t *testing.T) {
	nan := fmath.NaN()
	inf := float32(math.Inf(1))
	cases := []struct {
		name          string
		width, height float32
	}{
		{"zero width", 0, 1},
		{"zero height", 1, 0},
		{"negative width", -2, 2},
		{"negative height", 2, -0.5},
		{"nan width", nan, 1},
		{"inf height", 1, inf},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, cfg := range []Config{FullConfig(), MinimalConfig()} {
				m, err := BuildPyramid(tc.width, tc.height, cfg)
				assert.Nil(t, m)
				assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
			}
		})
	}
}

func TestBuildPyramidDeterministic(t *testing.T) {
	cfgs := []Config{FullConfig(), MinimalConfig(), {Faceted: true}, {Capped: true, WithUVs: true}}
	for _, cfg := range cfgs {
		a, err := BuildPyramid(1.5, 2.25, cfg)
		require.NoError(t, err)
		b, err := BuildPyramid(1.5, 2.25, cfg)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestBuildPyramidConcurrent(t *testing.T) {
	want, err := BuildPyramid(4, 3, FullConfig())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Mesh, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = BuildPyramid(4, 3, FullConfig())
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
