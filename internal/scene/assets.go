package scene

import (
	"context"
	"errors"
	"fmt"
	"image"

	rl "github.com/gen2brain/raylib-go/raylib"

	"shader-playground/internal/mesh"
	"shader-playground/internal/scenedef"
	"shader-playground/internal/shader"
	"shader-playground/internal/texture"
)

// ErrIncompatibleShader is returned when a contract reads a vertex attribute the mesh
// was built without.
var ErrIncompatibleShader = errors.New("scene: shader needs attributes the mesh lacks")

func checkCompatible(c shader.Contract, m *mesh.Mesh) error {
	if c.HasAttribute(shader.SlotTexcoord) && m.UVs == nil {
		return fmt.Errorf("%w: %s reads texcoords", ErrIncompatibleShader, c.Name)
	}
	if c.HasAttribute(shader.SlotNormal) && m.Normals == nil {
		return fmt.Errorf("%w: %s reads normals", ErrIncompatibleShader, c.Name)
	}
	return nil
}

// resolveImage fetches and decodes the configured texture. A nil t yields an error so the
// caller falls back to the checkerboard.
func resolveImage(ctx context.Context, t *scenedef.Texture, cacheDir string) (image.Image, error) {
	if t == nil || t.Source == "" {
		return nil, errors.New("scene: no texture configured")
	}
	path, err := texture.Fetch(ctx, t.Source, cacheDir)
	if err != nil {
		return nil, err
	}
	return texture.Decode(path, texture.Options{FlipY: t.FlipY, MaxSize: t.MaxSize})
}

func fallbackImage() image.Image {
	return texture.Checker(checkerSize, checkerCells)
}

// rgb converts a normalized colour to an opaque rl.Color.
func rgb(c [3]float32) rl.Color {
	return rl.NewColor(channel(c[0]), channel(c[1]), channel(c[2]), 255)
}

// tint converts the pyramid tint. The zero value means untinted white.
func tint(c [4]float32) rl.Color {
	if c == [4]float32{} {
		return rl.White
	}
	return rl.NewColor(channel(c[0]), channel(c[1]), channel(c[2]), channel(c[3]))
}

// boxColor is the box colour, with textured boxes defaulting to white so the texture shows
// unmodulated.
func boxColor(b scenedef.Box) rl.Color {
	if b.Textured && b.Color == [3]float32{} {
		return rl.White
	}
	return rgb(b.Color)
}

func channel(v float32) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5)
}
