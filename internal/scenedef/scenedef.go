package scenedef

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"shader-playground/internal/mesh"
)

var (
	ErrInvalidScene = errors.New("scenedef: invalid scene")
	ErrUnknownScene = errors.New("scenedef: unknown scene")
)

// Scene is the declarative description of one playground variant: an arc-rotate camera,
// a ground plane, unlit reference boxes, an optional shared texture and the pyramid drawn
// with a custom shader contract.
type Scene struct {
	Name       string     `yaml:"name"`
	Background [3]float32 `yaml:"background"`
	Camera     Camera     `yaml:"camera"`
	Ground     Ground     `yaml:"ground"`
	Texture    *Texture   `yaml:"texture,omitempty"`
	Boxes      []Box      `yaml:"boxes,omitempty"`
	Pyramid    Pyramid    `yaml:"pyramid"`
}

// Camera is an arc-rotate camera: Alpha is the longitude and Beta the polar angle of the
// eye around Target, both in radians, at distance Radius.
type Camera struct {
	Alpha  float32    `yaml:"alpha"`
	Beta   float32    `yaml:"beta"`
	Radius float32    `yaml:"radius"`
	Target [3]float32 `yaml:"target"`
	Fovy   float32    `yaml:"fovy"`
}

// Ground is an unlit plane centred on the origin at Y=0.
type Ground struct {
	Width float32    `yaml:"width"`
	Depth float32    `yaml:"depth"`
	Color [3]float32 `yaml:"color"`
}

// Texture is loaded once and shared by textured boxes and the pyramid's samplers.
// Source is an http(s) URL or a file path.
type Texture struct {
	Source  string `yaml:"source"`
	FlipY   bool   `yaml:"flip_y"`
	MaxSize int    `yaml:"max_size,omitempty"`
}

// Box is an unlit reference cube centred on Position.
type Box struct {
	Name     string     `yaml:"name"`
	Size     float32    `yaml:"size"`
	Position [3]float32 `yaml:"position"`
	Textured bool       `yaml:"textured,omitempty"`
	Color    [3]float32 `yaml:"color"`
}

// Pyramid places the generated mesh. Position is a translation of the mesh origin (the
// base corner at 0,0,0); the mesh is never rotated or scaled.
type Pyramid struct {
	Width       float32    `yaml:"width"`
	Height      float32    `yaml:"height"`
	Faceted     bool       `yaml:"faceted"`
	Capped      bool       `yaml:"capped"`
	UVs         bool       `yaml:"uvs"`
	Position    [3]float32 `yaml:"position"`
	Shader      string     `yaml:"shader"`
	DoubleSided bool       `yaml:"double_sided,omitempty"`
	Tint        [4]float32 `yaml:"tint,omitempty"`
	Light       [3]float32 `yaml:"light,omitempty"`
}

// MeshConfig returns the builder configuration for the pyramid.
func (p Pyramid) MeshConfig() mesh.Config {
	return mesh.Config{Faceted: p.Faceted, Capped: p.Capped, WithUVs: p.UVs}
}

// Validate checks the values the assembler relies on. Pyramid dimensions are left to the
// mesh builder, which reports them with mesh.ErrInvalidArgument.
func (s *Scene) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidScene)
	}
	if s.Camera.Radius <= 0 {
		return fmt.Errorf("%w: %s: camera radius must be positive", ErrInvalidScene, s.Name)
	}
	if s.Camera.Fovy <= 0 || s.Camera.Fovy >= 180 {
		return fmt.Errorf("%w: %s: camera fovy %v out of range", ErrInvalidScene, s.Name, s.Camera.Fovy)
	}
	if s.Ground.Width <= 0 || s.Ground.Depth <= 0 {
		return fmt.Errorf("%w: %s: ground must have a positive size", ErrInvalidScene, s.Name)
	}
	for _, b := range s.Boxes {
		if b.Size <= 0 {
			return fmt.Errorf("%w: %s: box %q must have a positive size", ErrInvalidScene, s.Name, b.Name)
		}
		if b.Textured && s.Texture == nil {
			return fmt.Errorf("%w: %s: box %q is textured but the scene has no texture", ErrInvalidScene, s.Name, b.Name)
		}
	}
	if s.Texture != nil && s.Texture.Source == "" {
		return fmt.Errorf("%w: %s: texture source is empty", ErrInvalidScene, s.Name)
	}
	if s.Pyramid.Shader == "" {
		return fmt.Errorf("%w: %s: pyramid shader is required", ErrInvalidScene, s.Name)
	}
	return nil
}

// Clone returns a deep copy so overrides never leak into a shared definition.
func (s *Scene) Clone() (*Scene, error) {
	out := new(Scene)
	if err := copier.CopyWithOption(out, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("scenedef: clone: %w", err)
	}
	return out, nil
}

// Parse decodes a YAML scene and validates it. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a YAML scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenedef: %w", err)
	}
	return Parse(data)
}

// Marshal encodes s as YAML.
func Marshal(s *Scene) ([]byte, error) {
	return yaml.Marshal(s)
}

//go:embed scenes/*.yaml
var builtinFS embed.FS

// Names returns the built-in scene names in sorted order.
func Names() []string {
	entries, _ := fs.ReadDir(builtinFS, "scenes")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// Builtin returns a fresh copy of the named built-in scene.
func Builtin(name string) (*Scene, error) {
	data, err := builtinFS.ReadFile("scenes/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return Parse(data)
}
