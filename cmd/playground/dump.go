package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"shader-playground/internal/mesh"
)

type dumpOptions struct {
	width, height float64
	policy        string
	capped        bool
	uvs           bool
	format        string
	// set holds the flags given explicitly; unset -capped and -uvs follow the policy.
	set map[string]bool
}

// dumpDocument is what dump prints: the inputs next to the generated buffers.
type dumpDocument struct {
	Width     float32     `yaml:"width" json:"width"`
	Height    float32     `yaml:"height" json:"height"`
	Config    mesh.Config `yaml:"config" json:"config"`
	Vertices  int         `yaml:"vertices" json:"vertices"`
	Triangles int         `yaml:"triangles" json:"triangles"`
	Mesh      *mesh.Mesh  `yaml:"mesh" json:"mesh"`
}

func runDump(w io.Writer, o dumpOptions) error {
	var cfg mesh.Config
	switch o.policy {
	case "full":
		cfg = mesh.FullConfig()
	case "minimal":
		cfg = mesh.MinimalConfig()
	default:
		return fmt.Errorf("dump: unknown policy %q (want full or minimal)", o.policy)
	}
	if o.set["capped"] {
		cfg.Capped = o.capped
	}
	if o.set["uvs"] {
		cfg.WithUVs = o.uvs
	}

	m, err := mesh.BuildPyramid(float32(o.width), float32(o.height), cfg)
	if err != nil {
		return err
	}
	doc := dumpDocument{
		Width:     float32(o.width),
		Height:    float32(o.height),
		Config:    cfg,
		Vertices:  m.VertexCount(),
		Triangles: m.TriangleCount(),
		Mesh:      m,
	}
	switch o.format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("dump: unknown format %q (want yaml or json)", o.format)
	}
}
