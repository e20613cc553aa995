package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	vertexExt   = ".vert"
	fragmentExt = ".frag"
)

// Loader resolves contracts by name. When Dir is set, <Dir>/<name>.vert and <name>.frag
// replace the built-in sources (either may be missing); the declared interface always
// comes from the built-in, so an edited source is validated against the same contract.
type Loader struct {
	Dir string
}

// Load returns the validated contract for name.
func (l Loader) Load(name string) (Contract, error) {
	c, err := Builtin(name)
	if err != nil {
		return Contract{}, err
	}
	if l.Dir != "" {
		if src, ok, err := readOptional(filepath.Join(l.Dir, name+vertexExt)); err != nil {
			return Contract{}, err
		} else if ok {
			c.Vertex = src
		}
		if src, ok, err := readOptional(filepath.Join(l.Dir, name+fragmentExt)); err != nil {
			return Contract{}, err
		} else if ok {
			c.Fragment = src
		}
	}
	if err := c.Validate(); err != nil {
		return Contract{}, err
	}
	return c, nil
}

// Export writes the built-in sources of every contract into dir so they can be edited
// and hot reloaded. Existing files are left alone.
func Export(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("shader: %w", err)
	}
	for _, name := range Names() {
		c, err := Builtin(name)
		if err != nil {
			return err
		}
		for ext, src := range map[string]string{vertexExt: c.Vertex, fragmentExt: c.Fragment} {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				continue
			}
			if err := os.WriteFile(path, []byte(src), 0644); err != nil {
				return fmt.Errorf("shader: %w", err)
			}
		}
	}
	return nil
}

// nameFromPath maps a shader source path back to its contract name.
func nameFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != vertexExt && ext != fragmentExt {
		return "", false
	}
	name := strings.TrimSuffix(base, ext)
	if _, ok := interfaces[name]; !ok {
		return "", false
	}
	return name, true
}

func readOptional(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("shader: %w", err)
	}
	return string(data), true, nil
}
