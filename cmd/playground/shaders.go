package main

import (
	"fmt"
	"io"
	"strings"

	"shader-playground/internal/shader"
)

type shadersOptions struct {
	dir    string
	export string
}

// runShaders validates every built-in contract, with sources taken from o.dir when set, and
// prints each contract's interface. The first invalid contract fails the command after all
// have been listed.
func runShaders(w io.Writer, o shadersOptions) error {
	if o.export != "" {
		if err := shader.Export(o.export); err != nil {
			return err
		}
		fmt.Fprintf(w, "exported built-in shaders to %s\n", o.export)
	}
	loader := shader.Loader{Dir: o.dir}
	var firstErr error
	for _, name := range shader.Names() {
		c, err := loader.Load(name)
		if err != nil {
			fmt.Fprintf(w, "%-12s FAIL %v\n", name, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(w, "%-12s ok   %s\n", name, describe(c))
	}
	return firstErr
}

func describe(c shader.Contract) string {
	var parts []string
	for _, a := range c.Attributes {
		parts = append(parts, fmt.Sprintf("in %s@%d", a.Name, a.Slot))
	}
	for _, u := range c.Uniforms {
		parts = append(parts, fmt.Sprintf("uniform %s(%s)", u.Name, u.Role))
	}
	for _, s := range c.Samplers {
		parts = append(parts, "sampler "+s)
	}
	return strings.Join(parts, ", ")
}
