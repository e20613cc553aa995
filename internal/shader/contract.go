package shader

import (
	"embed"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// ErrInvalidContract is wrapped by every Validate failure.
var ErrInvalidContract = errors.New("shader: invalid contract")

// ErrUnknownShader is returned for a contract name that is not built in.
var ErrUnknownShader = errors.New("shader: unknown shader")

// Slot is a vertex attribute location. The values match the buffer layout raylib uploads
// meshes with, so sources bind attributes with layout(location = N).
type Slot int

const (
	SlotPosition Slot = 0
	SlotTexcoord Slot = 1
	SlotNormal   Slot = 2
)

// Role says which engine value feeds a uniform.
type Role int

const (
	RoleWorld Role = iota
	RoleView
	RoleProjection
	RoleInverseTranspose
	RoleTint
	RoleLightDirection
)

func (r Role) String() string {
	switch r {
	case RoleWorld:
		return "world"
	case RoleView:
		return "view"
	case RoleProjection:
		return "projection"
	case RoleInverseTranspose:
		return "inverseTranspose"
	case RoleTint:
		return "tint"
	case RoleLightDirection:
		return "lightDirection"
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

type Attribute struct {
	Name string
	Slot Slot
}

type Uniform struct {
	Name string
	Role Role
}

// Contract is a vertex/fragment program pair plus the interface it declares. The sources are
// opaque GLSL; only the declared names are checked against them.
type Contract struct {
	Name       string
	Vertex     string
	Fragment   string
	Attributes []Attribute
	Uniforms   []Uniform
	Samplers   []string
}

// HasAttribute reports whether the contract feeds the given vertex slot.
func (c *Contract) HasAttribute(s Slot) bool {
	return slices.ContainsFunc(c.Attributes, func(a Attribute) bool { return a.Slot == s })
}

// Uniform returns the uniform name bound to role, or "" when the contract does not use it.
func (c *Contract) Uniform(r Role) string {
	for _, u := range c.Uniforms {
		if u.Role == r {
			return u.Name
		}
	}
	return ""
}

var layoutRe = regexp.MustCompile(`layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*in\s+\w+\s+(\w+)\s*;`)

// Validate checks that both sources are present, that every declared name is unique and
// appears in the sources, and that attributes are bound to the location of their slot.
func (c *Contract) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidContract)
	}
	if c.Vertex == "" || c.Fragment == "" {
		return fmt.Errorf("%w: %s: vertex and fragment sources are required", ErrInvalidContract, c.Name)
	}
	seen := make(map[string]bool)
	unique := func(name string) error {
		if name == "" {
			return fmt.Errorf("%w: %s: empty identifier", ErrInvalidContract, c.Name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s: %q declared twice", ErrInvalidContract, c.Name, name)
		}
		seen[name] = true
		return nil
	}

	locations := make(map[string]int)
	for _, m := range layoutRe.FindAllStringSubmatch(c.Vertex, -1) {
		loc, _ := strconv.Atoi(m[1])
		locations[m[2]] = loc
	}
	for _, a := range c.Attributes {
		if err := unique(a.Name); err != nil {
			return err
		}
		loc, ok := locations[a.Name]
		if !ok {
			return fmt.Errorf("%w: %s: attribute %q has no layout(location) input in the vertex source", ErrInvalidContract, c.Name, a.Name)
		}
		if loc != int(a.Slot) {
			return fmt.Errorf("%w: %s: attribute %q at location %d, want %d", ErrInvalidContract, c.Name, a.Name, loc, a.Slot)
		}
	}
	roles := make(map[Role]bool)
	for _, u := range c.Uniforms {
		if err := unique(u.Name); err != nil {
			return err
		}
		if roles[u.Role] {
			return fmt.Errorf("%w: %s: role %s bound twice", ErrInvalidContract, c.Name, u.Role)
		}
		roles[u.Role] = true
		if !declares(c.Vertex, u.Name) && !declares(c.Fragment, u.Name) {
			return fmt.Errorf("%w: %s: uniform %q not declared in either source", ErrInvalidContract, c.Name, u.Name)
		}
	}
	for _, s := range c.Samplers {
		if err := unique(s); err != nil {
			return err
		}
		if !declares(c.Vertex, s) && !declares(c.Fragment, s) {
			return fmt.Errorf("%w: %s: sampler %q not declared in either source", ErrInvalidContract, c.Name, s)
		}
	}
	return nil
}

// declares reports whether src has a uniform declaration of name.
func declares(src, name string) bool {
	re := regexp.MustCompile(`uniform\s+\w+\s+` + regexp.QuoteMeta(name) + `\s*(\[\s*\d+\s*\])?\s*;`)
	return re.MatchString(src)
}

//go:embed shaders/*.vert shaders/*.frag
var builtinFS embed.FS

// interfaces lists what each built-in program declares; the sources live in shaders/.
var interfaces = map[string]Contract{
	"textured": {
		Attributes: []Attribute{{"position", SlotPosition}, {"uv", SlotTexcoord}},
		Uniforms: []Uniform{
			{"world", RoleWorld},
			{"view", RoleView},
			{"projection", RoleProjection},
			{"inverseTranspose", RoleInverseTranspose},
		},
		Samplers: []string{"mainTexture"},
	},
	"lit": {
		Attributes: []Attribute{{"position", SlotPosition}, {"uv", SlotTexcoord}, {"normal", SlotNormal}},
		Uniforms: []Uniform{
			{"world", RoleWorld},
			{"view", RoleView},
			{"projection", RoleProjection},
			{"inverseTranspose", RoleInverseTranspose},
			{"lightDirection", RoleLightDirection},
		},
		Samplers: []string{"mainTexture"},
	},
	"silhouette": {
		Attributes: []Attribute{{"position", SlotPosition}},
		Uniforms: []Uniform{
			{"world", RoleWorld},
			{"view", RoleView},
			{"projection", RoleProjection},
			{"tint", RoleTint},
		},
	},
}

// Names returns the built-in contract names in sorted order.
func Names() []string {
	names := make([]string, 0, len(interfaces))
	for n := range interfaces {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Builtin returns a copy of the named built-in contract with its embedded sources.
func Builtin(name string) (Contract, error) {
	iface, ok := interfaces[name]
	if !ok {
		return Contract{}, fmt.Errorf("%w: %q", ErrUnknownShader, name)
	}
	vs, err := builtinFS.ReadFile("shaders/" + name + ".vert")
	if err != nil {
		return Contract{}, fmt.Errorf("shader: %w", err)
	}
	fs, err := builtinFS.ReadFile("shaders/" + name + ".frag")
	if err != nil {
		return Contract{}, fmt.Errorf("shader: %w", err)
	}
	return Contract{
		Name:       name,
		Vertex:     string(vs),
		Fragment:   string(fs),
		Attributes: slices.Clone(iface.Attributes),
		Uniforms:   slices.Clone(iface.Uniforms),
		Samplers:   slices.Clone(iface.Samplers),
	}, nil
}
