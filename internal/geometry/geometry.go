package geometry

import (
	"gopkg.in/yaml.v3"
)

// Geometry is a window's size and screen position. Nil fields are absent and
// leave the choice to the windowing subsystem.
type Geometry struct {
	Width  *int `yaml:"width,omitempty" json:"width,omitempty"`
	Height *int `yaml:"height,omitempty" json:"height,omitempty"`
	Left   *int `yaml:"left,omitempty" json:"left,omitempty"`
	Top    *int `yaml:"top,omitempty" json:"top,omitempty"`
}

// Int returns a pointer to v, for building Geometry literals.
func Int(v int) *int {
	return &v
}

// FromRect builds a fully-populated Geometry from window bounds.
func FromRect(x, y, width, height int) Geometry {
	return Geometry{
		Width:  Int(width),
		Height: Int(height),
		Left:   Int(x),
		Top:    Int(y),
	}
}

// Clone returns a copy that shares no pointers with g.
func (g Geometry) Clone() Geometry {
	return Geometry{
		Width:  clonePtr(g.Width),
		Height: clonePtr(g.Height),
		Left:   clonePtr(g.Left),
		Top:    clonePtr(g.Top),
	}
}

// Merge overwrites the fields of g that are present in patch.
func (g Geometry) Merge(patch Geometry) Geometry {
	out := g.Clone()
	if patch.Width != nil {
		out.Width = Int(*patch.Width)
	}
	if patch.Height != nil {
		out.Height = Int(*patch.Height)
	}
	if patch.Left != nil {
		out.Left = Int(*patch.Left)
	}
	if patch.Top != nil {
		out.Top = Int(*patch.Top)
	}
	return out
}

// Equal reports whether both geometries have the same present fields and values.
func (g Geometry) Equal(other Geometry) bool {
	return ptrEqual(g.Width, other.Width) &&
		ptrEqual(g.Height, other.Height) &&
		ptrEqual(g.Left, other.Left) &&
		ptrEqual(g.Top, other.Top)
}

// UnmarshalYAML decodes each field leniently: a value that is not a number
// (a string, a list, a stray null) is treated as absent rather than failing
// the whole settings file.
func (g *Geometry) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		// Not a mapping at all; keep every field absent.
		*g = Geometry{}
		return nil
	}

	*g = Geometry{
		Width:  numericField(raw, "width"),
		Height: numericField(raw, "height"),
		Left:   numericField(raw, "left"),
		Top:    numericField(raw, "top"),
	}
	return nil
}

func numericField(raw map[string]yaml.Node, key string) *int {
	node, ok := raw[key]
	if !ok || node.Kind != yaml.ScalarNode {
		return nil
	}
	switch node.Tag {
	case "!!int":
		var v int
		if err := node.Decode(&v); err == nil {
			return &v
		}
		// Above MaxInt64 but still a valid uint64.
		var u uint64
		if err := node.Decode(&u); err != nil {
			return nil
		}
		return Int(clampUint(u))
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil
		}
		v, ok := floatToInt(f)
		if !ok {
			return nil
		}
		return &v
	}
	return nil
}

func clonePtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
