package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Schema is the ordered field layout of one packet shape.
//
// Size is exact when Fixed is true. Schemas with an optional or tail field
// report the minimum size instead.
type Schema struct {
	Name   string
	Fields []Descriptor
	Size   int
	Fixed  bool
}

// Describe builds the schema of parts laid out back to back.
func Describe(name string, parts ...Fielder) Schema {
	c := &Coder{mode: modeDescribe, schema: name}
	for _, p := range parts {
		p.Fields(c)
	}
	s := Schema{Name: name, Fields: c.fields, Size: c.offset, Fixed: true}
	for _, d := range c.fields {
		if d.Optional || d.Kind == KindTail {
			s.Fixed = false
		}
	}
	return s
}

// Sized returns s with its tail field sized to fill a frame of total bytes.
func (s Schema) Sized(total int) Schema {
	out := s
	out.Fields = make([]Descriptor, len(s.Fields))
	copy(out.Fields, s.Fields)
	for i, d := range out.Fields {
		if d.Kind != KindTail {
			continue
		}
		if n := total - d.Offset; n > 0 {
			out.Fields[i].Width = n
			out.Size = total
		}
	}
	return out
}

// Field returns the descriptor with the given name.
func (s Schema) Field(name string) (Descriptor, bool) {
	for _, d := range s.Fields {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Value is one named field of a decoded record. Nested values carry the
// fields of an embedded structure such as a frame header.
type Value struct {
	Name   string
	Kind   Kind
	Value  any
	Fields []Value
}

// Inspect lists the field values of p in declared order.
func Inspect(p Fielder) []Value {
	c := &Coder{mode: modeInspect}
	p.Fields(c)
	return c.values
}

// Nested wraps values as a single named structure.
func Nested(name string, fields []Value) Value {
	return Value{Name: name, Fields: fields}
}

// Text renders the value the way tooling prints it: enumerations by name,
// byte fields as hex and nested structures inline.
func (v Value) Text() string {
	if v.Fields != nil {
		parts := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			parts = append(parts, f.Name+"="+f.Text())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	switch x := v.Value.(type) {
	case []byte:
		return hex.EncodeToString(x)
	case string:
		return fmt.Sprintf("%q", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
