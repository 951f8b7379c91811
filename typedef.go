package dnswire

import (
	"fmt"
	"strings"
)

// Stringifier renders a record's data to presentation form. A type
// definition may carry one; types without one use the default
// rendering, which joins the per-field renderings with spaces.
type Stringifier func(*RecordData) string

// TypeDef is an ordered list of field definitions describing the RDATA
// layout of one resource-record type.
//
// Type definitions are read-only after construction and may be shared
// freely across goroutines; they are typically interned per RR type.
type TypeDef struct {
	fields    []FieldDef
	byName    map[string]int
	stringify Stringifier
}

// ParseTypeDef builds a type definition from an ordered declaration.
//
// Rules enforced:
//   - field names match [\w-]+ and are unique after lowercasing
//   - a quantifier (* or +) is only legal on the final field
//
// stringify may be nil to use the default space-joined rendering.
func ParseTypeDef(specs []FieldSpec, stringify Stringifier) (*TypeDef, error) {
	def := &TypeDef{
		fields:    make([]FieldDef, 0, len(specs)),
		byName:    make(map[string]int, len(specs)),
		stringify: stringify,
	}
	for i, spec := range specs {
		name, multiple, minimum, err := parseFieldDecl(spec.Name)
		if err != nil {
			return nil, err
		}
		if multiple && i != len(specs)-1 {
			return nil, fmt.Errorf("%w: quantifier on non-final field %q", ErrInvalidFieldDefinition, spec.Name)
		}
		if _, dup := def.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate field name %q", ErrInvalidFieldDefinition, name)
		}
		def.byName[name] = i
		def.fields = append(def.fields, FieldDef{
			Index:          i,
			Name:           name,
			Kind:           spec.Kind,
			AllowsMultiple: multiple,
			Minimum:        minimum,
		})
	}
	return def, nil
}

// MustParseTypeDef is ParseTypeDef panicking on error. Intended for
// the built-in definition tables.
func MustParseTypeDef(specs []FieldSpec, stringify Stringifier) *TypeDef {
	def, err := ParseTypeDef(specs, stringify)
	if err != nil {
		panic(err)
	}
	return def
}

// Len returns the number of fields.
func (d *TypeDef) Len() int { return len(d.fields) }

// Fields returns the field definitions in declaration order.
func (d *TypeDef) Fields() []FieldDef {
	cp := make([]FieldDef, len(d.fields))
	copy(cp, d.fields)
	return cp
}

// Field returns the field at index i.
func (d *TypeDef) Field(i int) (FieldDef, bool) {
	if i < 0 || i >= len(d.fields) {
		return FieldDef{}, false
	}
	return d.fields[i], true
}

// IndexOf resolves a field name (case-insensitive) to its index.
func (d *TypeDef) IndexOf(name string) (int, bool) {
	i, ok := d.byName[strings.ToLower(name)]
	return i, ok
}

// Stringify renders rd using the definition's stringifier, or the
// default space-joined field rendering when none is attached.
func (d *TypeDef) Stringify(rd *RecordData) string {
	if d.stringify != nil {
		return d.stringify(rd)
	}
	parts := make([]string, 0, len(d.fields))
	for i := range d.fields {
		for _, v := range rd.Field(i) {
			parts = append(parts, v.String())
		}
	}
	return strings.Join(parts, " ")
}
