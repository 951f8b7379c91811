package dnswire

import "fmt"

// RecordData holds the field values of one resource record, consistent
// with its type definition: one value list per field index.
type RecordData struct {
	def    *TypeDef
	values [][]Value
}

// NewRecordData creates an empty data container for the given type
// definition.
func NewRecordData(def *TypeDef) *RecordData {
	return &RecordData{
		def:    def,
		values: make([][]Value, def.Len()),
	}
}

// Def returns the type definition the data is validated against.
func (rd *RecordData) Def() *TypeDef { return rd.def }

// Set replaces the values of the named field. The values must match
// the field's kind; arity is checked by Validate.
func (rd *RecordData) Set(name string, vals ...Value) error {
	i, ok := rd.def.IndexOf(name)
	if !ok {
		return fmt.Errorf("%w: no field %q in type definition", ErrInvalidFieldDefinition, name)
	}
	f := rd.def.fields[i]
	for _, v := range vals {
		if v.Kind() != f.Kind {
			return fmt.Errorf("%w: field %q wants %s, got %s", ErrFieldValueOutOfRange, f.Name, f.Kind, v.Kind())
		}
	}
	rd.values[i] = append([]Value(nil), vals...)
	return nil
}

// Append adds one value to the named field.
func (rd *RecordData) Append(name string, v Value) error {
	i, ok := rd.def.IndexOf(name)
	if !ok {
		return fmt.Errorf("%w: no field %q in type definition", ErrInvalidFieldDefinition, name)
	}
	f := rd.def.fields[i]
	if v.Kind() != f.Kind {
		return fmt.Errorf("%w: field %q wants %s, got %s", ErrFieldValueOutOfRange, f.Name, f.Kind, v.Kind())
	}
	rd.values[i] = append(rd.values[i], v)
	return nil
}

// Get returns the values of the named field, or nil if the name is
// unknown.
func (rd *RecordData) Get(name string) []Value {
	i, ok := rd.def.IndexOf(name)
	if !ok {
		return nil
	}
	return rd.Field(i)
}

// Field returns the values at field index i.
func (rd *RecordData) Field(i int) []Value {
	if i < 0 || i >= len(rd.values) {
		return nil
	}
	return rd.values[i]
}

// Validate checks field arities against the type definition: fixed
// fields hold exactly one value, the variadic field at least its
// minimum.
func (rd *RecordData) Validate() error {
	for i, f := range rd.def.fields {
		n := len(rd.values[i])
		if f.AllowsMultiple {
			if n < f.Minimum {
				return fmt.Errorf("%w: field %q has %d values, needs at least %d", ErrFieldValueOutOfRange, f.Name, n, f.Minimum)
			}
			continue
		}
		if n != 1 {
			return fmt.Errorf("%w: field %q has %d values, needs exactly 1", ErrFieldValueOutOfRange, f.Name, n)
		}
	}
	return nil
}

// String renders the data via the type definition's stringifier.
func (rd *RecordData) String() string {
	return rd.def.Stringify(rd)
}
