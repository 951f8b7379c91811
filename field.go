package dnswire

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldDef describes one typed field of a resource-record type.
type FieldDef struct {
	Index          int    // position within the type definition
	Name           string // lowercased field name
	Kind           Kind   // wire representation
	AllowsMultiple bool   // true for the trailing variadic field
	Minimum        int    // minimum value count for a variadic field
}

// FieldSpec is one entry of a type-definition declaration: a field name
// with an optional trailing quantifier, and the field's kind.
//
// Quantifier syntax on the name:
//   - "name"    exactly one value
//   - "name*"   zero or more values (minimum 0)
//   - "name*N"  N or more values
//   - "name+"   one or more values (minimum 1)
//   - "name+N"  N or more values
//
// A quantifier is only legal on the last entry of a declaration.
type FieldSpec struct {
	Name string
	Kind Kind
}

var fieldDeclPattern = regexp.MustCompile(`^([\w-]+)([*+]?)(\d*)$`)

// parseFieldDecl splits a declared field name into its base name and
// quantifier semantics.
func parseFieldDecl(decl string) (name string, allowsMultiple bool, minimum int, err error) {
	m := fieldDeclPattern.FindStringSubmatch(decl)
	if m == nil {
		return "", false, 0, fmt.Errorf("%w: bad field name syntax %q", ErrInvalidFieldDefinition, decl)
	}
	name = strings.ToLower(m[1])
	switch m[2] {
	case "":
		// trailing digits without a quantifier stay in the name
		return name + m[3], false, 0, nil
	case "*":
		minimum = 0
	case "+":
		minimum = 1
	}
	if m[3] != "" {
		minimum, err = strconv.Atoi(m[3])
		if err != nil {
			return "", false, 0, fmt.Errorf("%w: bad quantifier minimum in %q", ErrInvalidFieldDefinition, decl)
		}
	}
	return name, true, minimum, nil
}
