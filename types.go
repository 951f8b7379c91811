package dnswire

import (
	"fmt"
	"strings"
	"sync"
)

// TypeRegistry maps RR type codes to the type definitions the codec
// uses to interpret RDATA in both directions.
type TypeRegistry struct {
	m map[RecordType]*TypeDef
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{m: make(map[RecordType]*TypeDef)}
}

// Register binds a type definition to an RR type code, replacing any
// previous binding.
func (r *TypeRegistry) Register(rt RecordType, def *TypeDef) {
	r.m[rt] = def
}

// Lookup returns the definition bound to rt.
func (r *TypeRegistry) Lookup(rt RecordType) (*TypeDef, bool) {
	def, ok := r.m[rt]
	return def, ok
}

// Clone returns a registry with the same bindings, safe to extend
// without affecting the original.
func (r *TypeRegistry) Clone() *TypeRegistry {
	cp := NewTypeRegistry()
	for rt, def := range r.m {
		cp.m[rt] = def
	}
	return cp
}

// DefaultTypes returns the built-in registry covering the common RR
// types. The instance is shared and must not be modified; Clone it to
// extend.
var DefaultTypes = sync.OnceValue(func() *TypeRegistry {
	r := NewTypeRegistry()
	r.Register(TypeA, MustParseTypeDef([]FieldSpec{
		{"address", KindIPv4Address},
	}, nil))
	r.Register(TypeNS, MustParseTypeDef([]FieldSpec{
		{"nsdname", KindDomainName},
	}, nil))
	r.Register(TypeCNAME, MustParseTypeDef([]FieldSpec{
		{"cname", KindDomainName},
	}, nil))
	r.Register(TypeSOA, MustParseTypeDef([]FieldSpec{
		{"mname", KindDomainName},
		{"rname", KindDomainName},
		{"serial", KindLong},
		{"refresh", KindLong},
		{"retry", KindLong},
		{"expire", KindLong},
		{"minimum", KindLong},
	}, nil))
	r.Register(TypePTR, MustParseTypeDef([]FieldSpec{
		{"ptrdname", KindDomainName},
	}, nil))
	r.Register(TypeMX, MustParseTypeDef([]FieldSpec{
		{"preference", KindShort},
		{"exchange", KindDomainName},
	}, nil))
	r.Register(TypeTXT, MustParseTypeDef([]FieldSpec{
		{"txt-data+", KindCharacterString},
	}, stringifyTXT))
	r.Register(TypeAAAA, MustParseTypeDef([]FieldSpec{
		{"address", KindIPv6Address},
	}, nil))
	r.Register(TypeSRV, MustParseTypeDef([]FieldSpec{
		{"priority", KindShort},
		{"weight", KindShort},
		{"port", KindShort},
		{"target", KindDomainName},
	}, nil))
	// OPT rdata is carried opaquely (RFC 6891); see edns.go for the
	// option-level helpers.
	r.Register(TypeOPT, MustParseTypeDef([]FieldSpec{
		{"data*", KindAnything},
	}, nil))
	return r
})

// opaqueTypeDef is the fallback for RR types absent from the registry:
// the whole RDATA as one opaque value.
var opaqueTypeDef = sync.OnceValue(func() *TypeDef {
	return MustParseTypeDef([]FieldSpec{
		{"rdata", KindAnything},
	}, nil)
})

// stringifyTXT renders each character-string double-quoted, the way
// zone files present TXT records.
func stringifyTXT(rd *RecordData) string {
	vals := rd.Get("txt-data")
	parts := make([]string, 0, len(vals))
	for _, v := range vals {
		parts = append(parts, fmt.Sprintf("%q", v.String()))
	}
	return strings.Join(parts, " ")
}
