package dnswire

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"
	"strings"
)

// Kind identifies the wire representation of a primitive field value.
type Kind uint8

const (
	KindAnything        Kind = iota // opaque byte string (RDATA passthrough)
	KindBitMap                      // opaque byte string interpreted as a bit array
	KindChar                        // unsigned 8-bit integer
	KindCharacterString             // length-prefixed byte string, max 255 bytes
	KindShort                       // unsigned 16-bit integer
	KindLong                        // unsigned 32-bit integer
	KindIPv4Address                 // 4 octets
	KindIPv6Address                 // 8 groups of 16 bits
	KindDomainName                  // label sequence, possibly compressed on the wire
)

// String returns the kind name, as shown in error messages.
func (k Kind) String() string {
	switch k {
	case KindAnything:
		return "anything"
	case KindBitMap:
		return "bitmap"
	case KindChar:
		return "char"
	case KindCharacterString:
		return "character-string"
	case KindShort:
		return "short"
	case KindLong:
		return "long"
	case KindIPv4Address:
		return "ipv4"
	case KindIPv6Address:
		return "ipv6"
	case KindDomainName:
		return "domain-name"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one validated DNS field value. The encoder dispatches on the
// concrete types defined in this package; any other implementation is
// rejected with ErrUnknownTypeKind.
type Value interface {
	// Kind returns the wire representation tag.
	Kind() Kind

	// String returns the presentation form of the value.
	String() string
}

// Anything holds an opaque byte string carried through RDATA untouched.
type Anything struct {
	b []byte
}

// NewAnything creates an opaque value. The bytes are copied.
func NewAnything(b []byte) Anything {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Anything{b: cp}
}

// Kind returns KindAnything.
func (a Anything) Kind() Kind { return KindAnything }

// Bytes returns the raw bytes.
func (a Anything) Bytes() []byte { return a.b }

// String returns the bytes rendered as a hex string.
func (a Anything) String() string { return fmt.Sprintf("%x", a.b) }

// BitMap holds an opaque byte string interpreted as a bit array.
type BitMap struct {
	b []byte
}

// NewBitMap creates a bitmap value. The bytes are copied.
func NewBitMap(b []byte) BitMap {
	cp := make([]byte, len(b))
	copy(cp, b)
	return BitMap{b: cp}
}

// Kind returns KindBitMap.
func (m BitMap) Kind() Kind { return KindBitMap }

// Bytes returns the raw bitmap bytes.
func (m BitMap) Bytes() []byte { return m.b }

// String returns the bitmap rendered as a hex string.
func (m BitMap) String() string { return fmt.Sprintf("%x", m.b) }

// Char holds an unsigned 8-bit integer.
type Char struct {
	v uint8
}

// NewChar validates v into [0, 255].
func NewChar(v int) (Char, error) {
	if v < 0 || v > math.MaxUint8 {
		return Char{}, fmt.Errorf("%w: char value %d outside [0,255]", ErrFieldValueOutOfRange, v)
	}
	return Char{v: uint8(v)}, nil
}

// Kind returns KindChar.
func (c Char) Kind() Kind { return KindChar }

// Value returns the octet.
func (c Char) Value() uint8 { return c.v }

// String returns the decimal rendering.
func (c Char) String() string { return fmt.Sprintf("%d", c.v) }

// Short holds an unsigned 16-bit integer.
type Short struct {
	v uint16
}

// NewShort validates v into [0, 65535].
func NewShort(v int) (Short, error) {
	if v < 0 || v > math.MaxUint16 {
		return Short{}, fmt.Errorf("%w: short value %d outside [0,65535]", ErrFieldValueOutOfRange, v)
	}
	return Short{v: uint16(v)}, nil
}

// Kind returns KindShort.
func (s Short) Kind() Kind { return KindShort }

// Value returns the 16-bit value.
func (s Short) Value() uint16 { return s.v }

// String returns the decimal rendering.
func (s Short) String() string { return fmt.Sprintf("%d", s.v) }

// Long holds an unsigned 32-bit integer.
type Long struct {
	v uint32
}

// NewLong validates v into [0, 2^32-1].
func NewLong(v int64) (Long, error) {
	if v < 0 || v > math.MaxUint32 {
		return Long{}, fmt.Errorf("%w: long value %d outside [0,2^32-1]", ErrFieldValueOutOfRange, v)
	}
	return Long{v: uint32(v)}, nil
}

// Kind returns KindLong.
func (l Long) Kind() Kind { return KindLong }

// Value returns the 32-bit value.
func (l Long) Value() uint32 { return l.v }

// String returns the decimal rendering.
func (l Long) String() string { return fmt.Sprintf("%d", l.v) }

// CharacterString holds a DNS character-string: at most 255 bytes,
// length-prefixed on the wire (RFC 1035 Section 3.3).
type CharacterString struct {
	b []byte
}

// NewCharacterString validates s to at most 255 bytes.
func NewCharacterString(s string) (CharacterString, error) {
	if len(s) > math.MaxUint8 {
		return CharacterString{}, fmt.Errorf("%w: character-string too long (%d > 255)", ErrFieldValueOutOfRange, len(s))
	}
	return CharacterString{b: []byte(s)}, nil
}

// Kind returns KindCharacterString.
func (c CharacterString) Kind() Kind { return KindCharacterString }

// Bytes returns the string bytes without the length prefix.
func (c CharacterString) Bytes() []byte { return c.b }

// String returns the bytes as a string.
func (c CharacterString) String() string { return string(c.b) }

// IPv4Address holds four octets of an IPv4 address.
type IPv4Address struct {
	o [4]byte
}

// NewIPv4Address creates an address from four octets.
func NewIPv4Address(octets [4]byte) IPv4Address {
	return IPv4Address{o: octets}
}

// IPv4AddressFromUint32 creates an address from its packed big-endian form.
func IPv4AddressFromUint32(v uint32) IPv4Address {
	var o [4]byte
	binary.BigEndian.PutUint32(o[:], v)
	return IPv4Address{o: o}
}

// ParseIPv4Address parses a dotted-quad string.
func ParseIPv4Address(s string) (IPv4Address, error) {
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil || strings.Contains(s, ":") {
		return IPv4Address{}, fmt.Errorf("%w: invalid IPv4 address %q", ErrFieldValueOutOfRange, s)
	}
	var o [4]byte
	copy(o[:], ip.To4())
	return IPv4Address{o: o}, nil
}

// Kind returns KindIPv4Address.
func (a IPv4Address) Kind() Kind { return KindIPv4Address }

// Octets returns the four address octets.
func (a IPv4Address) Octets() [4]byte { return a.o }

// String returns the dotted-quad rendering.
func (a IPv4Address) String() string { return net.IP(a.o[:]).String() }

// IPv6Address holds eight 16-bit groups of an IPv6 address.
type IPv6Address struct {
	g [8]uint16
}

// NewIPv6Address creates an address from eight 16-bit groups.
func NewIPv6Address(groups [8]uint16) IPv6Address {
	return IPv6Address{g: groups}
}

// ParseIPv6Address parses an RFC 4291 textual form, including the
// single permitted "::" zero run.
func ParseIPv6Address(s string) (IPv6Address, error) {
	ip := net.ParseIP(s)
	if ip == nil || !strings.Contains(s, ":") || ip.To16() == nil {
		return IPv6Address{}, fmt.Errorf("%w: invalid IPv6 address %q", ErrFieldValueOutOfRange, s)
	}
	b := ip.To16()
	var g [8]uint16
	for i := range g {
		g[i] = binary.BigEndian.Uint16(b[2*i : 2*i+2])
	}
	return IPv6Address{g: g}, nil
}

// Kind returns KindIPv6Address.
func (a IPv6Address) Kind() Kind { return KindIPv6Address }

// Groups returns the eight 16-bit groups.
func (a IPv6Address) Groups() [8]uint16 { return a.g }

// String returns the canonical RFC 5952 rendering.
func (a IPv6Address) String() string {
	b := make([]byte, 16)
	for i, g := range a.g {
		binary.BigEndian.PutUint16(b[2*i:2*i+2], g)
	}
	return net.IP(b).String()
}
