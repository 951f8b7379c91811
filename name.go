package dnswire

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// DomainName holds an ordered sequence of name labels.
//
// DNS names are encoded on the wire as a sequence of labels, where each
// label is:
//   - 1 byte: length (0-63)
//   - N bytes: label characters
//
// The name is terminated by a zero-length label (single 0x00 byte).
//
// Example: "www.example.com" encodes as:
//
//	[3]www[7]example[3]com[0]
//	0x03 'w' 'w' 'w' 0x07 'e' 'x' 'a' 'm' 'p' 'l' 'e' 0x03 'c' 'o' 'm' 0x00
//
// Constraints:
//   - Each label max 63 bytes
//   - Total encoded name max 255 bytes, length bytes and terminator included
//   - Labels compare case-insensitively (RFC 4343)
type DomainName struct {
	labels []string
}

// ParseDomainName parses a dot-separated name. A trailing dot (fully
// qualified form) is permitted. Non-ASCII input is mapped to its ASCII
// form per IDNA before validation.
func ParseDomainName(s string) (DomainName, error) {
	if !isASCII(s) {
		mapped, err := idna.Lookup.ToASCII(s)
		if err != nil {
			return DomainName{}, fmt.Errorf("%w: IDNA mapping of %q: %v", ErrFieldValueOutOfRange, s, err)
		}
		s = mapped
	}
	s = trimDot(s)
	if s == "" {
		return DomainName{}, nil // root name
	}
	labels := strings.Split(s, ".")
	return NewDomainName(labels)
}

// NewDomainName builds a name from an explicit label list. A trailing
// empty label (fully qualified form) is dropped.
func NewDomainName(labels []string) (DomainName, error) {
	if n := len(labels); n > 0 && labels[n-1] == "" {
		labels = labels[:n-1]
	}
	cp := make([]string, len(labels))
	wireLen := 1 // terminator
	for i, label := range labels {
		if label == "" {
			return DomainName{}, fmt.Errorf("%w: empty label in domain name", ErrFieldValueOutOfRange)
		}
		if len(label) > MaxLabelLength {
			return DomainName{}, fmt.Errorf("%w: label too long (%d > %d): %q", ErrFieldValueOutOfRange, len(label), MaxLabelLength, label)
		}
		for j := range len(label) {
			if label[j] > 0x7F {
				return DomainName{}, fmt.Errorf("%w: domain name must be ASCII", ErrFieldValueOutOfRange)
			}
		}
		wireLen += 1 + len(label)
		cp[i] = label
	}
	if wireLen > MaxNameWireLength {
		return DomainName{}, fmt.Errorf("%w: encoded domain name too long (%d > %d)", ErrFieldValueOutOfRange, wireLen, MaxNameWireLength)
	}
	return DomainName{labels: cp}, nil
}

// MustParseDomainName is ParseDomainName panicking on error. Intended
// for literals in tests and type-definition tables.
func MustParseDomainName(s string) DomainName {
	n, err := ParseDomainName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Kind returns KindDomainName.
func (n DomainName) Kind() Kind { return KindDomainName }

// Labels returns the name's labels in order, head first.
func (n DomainName) Labels() []string {
	cp := make([]string, len(n.labels))
	copy(cp, n.labels)
	return cp
}

// IsRoot reports whether the name is the DNS root (zero labels).
func (n DomainName) IsRoot() bool { return len(n.labels) == 0 }

// WireLength returns the uncompressed wire size of the name, length
// bytes and terminator included.
func (n DomainName) WireLength() int {
	size := 1
	for _, label := range n.labels {
		size += 1 + len(label)
	}
	return size
}

// Equal compares two names label by label, case-insensitively.
func (n DomainName) Equal(o DomainName) bool {
	if len(n.labels) != len(o.labels) {
		return false
	}
	for i := range n.labels {
		if !strings.EqualFold(n.labels[i], o.labels[i]) {
			return false
		}
	}
	return true
}

// String returns the dot-joined labels with a trailing dot (fully
// qualified form). The root name renders as ".".
func (n DomainName) String() string {
	if len(n.labels) == 0 {
		return "."
	}
	return strings.Join(n.labels, ".") + "."
}

// suffixKey returns the lowercased dotted form of the labels from i to
// the tail, used as a compression-registry key.
func (n DomainName) suffixKey(i int) string {
	return strings.ToLower(strings.Join(n.labels[i:], "."))
}

// NormalizeName returns a lowercase DNS name without trailing dots.
// DNS domain names are case-insensitive per RFC 1035 Section 3.1.
func NormalizeName(name string) string {
	return strings.ToLower(trimDot(name))
}

// trimDot removes all trailing dots from a string.
func trimDot(s string) string {
	for len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
