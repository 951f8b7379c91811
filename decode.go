package dnswire

import (
	"encoding/binary"
	"fmt"
	"log/slog"
)

// DecodeLimits bounds an incoming message before section allocation,
// protecting against headers that declare huge counts for a tiny
// packet.
type DecodeLimits struct {
	MaxMessageSize       int // maximum accepted wire size, 0 = unlimited
	MaxQuestions         int // maximum question count, 0 = unlimited
	MaxRecordsPerSection int // maximum records per RR section, 0 = unlimited
	MaxTotalRecords      int // maximum records across RR sections, 0 = unlimited
}

// DecodeOptions controls message decoding.
type DecodeOptions struct {
	// Types maps RR type codes to type definitions for RDATA
	// interpretation. Nil means DefaultTypes(). Types absent from the
	// registry decode as a single opaque value.
	Types *TypeRegistry

	// Limits, when non-nil, rejects messages exceeding the bounds with
	// ErrMessageTooLarge before any section is parsed.
	Limits *DecodeLimits

	// Trace, when non-nil, receives debug-level decode traces (section
	// counts, resolved names).
	Trace *slog.Logger
}

// Decode parses a wire-format message using the built-in type registry.
func Decode(b []byte) (*Message, error) {
	return DecodeWithOptions(b, DecodeOptions{})
}

// DecodeWithOptions parses a wire-format message.
func DecodeWithOptions(b []byte, opts DecodeOptions) (*Message, error) {
	types := opts.Types
	if types == nil {
		types = DefaultTypes()
	}
	if opts.Limits != nil && opts.Limits.MaxMessageSize > 0 && len(b) > opts.Limits.MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(b))
	}
	d := &decoder{
		msg:   b,
		reg:   NewLabelRegistry(),
		types: types,
		trace: opts.Trace,
	}
	return d.message(opts.Limits)
}

// decoder wraps the input bytes, the read position, and the label
// registry populated as names are parsed. Single-owner, single-use.
type decoder struct {
	msg   []byte
	pos   int
	reg   *LabelRegistry
	types *TypeRegistry
	trace *slog.Logger
}

func (d *decoder) message(limits *DecodeLimits) (*Message, error) {
	if len(d.msg) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a DNS header", ErrShortRead, len(d.msg))
	}
	m := &Message{ID: binary.BigEndian.Uint16(d.msg[0:2])}
	m.SetFlags(binary.BigEndian.Uint16(d.msg[2:4]))
	qd := int(binary.BigEndian.Uint16(d.msg[4:6]))
	an := int(binary.BigEndian.Uint16(d.msg[6:8]))
	ns := int(binary.BigEndian.Uint16(d.msg[8:10]))
	ar := int(binary.BigEndian.Uint16(d.msg[10:12]))
	d.pos = HeaderSize

	if err := checkLimits(limits, qd, an, ns, ar); err != nil {
		return nil, err
	}
	if d.trace != nil {
		d.trace.Debug("decoding message",
			"id", m.ID, "qd", qd, "an", an, "ns", ns, "ar", ar)
	}

	m.Questions = make([]Question, 0, min(qd, 16))
	for range qd {
		q, err := d.question()
		if err != nil {
			return nil, err
		}
		m.Questions = append(m.Questions, q)
	}
	for _, s := range []struct {
		count int
		out   *[]ResourceRecord
	}{
		{an, &m.Answers},
		{ns, &m.Authority},
		{ar, &m.Additional},
	} {
		*s.out = make([]ResourceRecord, 0, min(s.count, 64))
		for range s.count {
			r, err := d.record()
			if err != nil {
				return nil, err
			}
			*s.out = append(*s.out, r)
		}
	}
	return m, nil
}

func checkLimits(limits *DecodeLimits, qd, an, ns, ar int) error {
	if limits == nil {
		return nil
	}
	if limits.MaxQuestions > 0 && qd > limits.MaxQuestions {
		return fmt.Errorf("%w: %d questions", ErrMessageTooLarge, qd)
	}
	if limits.MaxRecordsPerSection > 0 && (an > limits.MaxRecordsPerSection ||
		ns > limits.MaxRecordsPerSection || ar > limits.MaxRecordsPerSection) {
		return fmt.Errorf("%w: too many records in a section", ErrMessageTooLarge)
	}
	if limits.MaxTotalRecords > 0 && an+ns+ar > limits.MaxTotalRecords {
		return fmt.Errorf("%w: %d total records", ErrMessageTooLarge, an+ns+ar)
	}
	return nil
}

func (d *decoder) question() (Question, error) {
	name, err := d.name()
	if err != nil {
		return Question{}, err
	}
	if d.pos+4 > len(d.msg) {
		return Question{}, fmt.Errorf("%w: unexpected EOF while reading question", ErrShortRead)
	}
	q := Question{
		Name:  name,
		Type:  RecordType(binary.BigEndian.Uint16(d.msg[d.pos : d.pos+2])),
		Class: RecordClass(binary.BigEndian.Uint16(d.msg[d.pos+2 : d.pos+4])),
	}
	d.pos += 4
	return q, nil
}

func (d *decoder) record() (ResourceRecord, error) {
	name, err := d.name()
	if err != nil {
		return ResourceRecord{}, err
	}
	if d.pos+10 > len(d.msg) {
		return ResourceRecord{}, fmt.Errorf("%w: unexpected EOF while reading record metadata", ErrShortRead)
	}
	r := ResourceRecord{
		Name:  name,
		Type:  RecordType(binary.BigEndian.Uint16(d.msg[d.pos : d.pos+2])),
		Class: RecordClass(binary.BigEndian.Uint16(d.msg[d.pos+2 : d.pos+4])),
		TTL:   binary.BigEndian.Uint32(d.msg[d.pos+4 : d.pos+8]),
	}
	rdlen := int(binary.BigEndian.Uint16(d.msg[d.pos+8 : d.pos+10]))
	d.pos += 10
	if d.pos+rdlen > len(d.msg) {
		return ResourceRecord{}, fmt.Errorf("%w: unexpected EOF while reading rdata", ErrShortRead)
	}
	r.Data, err = d.rdata(r.Type, rdlen)
	if err != nil {
		return ResourceRecord{}, err
	}
	return r, nil
}

// rdata interprets rdlen bytes at the current position against the
// type definition for rt. Types absent from the registry decode as a
// single opaque value of the full RDATA.
func (d *decoder) rdata(rt RecordType, rdlen int) (*RecordData, error) {
	end := d.pos + rdlen
	def, ok := d.types.Lookup(rt)
	if !ok {
		def = opaqueTypeDef()
	}
	rd := NewRecordData(def)
	for _, f := range def.fields {
		if f.AllowsMultiple {
			count := 0
			for d.pos < end {
				v, err := d.value(f.Kind, end)
				if err != nil {
					return nil, err
				}
				rd.values[f.Index] = append(rd.values[f.Index], v)
				count++
			}
			if count < f.Minimum {
				return nil, fmt.Errorf("%w: field %q decoded %d values, needs at least %d",
					ErrRdataLengthMismatch, f.Name, count, f.Minimum)
			}
			continue
		}
		v, err := d.value(f.Kind, end)
		if err != nil {
			return nil, err
		}
		rd.values[f.Index] = []Value{v}
	}
	if d.pos != end {
		return nil, fmt.Errorf("%w: %d bytes left after decoding fields", ErrRdataLengthMismatch, end-d.pos)
	}
	return rd, nil
}

// value decodes one field value. end bounds the value within its RDATA;
// domain-name pointers may still reference anywhere in the packet.
func (d *decoder) value(kind Kind, end int) (Value, error) {
	need := func(n int) error {
		if d.pos+n > end {
			return fmt.Errorf("%w: %s field needs %d bytes, %d left in rdata",
				ErrRdataLengthMismatch, kind, n, end-d.pos)
		}
		return nil
	}
	switch kind {
	case KindChar:
		if err := need(1); err != nil {
			return nil, err
		}
		v := Char{v: d.msg[d.pos]}
		d.pos++
		return v, nil
	case KindShort:
		if err := need(2); err != nil {
			return nil, err
		}
		v := Short{v: binary.BigEndian.Uint16(d.msg[d.pos : d.pos+2])}
		d.pos += 2
		return v, nil
	case KindLong:
		if err := need(4); err != nil {
			return nil, err
		}
		v := Long{v: binary.BigEndian.Uint32(d.msg[d.pos : d.pos+4])}
		d.pos += 4
		return v, nil
	case KindCharacterString:
		if err := need(1); err != nil {
			return nil, err
		}
		n := int(d.msg[d.pos])
		if err := need(1 + n); err != nil {
			return nil, err
		}
		v := CharacterString{b: append([]byte(nil), d.msg[d.pos+1:d.pos+1+n]...)}
		d.pos += 1 + n
		return v, nil
	case KindIPv4Address:
		if err := need(4); err != nil {
			return nil, err
		}
		var o [4]byte
		copy(o[:], d.msg[d.pos:d.pos+4])
		d.pos += 4
		return IPv4Address{o: o}, nil
	case KindIPv6Address:
		if err := need(16); err != nil {
			return nil, err
		}
		var g [8]uint16
		for i := range g {
			g[i] = binary.BigEndian.Uint16(d.msg[d.pos+2*i : d.pos+2*i+2])
		}
		d.pos += 16
		return IPv6Address{g: g}, nil
	case KindAnything:
		b := append([]byte(nil), d.msg[d.pos:end]...)
		d.pos = end
		return Anything{b: b}, nil
	case KindBitMap:
		b := append([]byte(nil), d.msg[d.pos:end]...)
		d.pos = end
		return BitMap{b: b}, nil
	case KindDomainName:
		n, err := d.name()
		if err != nil {
			return nil, err
		}
		if d.pos > end {
			return nil, fmt.Errorf("%w: name ran past rdata end", ErrRdataLengthMismatch)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: no decoder for %s", ErrUnknownTypeKind, kind)
	}
}

// name decodes a possibly-compressed domain name at the current
// position.
//
// Compression pointers (RFC 1035 Section 4.1.4) are identified by the
// two high bits of a length byte being set (11xxxxxx). The pointer
// value is a 14-bit offset from the start of the message:
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	| 1  1|                OFFSET                   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//
// The primary cursor advances past the pointer byte pair and does not
// move again for this name; label reads continue from the pointer
// target via a shadow position. Offsets visited while following
// pointers are tracked so that revisiting one fails instead of
// looping. The reserved patterns 10 and 01 are rejected.
func (d *decoder) name() (DomainName, error) {
	const maxLabels = MaxNameWireLength / 2

	var (
		labels  []string
		offsets []int // packet offset of each literal label, parallel to labels
		visited map[int]struct{}
	)
	cur := d.pos
	jumped := false

	for {
		if cur >= len(d.msg) {
			return DomainName{}, fmt.Errorf("%w: unexpected EOF while decoding name", ErrShortRead)
		}
		labelLen := d.msg[cur]

		if labelLen == 0 {
			cur++
			break
		}
		if labelLen&0xC0 == 0xC0 {
			if cur+1 >= len(d.msg) {
				return DomainName{}, fmt.Errorf("%w: unexpected EOF while decoding compression pointer", ErrShortRead)
			}
			ptr := int(labelLen&0x3F)<<8 | int(d.msg[cur+1])
			if !jumped {
				d.pos = cur + 2
				jumped = true
			}
			if ptr >= len(d.msg) {
				return DomainName{}, fmt.Errorf("%w: pointer target %d past packet end %d", ErrPointerOutOfBounds, ptr, len(d.msg))
			}
			if visited == nil {
				visited = make(map[int]struct{})
			}
			if _, seen := visited[ptr]; seen {
				return DomainName{}, fmt.Errorf("%w: offset %d revisited", ErrCompressionLoop, ptr)
			}
			visited[ptr] = struct{}{}
			if d.trace != nil {
				if suffix, ok := d.reg.LookupSuffix(ptr); ok {
					d.trace.Debug("following compression pointer", "offset", ptr, "suffix", suffix)
				}
			}
			cur = ptr
			continue
		}
		if labelLen&0xC0 != 0 {
			return DomainName{}, fmt.Errorf("%w: label length byte 0x%02x", ErrReservedLabelType, labelLen)
		}

		n := int(labelLen)
		if cur+1+n > len(d.msg) {
			return DomainName{}, fmt.Errorf("%w: unexpected EOF while reading label", ErrShortRead)
		}
		label := d.msg[cur+1 : cur+1+n]
		for _, b := range label {
			if b > 0x7F {
				return DomainName{}, fmt.Errorf("%w: decoded name is not ASCII", ErrFieldValueOutOfRange)
			}
		}
		if len(labels) >= maxLabels {
			return DomainName{}, fmt.Errorf("%w: more than %d labels", ErrNameTooLong, maxLabels)
		}
		labels = append(labels, string(label))
		offsets = append(offsets, cur)
		cur += 1 + n
	}
	if !jumped {
		d.pos = cur
	}

	name := DomainName{labels: labels}
	if name.WireLength() > MaxNameWireLength {
		return DomainName{}, fmt.Errorf("%w: wire form is %d bytes (max %d)", ErrNameTooLong, name.WireLength(), MaxNameWireLength)
	}

	// Back-fill the registry: the suffix starting at label i first
	// appeared at that label's packet offset.
	for i, off := range offsets {
		d.reg.Register(name.suffixKey(i), off)
	}
	if d.trace != nil {
		d.trace.Debug("decoded name", "name", name.String(), "compressed", jumped)
	}
	return name, nil
}
