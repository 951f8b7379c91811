package dnswire

import (
	"encoding/binary"
	"fmt"

	"github.com/rvisser/dnswire/internal/helpers"
)

// EncodeOptions controls message encoding.
type EncodeOptions struct {
	// Compress enables RFC 1035 §4.1.4 name compression.
	Compress bool

	// MaxSize is the total message budget in bytes, header included.
	// Zero or negative means DefaultUDPPayloadSize (512). Records that
	// would push the message past the budget are dropped and the TC
	// flag is set; this is not an error.
	MaxSize int
}

// Encode serialises a message to wire format with name compression
// enabled and the default 512-byte UDP budget.
func Encode(m *Message) ([]byte, error) {
	return EncodeWithOptions(m, EncodeOptions{Compress: true})
}

// EncodeWithOptions serialises a message to wire format.
//
// Sections are visited in Question, Answer, Authority, Additional
// order, records within a section in the caller-supplied order. The
// budget is checked before each record is committed, so a record never
// partially occupies the packet; once a record overflows, it and every
// record after it are dropped and the header carries TC=1 with the
// committed counts.
func EncodeWithOptions(m *Message, opts EncodeOptions) ([]byte, error) {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultUDPPayloadSize
	}
	e := &encoder{
		pkt:      NewPacket(),
		reg:      NewLabelRegistry(),
		compress: opts.Compress,
		maxSize:  maxSize,
	}

	var qd, an, ns, ar int
	for _, q := range m.Questions {
		ok, err := e.question(q)
		if err != nil {
			return nil, err
		}
		if ok {
			qd++
		}
	}
	sections := []struct {
		records []ResourceRecord
		count   *int
	}{
		{m.Answers, &an},
		{m.Authority, &ns},
		{m.Additional, &ar},
	}
	for _, s := range sections {
		for _, r := range s.records {
			ok, err := e.record(r)
			if err != nil {
				return nil, err
			}
			if ok {
				*s.count++
			}
		}
	}

	// The header goes in front last: truncation may have lowered the
	// section counts below what the message holds.
	flags := m.Flags()
	if e.truncated {
		flags |= TCFlag
	}
	out := make([]byte, HeaderSize, HeaderSize+e.pkt.Len())
	binary.BigEndian.PutUint16(out[0:2], m.ID)
	binary.BigEndian.PutUint16(out[2:4], flags)
	binary.BigEndian.PutUint16(out[4:6], helpers.ClampIntToUint16(qd))
	binary.BigEndian.PutUint16(out[6:8], helpers.ClampIntToUint16(an))
	binary.BigEndian.PutUint16(out[8:10], helpers.ClampIntToUint16(ns))
	binary.BigEndian.PutUint16(out[10:12], helpers.ClampIntToUint16(ar))
	return append(out, e.pkt.Bytes()...), nil
}

// encoder pairs one packet with one label registry, the compression
// switch, and the sticky truncation flag.
type encoder struct {
	pkt      *Packet
	reg      *LabelRegistry
	compress bool
	maxSize  int

	// truncated is sticky: once set, record emission becomes a no-op.
	truncated bool
}

// question emits one question record. Reports whether it was committed.
func (e *encoder) question(q Question) (bool, error) {
	if e.truncated {
		return false, nil
	}
	nameWire, err := e.name(q.Name, HeaderSize+e.pkt.Len())
	if err != nil {
		return false, err
	}
	if HeaderSize+e.pkt.Len()+len(nameWire)+4 > e.maxSize {
		e.truncated = true
		return false, nil
	}
	e.pkt.Write(nameWire)
	fixed := make([]byte, 4)
	binary.BigEndian.PutUint16(fixed[0:2], uint16(q.Type))
	binary.BigEndian.PutUint16(fixed[2:4], uint16(q.Class))
	e.pkt.Write(fixed)
	return true, nil
}

// record emits one resource record. Reports whether it was committed.
func (e *encoder) record(r ResourceRecord) (bool, error) {
	if e.truncated {
		return false, nil
	}
	nameWire, err := e.name(r.Name, HeaderSize+e.pkt.Len())
	if err != nil {
		return false, err
	}
	rdata, err := e.rdata(r.Data, HeaderSize+e.pkt.Len()+len(nameWire)+10)
	if err != nil {
		return false, err
	}
	if len(rdata) > 65535 {
		return false, fmt.Errorf("%w: rdata too large (%d > 65535)", ErrFieldValueOutOfRange, len(rdata))
	}
	if HeaderSize+e.pkt.Len()+len(nameWire)+10+len(rdata) > e.maxSize {
		e.truncated = true
		return false, nil
	}
	e.pkt.Write(nameWire)
	fixed := make([]byte, 10)
	binary.BigEndian.PutUint16(fixed[0:2], uint16(r.Type))
	binary.BigEndian.PutUint16(fixed[2:4], uint16(r.Class))
	binary.BigEndian.PutUint32(fixed[4:8], r.TTL)
	binary.BigEndian.PutUint16(fixed[8:10], helpers.ClampIntToUint16(len(rdata)))
	e.pkt.Write(fixed)
	e.pkt.Write(rdata)
	return true, nil
}

// rdata encodes a record's field values in declaration order. at is
// the absolute packet offset where the RDATA will sit, needed so that
// domain names inside RDATA register and compress correctly.
func (e *encoder) rdata(rd *RecordData, at int) ([]byte, error) {
	if rd == nil {
		return nil, nil
	}
	if err := rd.Validate(); err != nil {
		return nil, err
	}
	var out []byte
	for i := range rd.def.fields {
		for _, v := range rd.Field(i) {
			b, err := e.value(v, at+len(out))
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// value encodes one field value, dispatching on its concrete type. at
// is the absolute packet offset where the value's first byte will sit.
func (e *encoder) value(v Value, at int) ([]byte, error) {
	switch v := v.(type) {
	case Char:
		return []byte{v.Value()}, nil
	case Short:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, v.Value())
		return b, nil
	case Long:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, v.Value())
		return b, nil
	case CharacterString:
		raw := v.Bytes()
		b := make([]byte, 0, 1+len(raw))
		b = append(b, byte(len(raw)))
		return append(b, raw...), nil
	case Anything:
		return v.Bytes(), nil
	case BitMap:
		return v.Bytes(), nil
	case IPv4Address:
		o := v.Octets()
		return o[:], nil
	case IPv6Address:
		b := make([]byte, 16)
		for i, g := range v.Groups() {
			binary.BigEndian.PutUint16(b[2*i:2*i+2], g)
		}
		return b, nil
	case DomainName:
		return e.name(v, at)
	default:
		return nil, fmt.Errorf("%w: no encoder for %T", ErrUnknownTypeKind, v)
	}
}

// name encodes a domain name starting at absolute packet offset at.
//
// For each suffix, full name first and dropping one label from the
// head per step: a registry hit emits a 14-bit back-pointer and stops;
// a miss registers the suffix at the current offset and emits the
// label literally. Running out of labels emits the zero terminator.
// With compression disabled the registry is not consulted and every
// label is literal.
func (e *encoder) name(n DomainName, at int) ([]byte, error) {
	labels := n.labels
	out := make([]byte, 0, n.WireLength())
	for i, label := range labels {
		if e.compress {
			if offset, ok := e.reg.LookupIndex(n.suffixKey(i)); ok {
				ptr := make([]byte, 2)
				binary.BigEndian.PutUint16(ptr, 0xC000|uint16(offset))
				return append(out, ptr...), nil
			}
			e.reg.Register(n.suffixKey(i), at)
		}
		if len(label) > MaxLabelLength {
			return nil, fmt.Errorf("%w: label too long (%d > %d)", ErrFieldValueOutOfRange, len(label), MaxLabelLength)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
		at += 1 + len(label)
	}
	return append(out, 0), nil
}
