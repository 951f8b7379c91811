package dnswire

import "github.com/rvisser/dnswire/internal/helpers"

// EDNS (Extension Mechanisms for DNS) constants per RFC 6891.
const (
	EDNSDefaultUDPPayloadSize = 1232 // Safe EDNS size avoiding fragmentation
	EDNSMaxUDPPayloadSize     = 4096 // Maximum practical EDNS UDP size
	EDNSMinUDPPayloadSize     = 512  // Minimum EDNS UDP payload size
)

// OPTRecord is the unpacked view of an EDNS OPT pseudo-record
// (RFC 6891). The codec carries OPT RDATA opaquely; this type reads
// and writes the non-standard use of the record's fixed fields:
//   - NAME: Must be root (0x00)
//   - CLASS: Sender's UDP payload size (not a class!)
//   - TTL: Extended RCODE, version, and flags (packed into 32 bits)
//
// TTL field layout (32 bits):
//
//	+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+
//	|         EXTENDED-RCODE        |            VERSION            |
//	+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+
//	| DO|                    Z (reserved)                           |
//	+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+
type OPTRecord struct {
	UDPPayloadSize uint16 // Sender's maximum UDP payload size
	ExtendedRCode  uint8  // Upper 8 bits of RCODE
	Version        uint8  // EDNS version (must be 0)
	DNSSECOk       bool   // DO flag: client supports DNSSEC
	Data           []byte // Raw EDNS options, carried untouched
}

// NewOPTResourceRecord packs o into a resource record ready for a
// message's additional section.
func (o OPTRecord) NewOPTResourceRecord() ResourceRecord {
	def, _ := DefaultTypes().Lookup(TypeOPT)
	rd := NewRecordData(def)
	if len(o.Data) > 0 {
		_ = rd.Set("data", NewAnything(o.Data))
	}
	sz := helpers.ClampInt(int(o.UDPPayloadSize), EDNSMinUDPPayloadSize, 65535)
	return ResourceRecord{
		Name:  DomainName{}, // root
		Type:  TypeOPT,
		Class: RecordClass(helpers.ClampIntToUint16(sz)),
		TTL:   packOPTTTL(o.ExtendedRCode, o.Version, o.DNSSECOk),
		Data:  rd,
	}
}

// packOPTTTL constructs the 32-bit TTL field for an OPT record.
func packOPTTTL(extRCode, version uint8, dnssecOk bool) uint32 {
	ttl := uint32(extRCode)<<24 | uint32(version)<<16
	if dnssecOk {
		ttl |= 1 << 15 // DO flag
	}
	return ttl
}

// ExtractOPT finds and unpacks the OPT record in the additional
// section. Returns nil if none is present.
func ExtractOPT(m *Message) *OPTRecord {
	for i := range m.Additional {
		r := &m.Additional[i]
		if r.Type != TypeOPT {
			continue
		}
		o := &OPTRecord{
			UDPPayloadSize: uint16(r.Class),
			ExtendedRCode:  helpers.ClampUint32ToUint8((r.TTL >> 24) & 0xFF),
			Version:        helpers.ClampUint32ToUint8((r.TTL >> 16) & 0xFF),
			DNSSECOk:       (r.TTL>>15)&0x1 == 1,
		}
		if r.Data != nil {
			var raw []byte
			for _, v := range r.Data.Field(0) {
				if a, ok := v.(Anything); ok {
					raw = append(raw, a.Bytes()...)
				}
			}
			o.Data = raw
		}
		return o
	}
	return nil
}

// ClientMaxUDPSize returns the response budget a request advertises:
// the OPT payload size when EDNS is present (floored at 512), or the
// traditional 512-byte limit otherwise.
func ClientMaxUDPSize(m *Message) int {
	opt := ExtractOPT(m)
	if opt == nil {
		return DefaultUDPPayloadSize
	}
	if opt.UDPPayloadSize < DefaultUDPPayloadSize {
		return DefaultUDPPayloadSize
	}
	return int(opt.UDPPayloadSize)
}
