package dnswire

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"
)

// header returns 12 header bytes with the given ID, flags and counts.
func header(id, flags, qd, an, ns, ar uint16) []byte {
	return []byte{
		byte(id >> 8), byte(id), byte(flags >> 8), byte(flags),
		byte(qd >> 8), byte(qd), byte(an >> 8), byte(an),
		byte(ns >> 8), byte(ns), byte(ar >> 8), byte(ar),
	}
}

func TestDecodeSimpleQuery(t *testing.T) {
	msg := append(header(0x1234, 0x0100, 1, 0, 0, 0),
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		0x03, 'c', 'o', 'm', 0x00,
		0x00, 0x01, 0x00, 0x01,
	)

	m, err := Decode(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != 0x1234 {
		t.Errorf("expected ID 0x1234, got 0x%04x", m.ID)
	}
	if !m.RecursionDesired || m.Response {
		t.Errorf("flag split wrong: %+v", m)
	}
	if len(m.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(m.Questions))
	}
	q := m.Questions[0]
	if q.Name.String() != "example.com." {
		t.Errorf("unexpected name %q", q.Name.String())
	}
	if q.Type != TypeA || q.Class != ClassIN {
		t.Errorf("unexpected type/class %d/%d", q.Type, q.Class)
	}
}

func TestDecodePointerResolution(t *testing.T) {
	msg := append(header(1, 0, 2, 0, 0, 0),
		0x07, 'e', 'x', 'a', 'm', 'p', 'l', 'e',
		0x03, 'c', 'o', 'm', 0x00,
		0x00, 0x01, 0x00, 0x01,
	)
	msg = append(msg,
		0x03, 'w', 'w', 'w', 0xC0, 0x0C,
		0x00, 0x01, 0x00, 0x01,
	)

	m, err := Decode(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Questions[1].Name.String(); got != "www.example.com." {
		t.Errorf("expected www.example.com., got %q", got)
	}
}

// A pointer that targets itself must fail, not hang.
func TestDecodePointerCycle(t *testing.T) {
	msg := append(header(1, 0, 1, 0, 0, 0),
		0xC0, 0x0C,
		0x00, 0x01, 0x00, 0x01,
	)

	_, err := Decode(msg)
	if !errors.Is(err, ErrCompressionLoop) {
		t.Errorf("expected ErrCompressionLoop, got %v", err)
	}
}

func TestDecodeMutualPointerCycle(t *testing.T) {
	msg := append(header(1, 0, 1, 0, 0, 0),
		0xC0, 0x0E, // 12: points at 14
		0xC0, 0x0C, // 14: points back at 12
		0x00, 0x01, 0x00, 0x01,
	)

	_, err := Decode(msg)
	if !errors.Is(err, ErrCompressionLoop) {
		t.Errorf("expected ErrCompressionLoop, got %v", err)
	}
}

func TestDecodeReservedLabelBits(t *testing.T) {
	for _, b := range []byte{0x80, 0x40, 0xBF, 0x7F} {
		msg := append(header(1, 0, 1, 0, 0, 0),
			b, 'x', 0x00,
			0x00, 0x01, 0x00, 0x01,
		)
		_, err := Decode(msg)
		if !errors.Is(err, ErrReservedLabelType) {
			t.Errorf("label byte 0x%02x: expected ErrReservedLabelType, got %v", b, err)
		}
	}
}

func TestDecodePointerOutOfBounds(t *testing.T) {
	msg := append(header(1, 0, 1, 0, 0, 0),
		0xC0, 0xFF, // target 255, packet is far shorter
		0x00, 0x01, 0x00, 0x01,
	)

	_, err := Decode(msg)
	if !errors.Is(err, ErrPointerOutOfBounds) {
		t.Errorf("expected ErrPointerOutOfBounds, got %v", err)
	}
}

func TestDecodeNameTooLong(t *testing.T) {
	// 130 one-byte labels: 2*130+1 = 261 bytes of name wire, over the
	// 255 limit.
	name := bytes.Repeat([]byte{0x01, 'a'}, 130)
	name = append(name, 0x00)
	msg := append(header(1, 0, 1, 0, 0, 0), name...)
	msg = append(msg, 0x00, 0x01, 0x00, 0x01)

	_, err := Decode(msg)
	if !errors.Is(err, ErrNameTooLong) {
		t.Errorf("expected ErrNameTooLong, got %v", err)
	}
}

func TestDecodeShortReads(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
	}{
		{"empty", nil},
		{"header only half", header(1, 0, 0, 0, 0, 0)[:4]},
		{"question name cut", append(header(1, 0, 1, 0, 0, 0), 0x07, 'e', 'x')},
		{"question tail cut", append(header(1, 0, 1, 0, 0, 0), 0x00, 0x00, 0x01)},
		{"record meta cut", append(header(1, 0, 0, 1, 0, 0), 0x00, 0x00, 0x01)},
		{"rdata cut", append(header(1, 0, 0, 1, 0, 0),
			0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00, 0x3C, 0x00, 0x10, 0xDE, 0xAD)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.msg); !errors.Is(err, ErrShortRead) {
				t.Errorf("expected ErrShortRead, got %v", err)
			}
		})
	}
}

func TestDecodeRdataLengthMismatch(t *testing.T) {
	// A record with RDLENGTH=3: the address field needs 4 bytes.
	msg := append(header(1, 0x8000, 0, 1, 0, 0),
		0x00, // root owner
		0x00, 0x01, 0x00, 0x01, // TYPE=A CLASS=IN
		0x00, 0x00, 0x00, 0x3C, // TTL
		0x00, 0x03, // RDLENGTH
		192, 0, 2,
	)

	_, err := Decode(msg)
	if !errors.Is(err, ErrRdataLengthMismatch) {
		t.Errorf("expected ErrRdataLengthMismatch, got %v", err)
	}
}

func TestDecodeRdataTrailingBytes(t *testing.T) {
	// A record with RDLENGTH=6: two bytes left after the address.
	msg := append(header(1, 0x8000, 0, 1, 0, 0),
		0x00,
		0x00, 0x01, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x3C,
		0x00, 0x06,
		192, 0, 2, 1, 0xBE, 0xEF,
	)

	_, err := Decode(msg)
	if !errors.Is(err, ErrRdataLengthMismatch) {
		t.Errorf("expected ErrRdataLengthMismatch, got %v", err)
	}
}

func TestDecodeUnknownTypeAsOpaque(t *testing.T) {
	msg := append(header(1, 0x8000, 0, 1, 0, 0),
		0x00,
		0x00, 0x63, 0x00, 0x01, // TYPE=99, not in the registry
		0x00, 0x00, 0x00, 0x3C,
		0x00, 0x02,
		0xDE, 0xAD,
	)

	m, err := Decode(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals := m.Answers[0].Data.Get("rdata")
	if len(vals) != 1 {
		t.Fatalf("expected one opaque value, got %d", len(vals))
	}
	a, ok := vals[0].(Anything)
	if !ok {
		t.Fatalf("expected Anything, got %T", vals[0])
	}
	if !bytes.Equal(a.Bytes(), []byte{0xDE, 0xAD}) {
		t.Errorf("unexpected rdata %x", a.Bytes())
	}
}

func TestDecodeTXTVariadic(t *testing.T) {
	msg := append(header(1, 0x8000, 0, 1, 0, 0),
		0x00,
		0x00, 0x10, 0x00, 0x01, // TYPE=TXT
		0x00, 0x00, 0x00, 0x3C,
		0x00, 0x09,
		0x01, 'a', 0x02, 'b', 'b', 0x03, 'c', 'c', 'c',
	)

	m, err := Decode(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vals := m.Answers[0].Data.Get("txt-data")
	if len(vals) != 3 {
		t.Fatalf("expected 3 strings, got %d", len(vals))
	}
	for i, want := range []string{"a", "bb", "ccc"} {
		if vals[i].String() != want {
			t.Errorf("string %d: got %q, want %q", i, vals[i].String(), want)
		}
	}
}

func TestDecodeEmptyTXTFails(t *testing.T) {
	// TXT requires at least one character-string.
	msg := append(header(1, 0x8000, 0, 1, 0, 0),
		0x00,
		0x00, 0x10, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x3C,
		0x00, 0x00,
	)

	_, err := Decode(msg)
	if !errors.Is(err, ErrRdataLengthMismatch) {
		t.Errorf("expected ErrRdataLengthMismatch, got %v", err)
	}
}

func TestDecodeLimits(t *testing.T) {
	msg := append(header(1, 0, 2, 0, 0, 0),
		0x00, 0x00, 0x01, 0x00, 0x01,
		0x00, 0x00, 0x01, 0x00, 0x01,
	)

	_, err := DecodeWithOptions(msg, DecodeOptions{Limits: &DecodeLimits{MaxQuestions: 1}})
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("expected ErrMessageTooLarge, got %v", err)
	}

	_, err = DecodeWithOptions(msg, DecodeOptions{Limits: &DecodeLimits{MaxMessageSize: 8}})
	if !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("expected ErrMessageTooLarge, got %v", err)
	}

	if _, err = DecodeWithOptions(msg, DecodeOptions{Limits: &DecodeLimits{MaxQuestions: 2}}); err != nil {
		t.Errorf("unexpected error within limits: %v", err)
	}
}

func TestDecodeWithTraceLogger(t *testing.T) {
	msg := append(header(1, 0, 1, 0, 0, 0),
		0x03, 'w', 'w', 'w', 0x00,
		0x00, 0x01, 0x00, 0x01,
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := DecodeWithOptions(msg, DecodeOptions{Trace: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Questions[0].Name.String() != "www." {
		t.Errorf("unexpected name %q", m.Questions[0].Name.String())
	}
}
