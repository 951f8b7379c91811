package dnswire

import "errors"

var (
	// ErrInvalidFieldDefinition reports a malformed type-definition
	// declaration: bad field name syntax, a quantifier on a non-final
	// field, or a duplicate field name.
	ErrInvalidFieldDefinition = errors.New("invalid field definition")

	// ErrFieldValueOutOfRange reports a primitive constructor rejecting
	// its input: integer overflow, wrong octet count, label too long.
	ErrFieldValueOutOfRange = errors.New("field value out of range")

	// ErrUnknownTypeKind reports a value whose kind has no wire encoder.
	ErrUnknownTypeKind = errors.New("unknown type kind")

	// ErrShortRead reports a packet shorter than its declared fields need.
	ErrShortRead = errors.New("short read")

	// ErrReservedLabelType reports a label length byte with the reserved
	// high-bit patterns 10 or 01 (RFC 1035 §4.1.4).
	ErrReservedLabelType = errors.New("reserved label type")

	// ErrPointerOutOfBounds reports a compression pointer targeting an
	// offset at or past the end of the packet.
	ErrPointerOutOfBounds = errors.New("compression pointer out of bounds")

	// ErrCompressionLoop reports a compression pointer chain revisiting
	// an offset within a single name decode.
	ErrCompressionLoop = errors.New("compression pointer loop")

	// ErrNameTooLong reports a name whose wire form exceeds 255 bytes.
	ErrNameTooLong = errors.New("name too long")

	// ErrRdataLengthMismatch reports RDATA whose decoded fields consumed
	// a different number of bytes than the declared RDLENGTH.
	ErrRdataLengthMismatch = errors.New("rdata length mismatch")

	// ErrMessageTooLarge reports an incoming message exceeding the
	// configured decode limits.
	ErrMessageTooLarge = errors.New("dns message exceeds limits")
)
