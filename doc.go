// Package dnswire encodes and decodes DNS messages between an in-memory
// message model and the RFC 1035 wire representation.
//
// Standards Compliance:
//
//   - RFC 1035: Domain Names - Implementation and Specification (core DNS protocol)
//   - RFC 3596: DNS Extensions to Support IPv6 (AAAA records)
//   - RFC 4343: Domain Name System (DNS) Case Insensitivity Clarification
//   - RFC 6891: Extension Mechanisms for DNS (EDNS, OPT records)
//
// The package is a codec, not a resolver: it opens no sockets, caches
// nothing, and keeps no state beyond the message being processed.
//
// Field-Model Design:
//
// Each resource-record type is described by a TypeDef: an ordered list
// of typed fields, where the last field may be variadic. Record RDATA
// is held in a RecordData validated against its TypeDef. Types absent
// from the TypeRegistry round-trip as opaque byte strings.
//
// Wire Codec:
//
// Encode walks a Message section by section, applying RFC 1035 §4.1.4
// name compression and enforcing the 512-byte UDP budget: a record that
// would overflow is dropped together with everything after it, and the
// header is emitted with TC=1 and the committed counts. Decode follows
// compression pointers with loop detection and interprets RDATA against
// the type registry.
//
// Error Handling:
//
// All errors wrap a sentinel with fmt.Errorf("...: %w", err), so
// callers can classify failures with errors.Is. Exceeding the size
// budget on encode is not an error; it sets the TC bit instead.
package dnswire
