package dnswire

// LabelRegistry tracks where label suffixes first appeared within one
// packet, keyed by the dotted, lowercased form of one or more
// consecutive labels from the tail of a name. Offsets are header
// inclusive, so on encode every registered offset is >= 12.
//
// The registry lives exactly as long as one packet: the encoder starts
// with an empty one, the decoder populates one while parsing. It keeps
// the suffix→offset and offset→suffix maps in lockstep, first write
// wins, so pointers stay monotone and never reference forward.
type LabelRegistry struct {
	bySuffix map[string]int
	byOffset map[int]string
}

// NewLabelRegistry creates an empty registry.
func NewLabelRegistry() *LabelRegistry {
	return &LabelRegistry{
		bySuffix: make(map[string]int),
		byOffset: make(map[int]string),
	}
}

// Register records that suffix starts at offset. Idempotent: the
// earliest offset for a given suffix is kept.
func (r *LabelRegistry) Register(suffix string, offset int) {
	if _, ok := r.bySuffix[suffix]; !ok {
		r.bySuffix[suffix] = offset
	}
	if _, ok := r.byOffset[offset]; !ok {
		r.byOffset[offset] = suffix
	}
}

// LookupIndex returns the earliest offset registered for suffix.
// Offsets that do not fit the 14-bit pointer field are treated as
// misses, so the encoder never emits an illegal pointer.
func (r *LabelRegistry) LookupIndex(suffix string) (int, bool) {
	offset, ok := r.bySuffix[suffix]
	if !ok || offset >= MaxPointerTarget {
		return 0, false
	}
	return offset, true
}

// LookupSuffix returns the suffix first seen at offset. Used when
// synthesising trace output on decode; not needed for correctness.
func (r *LabelRegistry) LookupSuffix(offset int) (string, bool) {
	suffix, ok := r.byOffset[offset]
	return suffix, ok
}
