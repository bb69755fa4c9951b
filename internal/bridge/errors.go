package bridge

import "errors"

// Errors returned by the dtype bridge. All of them are deterministic
// type mismatches: retrying never helps, and no partial TaggedArray is
// returned alongside any of them.
var (
	// ErrUnsupportedDType marks dtypes that need out-of-band
	// quantization parameters: an opaque byte round-trip alone would
	// silently lose the information needed to decode them.
	ErrUnsupportedDType = errors.New("dtype requires quantization parameters and cannot be serialized")

	// ErrUnrepresentableWidth marks element widths with no plain
	// integer stand-in for opaque encoding.
	ErrUnrepresentableWidth = errors.New("no integer stand-in for element width")

	// ErrUnrepresentableDType marks array dtypes with no tensor dtype
	// equivalent. Anything that cannot be reverse-mapped at encode
	// time would be unreconstructible at decode time.
	ErrUnrepresentableDType = errors.New("array dtype has no tensor equivalent")

	// ErrMissingDTypeName marks opaque data carrying no tensor dtype
	// name, or a resolution attempt on an empty name.
	ErrMissingDTypeName = errors.New("no tensor dtype name recorded")

	// ErrInvalidDTypeName marks a malformed, wrongly namespaced, or
	// non-dtype-resolving dtype name.
	ErrInvalidDTypeName = errors.New("invalid tensor dtype name")
)
