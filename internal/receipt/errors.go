package receipt

import (
	"errors"
	"fmt"
)

// Error kinds for the parsing pipeline. A failed parse always wraps one
// of these so callers can branch with errors.Is. Parsing is fail-fast:
// a single malformed line fails the whole receipt rather than silently
// skipping it and corrupting the shared total.
var (
	// ErrMalformedHeader means the order-id or slot-time line is missing
	// or its text does not match the expected grammar.
	ErrMalformedHeader = errors.New("malformed receipt header")
	// ErrMissingSectionMarkers means the item-block boundary lines are
	// absent or in the wrong order.
	ErrMissingSectionMarkers = errors.New("missing section markers")
	// ErrFieldSplit means a logical item line could not be split into
	// amount, name and price.
	ErrFieldSplit = errors.New("cannot split item line")
	// ErrInvalidAmount means the amount field is neither an integer
	// quantity nor a "<float>kg" weight.
	ErrInvalidAmount = errors.New("invalid amount field")
)

// LineError carries the offending raw line and its position alongside
// the error kind, so a human can correct the source receipt or report
// a parser bug.
type LineError struct {
	Kind   error
	Line   string // offending raw line text, "" if not tied to one line
	Pos    int    // zero-based index in the raw line sequence, -1 if unknown
	Reason string
}

func (e *LineError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v: %s (line %d: %q)", e.Kind, e.Reason, e.Pos, e.Line)
}

func (e *LineError) Unwrap() error { return e.Kind }

// NewLineError builds a LineError for the given kind.
func NewLineError(kind error, line string, pos int, format string, args ...any) *LineError {
	return &LineError{
		Kind:   kind,
		Line:   line,
		Pos:    pos,
		Reason: fmt.Sprintf(format, args...),
	}
}
