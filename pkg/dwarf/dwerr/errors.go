// Package dwerr defines the error taxonomy shared by every dwarfkit package.
//
// Every fallible operation in dwarfkit returns a rich error instead of
// threading a side-channel error slot: callers that need the coarse-grained
// classification (structural, schema mismatch, not found, resource, I/O)
// use errors.Is against the Kind sentinels below, or call Classify to pull
// the Kind back out.
package dwerr

import (
	"errors"
	"fmt"
)

// Kind classifies a dwarfkit error into the taxonomy described by the
// covered specification. It is stable and observable: callers may switch on
// it without it changing shape between releases.
type Kind int

const (
	// KindNone is the zero value; never attached to a returned error.
	KindNone Kind = iota

	// Structural errors: the bytes themselves violate the format.
	KindInvalidDwarf
	KindInvalidReference
	KindInvalidLineIdx
	KindNoString
	KindInvalidCmd

	// Schema errors: the attribute's form does not match the requested
	// semantic class.
	KindNoAddr
	KindNoConstant
	KindNoReference
	KindNoBlock
	KindNoFlag

	// Not-found errors.
	KindNoEntry
	KindNoMatch
	KindAddrOutOfRange

	// Resource errors.
	KindNoMem

	// I/O / container errors.
	KindIOError
	KindNoRegFile
	KindInvalidFile
	KindWrongOrderEhdr
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidDwarf:
		return "INVALID_DWARF"
	case KindInvalidReference:
		return "INVALID_REFERENCE"
	case KindInvalidLineIdx:
		return "INVALID_LINE_IDX"
	case KindNoString:
		return "NO_STRING"
	case KindInvalidCmd:
		return "INVALID_CMD"
	case KindNoAddr:
		return "NO_ADDR"
	case KindNoConstant:
		return "NO_CONSTANT"
	case KindNoReference:
		return "NO_REFERENCE"
	case KindNoBlock:
		return "NO_BLOCK"
	case KindNoFlag:
		return "NO_FLAG"
	case KindNoEntry:
		return "NO_ENTRY"
	case KindNoMatch:
		return "NO_MATCH"
	case KindAddrOutOfRange:
		return "ADDR_OUTOFRANGE"
	case KindNoMem:
		return "NOMEM"
	case KindIOError:
		return "IO_ERROR"
	case KindNoRegFile:
		return "NO_REGFILE"
	case KindInvalidFile:
		return "INVALID_FILE"
	case KindWrongOrderEhdr:
		return "WRONG_ORDER_EHDR"
	default:
		return "unknown"
	}
}

// sentinel is the error wrapped by every Error of a given Kind, so that
// errors.Is(err, dwerr.InvalidDwarf) works regardless of the detail message.
type sentinel struct{ kind Kind }

func (s sentinel) Error() string { return s.kind.String() }

// Exported sentinels, one per Kind, for use with errors.Is.
var (
	InvalidDwarf     error = sentinel{KindInvalidDwarf}
	InvalidReference error = sentinel{KindInvalidReference}
	InvalidLineIdx   error = sentinel{KindInvalidLineIdx}
	NoString         error = sentinel{KindNoString}
	InvalidCmd       error = sentinel{KindInvalidCmd}
	NoAddr           error = sentinel{KindNoAddr}
	NoConstant       error = sentinel{KindNoConstant}
	NoReference      error = sentinel{KindNoReference}
	NoBlock          error = sentinel{KindNoBlock}
	NoFlag           error = sentinel{KindNoFlag}
	NoEntry          error = sentinel{KindNoEntry}
	NoMatch          error = sentinel{KindNoMatch}
	AddrOutOfRange   error = sentinel{KindAddrOutOfRange}
	NoMem            error = sentinel{KindNoMem}
	IOError          error = sentinel{KindIOError}
	NoRegFile        error = sentinel{KindNoRegFile}
	InvalidFile      error = sentinel{KindInvalidFile}
	WrongOrderEhdr   error = sentinel{KindWrongOrderEhdr}
)

// Error wraps a sentinel Kind with a detail message and, optionally, an
// underlying cause. Propagation never re-wraps:
// intermediate layers return the *same* Error value they received verbatim,
// so errors.Is and Classify keep working no matter how many layers it
// crossed.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return sentinelFor(e.Kind)
}

func sentinelFor(k Kind) error {
	switch k {
	case KindInvalidDwarf:
		return InvalidDwarf
	case KindInvalidReference:
		return InvalidReference
	case KindInvalidLineIdx:
		return InvalidLineIdx
	case KindNoString:
		return NoString
	case KindInvalidCmd:
		return InvalidCmd
	case KindNoAddr:
		return NoAddr
	case KindNoConstant:
		return NoConstant
	case KindNoReference:
		return NoReference
	case KindNoBlock:
		return NoBlock
	case KindNoFlag:
		return NoFlag
	case KindNoEntry:
		return NoEntry
	case KindNoMatch:
		return NoMatch
	case KindAddrOutOfRange:
		return AddrOutOfRange
	case KindNoMem:
		return NoMem
	case KindIOError:
		return IOError
	case KindNoRegFile:
		return NoRegFile
	case KindInvalidFile:
		return InvalidFile
	case KindWrongOrderEhdr:
		return WrongOrderEhdr
	default:
		return sentinel{k}
	}
}

// New builds a detailed Error of the given Kind: a sentinel plus a
// formatted detail message, generalized to dwarfkit's own Kind taxonomy
// instead of a single shared error value.
func New(kind Kind, detailFormat string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(detailFormat, args...)}
}

// Wrap attaches a Kind classification to an underlying error without
// discarding it: Unwrap reaches the original cause, and errors.Is(err,
// sentinelFor(kind)) still succeeds via the Is method below.
func Wrap(kind Kind, cause error, detailFormat string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(detailFormat, args...), cause: cause}
}

// Is makes errors.Is(err, dwerr.InvalidDwarf) succeed for any *Error of that
// Kind, regardless of Detail or wrapped cause.
func (e *Error) Is(target error) bool {
	if s, ok := target.(sentinel); ok {
		return s.kind == e.Kind
	}
	return false
}

// Classify extracts the Kind from any error produced by this package,
// returning KindNone for errors that did not originate here.
func Classify(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var s sentinel
	if errors.As(err, &s) {
		return s.kind
	}
	return KindNone
}
