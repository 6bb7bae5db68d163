// Package btserr classifies errors per a small taxonomy.
//
// The reference C implementation uses return codes and goto-close chains,
// with no equivalent package; this package is deliberately small and
// stdlib-only (errors.New / fmt.Errorf / errors.Is) -- the justified
// exception noted in DESIGN.md: no third-party error-taxonomy library
// appears anywhere in the retrieved pack, so there is nothing else to
// adopt here.
package btserr

import "errors"

// Class identifies which row of the error taxonomy an error
// belongs to, so callers can decide whether to count it, log it once, or
// treat it as a programming-invariant violation.
type Class int

const (
	// ClassTransientRadio covers bad CRC, missing burst, too few
	// measurements: never propagated, only counted.
	ClassTransientRadio Class = iota
	// ClassInvalidL2 covers oversize/short L2 payloads: message dropped,
	// counted, logged once.
	ClassInvalidL2
	// ClassLinkFailure covers Abis/PCU link loss.
	ClassLinkFailure
	// ClassProgrammingInvariant covers FSM state mismatches and other
	// conditions that should be impossible; the only class considered
	// fatal.
	ClassProgrammingInvariant
)

func (c Class) String() string {
	switch c {
	case ClassTransientRadio:
		return "transient-radio"
	case ClassInvalidL2:
		return "invalid-l2"
	case ClassLinkFailure:
		return "link-failure"
	case ClassProgrammingInvariant:
		return "programming-invariant"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Class.
type Error struct {
	Class Class
	Op    string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Class.String()
	}
	return e.Op + ": " + e.Class.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error.
func New(class Class, op string, cause error) *Error {
	return &Error{Class: class, Op: op, Err: cause}
}

// Is reports whether err (or anything it wraps) is classified as class.
func Is(err error, class Class) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Class == class
	}
	return false
}

// ErrInvariant is raised (via New(ClassProgrammingInvariant, ...)) and
// should be treated by callers the way osmo-bts treats OSMO_ASSERT: log and
// abort the owning goroutine / process, never silently continue.
var ErrInvariant = errors.New("programming invariant violated")
