package loader

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is against a *Error's Kind
// sentinel, e.g. errors.Is(err, loader.ErrSourceNotFound).
var (
	ErrUnsupportedLocator = errors.New("unsupported locator")
	ErrInvalidLocator     = errors.New("invalid locator")
	ErrSourceNotFound     = errors.New("source not found")
	ErrInvalidStructure   = errors.New("invalid package structure")
	ErrTransport          = errors.New("transport failure")
	ErrArchive            = errors.New("archive corruption")
	ErrMetadata           = errors.New("metadata missing or corrupted")
)

// Error is the single error family raised by the loader subsystem. It
// carries the locator and metadata context of the failed operation so
// callers can report which resource failed without unpacking wrapped
// causes.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error
	// Msg describes the failure.
	Msg string
	// Loc is the locator involved, when known.
	Loc Locator
	// Meta is the metadata involved, when the failure happened after a
	// fetch (e.g. structural validation).
	Meta *LoadedMeta
	// Hint optionally suggests a remediation to the user.
	Hint string
	// Err is the underlying cause, preserved for diagnostics.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Locator returns the locator associated with the failure, falling back to
// the metadata's locator when the error was raised with metadata only.
func (e *Error) Locator() Locator {
	if e.Loc != nil {
		return e.Loc
	}
	if e.Meta != nil {
		return e.Meta.Locator
	}
	return nil
}

// FixHint returns the remediation hint, if any. The cli package renders it
// below the error message.
func (e *Error) FixHint() string { return e.Hint }

func newError(kind error, loc Locator, format string, args ...any) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind error, loc Locator, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Loc: loc, Err: cause, Msg: fmt.Sprintf(format, args...)}
}

// structureError reports a target-path resolver rejection for the fetched
// tree described by meta.
func structureError(meta *LoadedMeta, cause error) *Error {
	return &Error{
		Kind: ErrInvalidStructure,
		Meta: meta,
		Err:  cause,
		Msg:  fmt.Sprintf("package %s has invalid structure (directory layout)", meta.Locator),
	}
}
