package netlist

import (
	"errors"
	"fmt"
)

// Sentinel errors for error-chain matching.
var (
	ErrMalformedLine          = errors.New("malformed line")
	ErrUnknownDeviceType      = errors.New("unknown device type")
	ErrDanglingTerminal       = errors.New("dangling terminal")
	ErrDuplicateComponentName = errors.New("duplicate component name")
	ErrUnknownDialect         = errors.New("unknown dialect")
)

// ParseErrorKind classifies parser failures.
type ParseErrorKind int

const (
	MalformedLine ParseErrorKind = iota
	UnknownDeviceType
	DanglingTerminal
	DuplicateComponentName
)

// String returns the kind name used in logs and reports.
func (k ParseErrorKind) String() string {
	switch k {
	case MalformedLine:
		return "malformed_line"
	case UnknownDeviceType:
		return "unknown_device_type"
	case DanglingTerminal:
		return "dangling_terminal"
	case DuplicateComponentName:
		return "duplicate_component_name"
	default:
		return "unknown"
	}
}

func (k ParseErrorKind) sentinel() error {
	switch k {
	case MalformedLine:
		return ErrMalformedLine
	case UnknownDeviceType:
		return ErrUnknownDeviceType
	case DanglingTerminal:
		return ErrDanglingTerminal
	case DuplicateComponentName:
		return ErrDuplicateComponentName
	default:
		return nil
	}
}

// ParseError is a structured parse failure. It is fatal only to the
// netlist that produced it; batch comparison isolates it per pair.
type ParseError struct {
	Kind ParseErrorKind
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Msg)
}

// Is reports whether target matches this error's kind sentinel.
func (e *ParseError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func parseErrorf(kind ParseErrorKind, line int, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}
