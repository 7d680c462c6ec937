package parser

import "fmt"

// Kind classifies parse failures.
type Kind int

const (
	InvalidSyntax Kind = iota
	UnknownOpcode
	InvalidAddress
	UnresolvedLabel
	DuplicateLabel
)

func (k Kind) String() string {
	switch k {
	case InvalidSyntax:
		return "InvalidSyntax"
	case UnknownOpcode:
		return "UnknownOpcode"
	case InvalidAddress:
		return "InvalidAddress"
	case UnresolvedLabel:
		return "UnresolvedLabel"
	case DuplicateLabel:
		return "DuplicateLabel"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// ParseError reports a save-file diagnostic with a 1-based source line.
// Parsing is all-or-nothing: on error no partial program is returned.
type ParseError struct {
	Kind    Kind
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
}

func errorf(kind Kind, line int, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}
