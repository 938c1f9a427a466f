// Package diagnostics turns scanner output into user-facing errors.
//
// The scanner reports problems as data: Unknown tokens and literals whose
// Complete flag is false. Collect maps those onto coded diagnostics, Bag
// gathers them across goroutines and Emitter renders them with the offending
// source line underneath.
package diagnostics

import "fmt"

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic codes
const (
	CodeUnterminatedString  = "E0001"
	CodeUnterminatedChar    = "E0002"
	CodeUnterminatedComment = "E0003"
	CodeMalformedNumber     = "E0004"
	CodeUnknownCharacter    = "E0005"
	CodeKeywordTypo         = "H0001"
)

// Diagnostic is one finding anchored at a source position. Row and Column
// use the scanner's conventions: Column is a 0-based byte count.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Path     string
	Row      int
	Column   int
	Length   int // bytes underlined on Row
	Help     string
}

// String renders the one-line form "path:row:col: error[E0001]: message",
// with a 1-based column as editors expect.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s[%s]: %s", d.Path, d.Row, d.Column+1, d.Severity, d.Code, d.Message)
}
