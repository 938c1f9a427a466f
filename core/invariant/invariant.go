// Package invariant provides contract assertions for the Helix front end.
//
// Assertions express programming errors: a caller that broke a documented
// contract (for example, handing the scanner a buffer that is not UTF-8).
// They never fire for user input. Malformed source text is reported as data
// by the scanner and turned into diagnostics elsewhere.
//
// All functions panic on violation.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
	"unicode/utf8"
)

// Precondition checks an input contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Example:
//
//	func New(input []byte, startRow int) *Tokenizer {
//	    invariant.Precondition(startRow >= 0, "start row must not be negative, got %d", startRow)
//	    // ...
//	}
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks internal consistency during execution, typically loop
// progress:
//
//	prev := t.tail
//	tok, ok := t.Next()
//	invariant.Invariant(!ok || t.tail > prev, "scanner must advance")
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including typed nils such as (*T)(nil).
func NotNil(value any, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value any) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// ValidUTF8 panics if data is not valid UTF-8. The offset of the first
// invalid byte is included in the message.
func ValidUTF8(data []byte, name string) {
	if utf8.Valid(data) {
		return
	}
	fail("PRECONDITION", "%s must be valid UTF-8 (first invalid byte at offset %d)",
		name, firstInvalid(data))
}

func firstInvalid(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// ExpectNoError panics if err is not nil.
// Use for operations that cannot fail given their inputs (e.g. encoding a
// compile-time constant schema).
func ExpectNoError(err error, msg string) {
	if err != nil {
		fail("POSTCONDITION", "%s must not fail: %v", msg, err)
	}
}

// fail panics with a formatted message including the call site.
func fail(kind, format string, args ...any) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]any{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
