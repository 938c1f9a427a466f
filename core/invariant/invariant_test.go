package invariant_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/helix-lang/helix/core/invariant"
)

// expectPanic runs fn and returns the panic message, failing the test when
// fn returns normally.
func expectPanic(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		msg = fmt.Sprintf("%v", r)
	}()
	fn()
	return ""
}

func TestPassingAssertionsDoNotPanic(t *testing.T) {
	var x int
	invariant.Precondition(true, "pass")
	invariant.Postcondition(2+2 == 4, "math works")
	invariant.Invariant(len("helix") == 5, "length")
	invariant.NotNil(&x, "x")
	invariant.ValidUTF8([]byte("fn main() { \"héllo\" }"), "source")
	invariant.ExpectNoError(nil, "noop")
}

func TestViolationMessages(t *testing.T) {
	tests := []struct {
		name  string
		fn    func()
		wants []string
	}{
		{
			name:  "precondition",
			fn:    func() { invariant.Precondition(false, "row %d must not be negative", -1) },
			wants: []string{"PRECONDITION VIOLATION", "row -1 must not be negative"},
		},
		{
			name:  "postcondition",
			fn:    func() { invariant.Postcondition(false, "token count must match") },
			wants: []string{"POSTCONDITION VIOLATION", "token count must match"},
		},
		{
			name:  "invariant",
			fn:    func() { invariant.Invariant(false, "scanner must advance") },
			wants: []string{"INVARIANT VIOLATION", "scanner must advance"},
		},
		{
			name:  "typed nil",
			fn:    func() { var p *int; invariant.NotNil(p, "tokenizer") },
			wants: []string{"PRECONDITION VIOLATION", "tokenizer must not be nil"},
		},
		{
			name:  "invalid utf8",
			fn:    func() { invariant.ValidUTF8([]byte{'a', 'b', 0xff, 'c'}, "input") },
			wants: []string{"input must be valid UTF-8", "offset 2"},
		},
		{
			name:  "unexpected error",
			fn:    func() { invariant.ExpectNoError(errors.New("boom"), "schema compile") },
			wants: []string{"schema compile must not fail: boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := expectPanic(t, tt.fn)
			for _, want := range tt.wants {
				if !strings.Contains(msg, want) {
					t.Errorf("panic message %q does not contain %q", msg, want)
				}
			}
			if !strings.Contains(msg, "\n  at ") {
				t.Errorf("expected call-site location in %q", msg)
			}
		})
	}
}

func TestViolationPointsAtCaller(t *testing.T) {
	msg := expectPanic(t, func() {
		invariant.Precondition(false, "caller location")
	})
	if !strings.Contains(msg, "invariant_test.go") {
		t.Errorf("expected caller file in location, got: %s", msg)
	}
}

func ExamplePrecondition() {
	defer func() {
		r := recover()
		msg := fmt.Sprint(r)
		fmt.Println(msg[:strings.Index(msg, "\n")])
	}()
	invariant.Precondition(false, "start row must not be negative, got %d", -3)
	// Output: PRECONDITION VIOLATION: start row must not be negative, got -3
}
