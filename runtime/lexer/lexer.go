// Package lexer implements the Helix scanner: a zero-copy, single-pass byte
// scanner that turns UTF-8 source into classified tokens with row/column
// positions.
//
// The scanner is total. Every call to Next that does not report the end of
// input consumes at least one byte, and malformed input surfaces as data:
// Unknown tokens, or literals with Complete set to false. It never logs and
// never panics on source content; the only contract is that the buffer is
// valid UTF-8.
package lexer

import (
	"iter"
	"time"
	"unicode/utf8"

	"github.com/helix-lang/helix/core/invariant"
)

// Tokenizer scans one buffer. It borrows the buffer: tokens are sub-slices
// of it, so the buffer must outlive the Tokenizer and every Token it yields.
// A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	// Core scanning state; 0 <= head <= tail <= len(input)
	input     []byte
	head      int // start of the current lexeme
	tail      int // scan position
	row       int
	startRow  int
	lineStart int // offset just past the most recent newline

	// Telemetry (nil when disabled for zero allocation)
	telemetryMode  TelemetryMode
	tokenTelemetry map[TokenType]*TokenTelemetry

	// nil unless WithTracer was given
	tracer Tracer
}

// New creates a tokenizer positioned at the start of input. startRow is the
// row reported for the first line; pass 1 for 1-based rows, or the absolute
// row when input is a sub-span of a larger file.
func New(input []byte, startRow int, opts ...LexerOpt) *Tokenizer {
	config := &LexerConfig{}
	for _, opt := range opts {
		opt(config)
	}

	t := &Tokenizer{
		telemetryMode: config.telemetry,
		tracer:        config.tracer,
	}

	// Only allocate telemetry structures when needed
	if config.telemetry > TelemetryOff {
		t.tokenTelemetry = make(map[TokenType]*TokenTelemetry)
	}

	t.Reset(input, startRow)
	return t
}

// Reset rebinds the tokenizer to a new buffer without reallocating.
func (t *Tokenizer) Reset(input []byte, startRow int) {
	invariant.ValidUTF8(input, "tokenizer input")

	t.input = input
	t.head = 0
	t.tail = 0
	t.row = startRow
	t.startRow = startRow
	t.lineStart = 0

	// Clear existing stats without reallocating map
	clear(t.tokenTelemetry)
}

// Position returns the row and column of the scan position.
func (t *Tokenizer) Position() (row, column int) {
	return t.row, t.tail - t.lineStart
}

// Offset returns the scan position as a byte offset.
func (t *Tokenizer) Offset() int {
	return t.tail
}

// Next returns the next token. The boolean is false only once the input is
// exhausted; from then on every call returns (Token{}, false).
func (t *Tokenizer) Next() (Token, bool) {
	var start time.Time
	if t.telemetryMode >= TelemetryTiming {
		start = time.Now()
	}

	tok, ok := t.scan()

	if ok && t.telemetryMode > TelemetryOff {
		var elapsed time.Duration
		if t.telemetryMode >= TelemetryTiming {
			elapsed = time.Since(start)
		}
		t.recordTokenTelemetry(tok, elapsed)
	}

	return tok, ok
}

// All drains the remaining tokens into a slice pre-sized with EstimateTokens.
func (t *Tokenizer) All() []Token {
	tokens := make([]Token, 0, EstimateTokens(t.input[t.tail:]))
	for {
		tok, ok := t.Next()
		if !ok {
			invariant.Postcondition(t.tail == len(t.input), "tokenizer stopped at %d of %d bytes", t.tail, len(t.input))
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Tokens returns the token sequence of the bound buffer. Each range over the
// sequence restarts from the beginning of the buffer.
func (t *Tokenizer) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		t.Reset(t.input, t.startRow)
		for {
			tok, ok := t.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// GatherAll tokenizes input in one go.
func GatherAll(input []byte, startRow int, opts ...LexerOpt) []Token {
	return New(input, startRow, opts...).All()
}

// scan performs the actual tokenization work
func (t *Tokenizer) scan() (Token, bool) {
	t.skipWhitespace()

	if t.tail >= len(t.input) {
		if t.tracer != nil {
			t.trace("done", "end of input")
		}
		return Token{}, false
	}

	row, column := t.row, t.tail-t.lineStart
	ch := t.input[t.tail]
	if t.tracer != nil {
		t.trace("current_char", string(rune(ch)))
	}

	typ, complete := t.dispatch(ch)

	// Checked before calling so the hot path does not box the offset
	if t.tail <= t.head {
		invariant.Invariant(false, "scanner must consume at least one byte at offset %d", t.head)
	}

	tok := Token{
		Type:     typ,
		Text:     t.input[t.head:t.tail],
		Row:      row,
		Column:   column,
		Offset:   t.head,
		Complete: complete,
	}
	t.head = t.tail

	if t.tracer != nil {
		t.trace("emit", typ.String()+" "+string(tok.Text))
	}
	return tok, true
}

// dispatch classifies the byte at tail and consumes one lexeme.
func (t *Tokenizer) dispatch(ch byte) (TokenType, bool) {
	if ch >= utf8.RuneSelf {
		t.lexUnknown()
		return Unknown, true
	}

	switch {
	case ch == commentLead && t.peek(1) == commentLead:
		t.lexLineComment()
		return Comment, true

	case ch == commentLead && t.hasPrefix(blockCommentMarker):
		return Comment, t.lexBlockComment()

	case isQuote[ch]:
		return t.lexLiteral(ch)

	case isIdentStart[ch]:
		return t.lexIdentifier()

	case isDigit[ch]:
		return t.lexNumber(), true

	case isOperatorLead[ch]:
		if n := MatchOperator(t.input[t.tail:]); n > 0 {
			if t.tracer != nil {
				t.trace("found_operator", string(t.input[t.tail:t.tail+n]))
			}
			t.tail += n
			return Operator, true
		}
		// ':' leads "::" but is a separator on its own
		if isSeparator[ch] {
			t.tail++
			return Delimiter, true
		}

	case isDelimiter[ch], isSeparator[ch]:
		t.tail++
		return Delimiter, true
	}

	t.lexUnknown()
	return Unknown, true
}

// skipWhitespace discards whitespace, moving head and tail together
func (t *Tokenizer) skipWhitespace() {
	for t.tail < len(t.input) {
		ch := t.input[t.tail]
		if ch >= utf8.RuneSelf || !isWhitespace[ch] {
			break
		}
		if ch == '\n' {
			t.newline(t.tail)
		}
		t.tail++
	}
	t.head = t.tail
}

// newline records a newline byte at offset at.
func (t *Tokenizer) newline(at int) {
	t.row++
	t.lineStart = at + 1
}

// lexIdentifier reads [a-zA-Z_][a-zA-Z0-9_]*. When the identifier is
// immediately followed by a quote and its last byte is a quote prefix
// (r, b, u, f), the window continues as a literal: b"bytes", r'x'.
func (t *Tokenizer) lexIdentifier() (TokenType, bool) {
	for t.tail < len(t.input) {
		ch := t.input[t.tail]
		if ch >= utf8.RuneSelf || !isIdentPart[ch] {
			break
		}
		t.tail++
	}

	if t.tail < len(t.input) {
		next := t.input[t.tail]
		if next < utf8.RuneSelf && isQuote[next] && isQuotePrefix[t.input[t.tail-1]] {
			return t.lexLiteral(next)
		}
	}

	return Identifier, true
}

// lexLiteral reads a quoted literal starting at the quote byte under tail.
// A backslash escapes the byte after it, so \" and \\ never close the
// literal. Newlines are allowed and advance the row. Reaching end of input
// yields an incomplete literal rather than an error.
func (t *Tokenizer) lexLiteral(quote byte) (TokenType, bool) {
	if t.tracer != nil {
		t.trace("enter_literal", string(rune(quote)))
	}
	typ := literalType(quote)
	t.tail++ // opening quote

	for t.tail < len(t.input) {
		ch := t.input[t.tail]
		switch ch {
		case quote:
			t.tail++
			return typ, true
		case escapeByte:
			t.tail++
			if t.tail < len(t.input) {
				if t.input[t.tail] == '\n' {
					t.newline(t.tail)
				}
				t.tail++
			}
		case '\n':
			t.newline(t.tail)
			t.tail++
		default:
			t.tail++
		}
	}

	if t.tracer != nil {
		t.trace("incomplete_literal", string(t.input[t.head:t.tail]))
	}
	return typ, false
}

// lexNumber reads digits and '_' separators with at most one decimal point.
// A '.' only belongs to the number when a digit follows it, so 1..5 and
// 1.max scan as separate tokens. A second fractional part (1.2.3) makes the
// whole digit/separator/dot run an Unknown token.
func (t *Tokenizer) lexNumber() TokenType {
	typ := IntegerLiteral

	for t.tail < len(t.input) {
		ch := t.input[t.tail]
		switch {
		case ch < utf8.RuneSelf && isDigit[ch], ch == numericSeparator:
			t.tail++
		case ch == decimalPoint && t.digitAt(t.tail+1):
			if typ == FloatLiteral {
				if t.tracer != nil {
					t.trace("malformed_number", string(t.input[t.head:t.tail]))
				}
				t.consumeNumericRun()
				return Unknown
			}
			typ = FloatLiteral
			t.tail++
		default:
			return typ
		}
	}

	return typ
}

// consumeNumericRun swallows the rest of a malformed numeric literal.
func (t *Tokenizer) consumeNumericRun() {
	for t.tail < len(t.input) {
		ch := t.input[t.tail]
		if ch >= utf8.RuneSelf || (!isDigit[ch] && ch != numericSeparator && ch != decimalPoint) {
			return
		}
		t.tail++
	}
}

var blockCommentMarker = []byte("~*~")

// lexLineComment reads ~~ up to, not including, the next newline.
func (t *Tokenizer) lexLineComment() {
	for t.tail < len(t.input) && t.input[t.tail] != '\n' {
		t.tail++
	}
}

// lexBlockComment reads ~*~ ... ~*~ and reports whether the closing marker
// was found.
func (t *Tokenizer) lexBlockComment() bool {
	t.tail += len(blockCommentMarker)

	for t.tail < len(t.input) {
		if t.hasPrefix(blockCommentMarker) {
			t.tail += len(blockCommentMarker)
			return true
		}
		if t.input[t.tail] == '\n' {
			t.newline(t.tail)
		}
		t.tail++
	}
	return false
}

// lexUnknown consumes exactly one UTF-8 sequence (one byte for ASCII).
func (t *Tokenizer) lexUnknown() {
	if t.input[t.tail] < utf8.RuneSelf {
		t.tail++
		return
	}
	_, size := utf8.DecodeRune(t.input[t.tail:])
	t.tail += size // size is at least 1, even for invalid bytes
}

// peek returns the byte n positions after tail, or 0 past the end.
func (t *Tokenizer) peek(n int) byte {
	if t.tail+n >= len(t.input) {
		return 0
	}
	return t.input[t.tail+n]
}

func (t *Tokenizer) digitAt(i int) bool {
	return i < len(t.input) && t.input[i] < utf8.RuneSelf && isDigit[t.input[i]]
}

func (t *Tokenizer) hasPrefix(p []byte) bool {
	if len(t.input)-t.tail < len(p) {
		return false
	}
	for i, b := range p {
		if t.input[t.tail+i] != b {
			return false
		}
	}
	return true
}

func (t *Tokenizer) trace(event, context string) {
	t.tracer.Trace(TraceEvent{
		Timestamp: time.Now(),
		Event:     event,
		Row:       t.row,
		Column:    t.tail - t.lineStart,
		Offset:    t.tail,
		Context:   context,
	})
}
