package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tokenExpectation represents an expected token for testing
type tokenExpectation struct {
	Type   TokenType
	Text   string
	Row    int
	Column int
}

// assertTokens compares actual tokens with expected, providing clear error messages
func assertTokens(t *testing.T, name string, input string, expected []tokenExpectation) {
	t.Helper()

	tokens := GatherAll([]byte(input), 1)
	actual := []tokenExpectation{}
	for _, token := range tokens {
		actual = append(actual, tokenExpectation{
			Type:   token.Type,
			Text:   token.String(),
			Row:    token.Row,
			Column: token.Column,
		})
	}

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("%s: token mismatch (-expected +actual):\n%s", name, diff)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n", " \t\r\f\n "} {
		tok := New([]byte(input), 1)
		if got, ok := tok.Next(); ok {
			t.Errorf("input %q: expected no tokens, got %v %q", input, got.Type, got.String())
		}
		// Done is terminal
		if _, ok := tok.Next(); ok {
			t.Errorf("input %q: expected Next to stay exhausted", input)
		}
	}
}

func TestCanonicalFixture(t *testing.T) {
	input := "fn === main() { println!(\"Hello,\nworld!\"); \"Hello; \\\" world!\" if true != false { let x = 5 | b\"some\" | 'c'; } }"

	type typedText struct {
		Type TokenType
		Text string
	}
	expected := []typedText{
		{Identifier, "fn"},
		{Operator, "==="},
		{Identifier, "main"},
		{Delimiter, "("},
		{Delimiter, ")"},
		{Delimiter, "{"},
		{Identifier, "println"},
		{Operator, "!"},
		{Delimiter, "("},
		{StringLiteral, "\"Hello,\nworld!\""},
		{Delimiter, ")"},
		{Delimiter, ";"},
		{StringLiteral, "\"Hello; \\\" world!\""},
		{Identifier, "if"},
		{Identifier, "true"},
		{Operator, "!="},
		{Identifier, "false"},
		{Delimiter, "{"},
		{Identifier, "let"},
		{Identifier, "x"},
		{Operator, "="},
		{IntegerLiteral, "5"},
		{Operator, "|"},
		{StringLiteral, "b\"some\""},
		{Operator, "|"},
		{CharLiteral, "'c'"},
		{Delimiter, ";"},
		{Delimiter, "}"},
		{Delimiter, "}"},
	}

	tokens := GatherAll([]byte(input), 1)
	var actual []typedText
	for _, tok := range tokens {
		actual = append(actual, typedText{tok.Type, tok.String()})
		if !tok.Complete {
			t.Errorf("token %q should be complete", tok.String())
		}
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("fixture mismatch (-expected +actual):\n%s", diff)
	}

	multiline := tokens[9]
	if multiline.Row != 1 || multiline.Column != 25 {
		t.Errorf("multi-line string starts at %d:%d, want 1:25", multiline.Row, multiline.Column)
	}
	if multiline.EndRow() != 2 {
		t.Errorf("multi-line string EndRow = %d, want 2", multiline.EndRow())
	}

	// Positions after the embedded newline are relative to the new line
	closeParen := tokens[10]
	if closeParen.Row != 2 || closeParen.Column != 7 {
		t.Errorf("')' after literal at %d:%d, want 2:7", closeParen.Row, closeParen.Column)
	}
	escaped := tokens[12]
	if escaped.Row != 2 || escaped.Column != 10 || escaped.Offset != 43 {
		t.Errorf("escaped string at %d:%d offset %d, want 2:10 offset 43", escaped.Row, escaped.Column, escaped.Offset)
	}
	last := tokens[len(tokens)-1]
	if last.Row != 2 {
		t.Errorf("last token row = %d, want 2", last.Row)
	}
}

func TestGreedyOperators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{"strict equality", "===", []tokenExpectation{
			{Operator, "===", 1, 0},
		}},
		{"between identifiers", "a===b", []tokenExpectation{
			{Identifier, "a", 1, 0},
			{Operator, "===", 1, 1},
			{Identifier, "b", 1, 4},
		}},
		{"four equals", "====", []tokenExpectation{
			{Operator, "===", 1, 0},
			{Operator, "=", 1, 3},
		}},
		{"shift then compare", ">>>=", []tokenExpectation{
			{Operator, ">>", 1, 0},
			{Operator, ">=", 1, 2},
		}},
		{"compound assignments", "x <<= 1 //= y **= z", []tokenExpectation{
			{Identifier, "x", 1, 0},
			{Operator, "<<=", 1, 2},
			{IntegerLiteral, "1", 1, 6},
			{Operator, "//=", 1, 8},
			{Identifier, "y", 1, 12},
			{Operator, "**=", 1, 14},
			{Identifier, "z", 1, 18},
		}},
		{"range and spread", "a..b ...c", []tokenExpectation{
			{Identifier, "a", 1, 0},
			{Operator, "..", 1, 1},
			{Identifier, "b", 1, 3},
			{Operator, "...", 1, 5},
			{Identifier, "c", 1, 8},
		}},
		{"scope resolution", "std::io", []tokenExpectation{
			{Identifier, "std", 1, 0},
			{Operator, "::", 1, 3},
			{Identifier, "io", 1, 5},
		}},
		{"arrows", "a->b=>c<-d", []tokenExpectation{
			{Identifier, "a", 1, 0},
			{Operator, "->", 1, 1},
			{Identifier, "b", 1, 3},
			{Operator, "=>", 1, 4},
			{Identifier, "c", 1, 6},
			{Operator, "<-", 1, 7},
			{Identifier, "d", 1, 9},
		}},
		{"not before paren", "!(", []tokenExpectation{
			{Operator, "!", 1, 0},
			{Delimiter, "(", 1, 1},
		}},
		{"null coalescing", "a ?? b?.c", []tokenExpectation{
			{Identifier, "a", 1, 0},
			{Operator, "??", 1, 2},
			{Identifier, "b", 1, 5},
			{Operator, "?", 1, 6},
			{Operator, ".", 1, 7},
			{Identifier, "c", 1, 8},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestEveryOperatorIsOneToken(t *testing.T) {
	for _, table := range [][]operator{threeByteOperators, twoByteOperators, oneByteOperators} {
		for _, op := range table {
			tokens := GatherAll([]byte(op.text), 1)
			if len(tokens) != 1 || tokens[0].Type != Operator || tokens[0].String() != op.text {
				t.Errorf("operator %q scanned as %v", op.text, tokens)
				continue
			}
			if got := OperatorName(tokens[0].Text); got != op.name {
				t.Errorf("OperatorName(%q) = %q, want %q", op.text, got, op.name)
			}
		}
	}
}

func TestDelimitersAndSeparators(t *testing.T) {
	assertTokens(t, "delimiters", "f(a[0],{b;c}):T", []tokenExpectation{
		{Identifier, "f", 1, 0},
		{Delimiter, "(", 1, 1},
		{Identifier, "a", 1, 2},
		{Delimiter, "[", 1, 3},
		{IntegerLiteral, "0", 1, 4},
		{Delimiter, "]", 1, 5},
		{Delimiter, ",", 1, 6},
		{Delimiter, "{", 1, 7},
		{Identifier, "b", 1, 8},
		{Delimiter, ";", 1, 9},
		{Identifier, "c", 1, 10},
		{Delimiter, "}", 1, 11},
		{Delimiter, ")", 1, 12},
		{Delimiter, ":", 1, 13},
		{Identifier, "T", 1, 14},
	})
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		typ      TokenType
		text     string
		complete bool
	}{
		{"string", `"hello"`, StringLiteral, `"hello"`, true},
		{"char", `'c'`, CharLiteral, `'c'`, true},
		{"escaped quote", `"a\"b"`, StringLiteral, `"a\"b"`, true},
		{"escaped backslash", `"a\\"`, StringLiteral, `"a\\"`, true},
		{"escaped char quote", `'\''`, CharLiteral, `'\''`, true},
		{"other quote inside", `"it's"`, StringLiteral, `"it's"`, true},
		{"unterminated string", `"abc`, StringLiteral, `"abc`, false},
		{"unterminated char", `'x`, CharLiteral, `'x`, false},
		{"trailing backslash", `"abc\`, StringLiteral, `"abc\`, false},
		{"escaped terminator at end", `"abc\"`, StringLiteral, `"abc\"`, false},
		{"byte prefix", `b"some"`, StringLiteral, `b"some"`, true},
		{"raw prefix", `r"\d+"`, StringLiteral, `r"\d+"`, true},
		{"format prefix", `f'x'`, CharLiteral, `f'x'`, true},
		{"unicode prefix", `u"héllo"`, StringLiteral, `u"héllo"`, true},
		{"stacked prefixes", `rb"x"`, StringLiteral, `rb"x"`, true},
		{"multi-line", "\"a\nb\"", StringLiteral, "\"a\nb\"", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New([]byte(tt.input), 1)
			got, ok := tok.Next()
			if !ok {
				t.Fatal("expected a token")
			}
			if got.Type != tt.typ || got.String() != tt.text || got.Complete != tt.complete {
				t.Errorf("got {%v %q complete=%v}, want {%v %q complete=%v}",
					got.Type, got.String(), got.Complete, tt.typ, tt.text, tt.complete)
			}
			if extra, ok := tok.Next(); ok {
				t.Errorf("expected a single token, also got %v %q", extra.Type, extra.String())
			}
		})
	}
}

func TestQuotePrefixOnlyAfterPrefixByte(t *testing.T) {
	assertTokens(t, "non-prefix identifier", `abc"x" x'y'`, []tokenExpectation{
		{Identifier, "abc", 1, 0},
		{StringLiteral, `"x"`, 1, 3},
		{Identifier, "x", 1, 7},
		{CharLiteral, `'y'`, 1, 8},
	})
	assertTokens(t, "prefix followed by space", `b "x"`, []tokenExpectation{
		{Identifier, "b", 1, 0},
		{StringLiteral, `"x"`, 1, 2},
	})
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{"integer", "42", []tokenExpectation{
			{IntegerLiteral, "42", 1, 0},
		}},
		{"separators", "1_000", []tokenExpectation{
			{IntegerLiteral, "1_000", 1, 0},
		}},
		{"float", "3.14", []tokenExpectation{
			{FloatLiteral, "3.14", 1, 0},
		}},
		{"float with separators", "1_000.000_1", []tokenExpectation{
			{FloatLiteral, "1_000.000_1", 1, 0},
		}},
		{"two decimal points", "1.2.3", []tokenExpectation{
			{Unknown, "1.2.3", 1, 0},
		}},
		{"malformed then delimiter", "1.2.3;", []tokenExpectation{
			{Unknown, "1.2.3", 1, 0},
			{Delimiter, ";", 1, 5},
		}},
		{"range", "1..5", []tokenExpectation{
			{IntegerLiteral, "1", 1, 0},
			{Operator, "..", 1, 1},
			{IntegerLiteral, "5", 1, 3},
		}},
		{"member access", "1.max", []tokenExpectation{
			{IntegerLiteral, "1", 1, 0},
			{Operator, ".", 1, 1},
			{Identifier, "max", 1, 2},
		}},
		{"float member access", "1.5.floor", []tokenExpectation{
			{FloatLiteral, "1.5", 1, 0},
			{Operator, ".", 1, 3},
			{Identifier, "floor", 1, 4},
		}},
		{"trailing dot", "7.", []tokenExpectation{
			{IntegerLiteral, "7", 1, 0},
			{Operator, ".", 1, 1},
		}},
		{"digits then letters", "12abc", []tokenExpectation{
			{IntegerLiteral, "12", 1, 0},
			{Identifier, "abc", 1, 2},
		}},
		{"identifier with digits", "x99_y", []tokenExpectation{
			{Identifier, "x99_y", 1, 0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestUnknownBytes(t *testing.T) {
	assertTokens(t, "stray bytes", "a $ # ` \\ \v ~ b", []tokenExpectation{
		{Identifier, "a", 1, 0},
		{Unknown, "$", 1, 2},
		{Unknown, "#", 1, 4},
		{Unknown, "`", 1, 6},
		{Unknown, "\\", 1, 8},
		{Unknown, "\v", 1, 10},
		{Unknown, "~", 1, 12},
		{Identifier, "b", 1, 14},
	})

	// Non-ASCII identifiers are a known limitation: each rune is one Unknown
	// token, never split inside its UTF-8 sequence.
	assertTokens(t, "non-ascii", "naïve", []tokenExpectation{
		{Identifier, "na", 1, 0},
		{Unknown, "ï", 1, 2},
		{Identifier, "ve", 1, 4},
	})
	assertTokens(t, "emoji", "😀x", []tokenExpectation{
		{Unknown, "😀", 1, 0},
		{Identifier, "x", 1, 4},
	})
}

func TestComments(t *testing.T) {
	assertTokens(t, "line comment", "x ~~ note = 1\ny", []tokenExpectation{
		{Identifier, "x", 1, 0},
		{Comment, "~~ note = 1", 1, 2},
		{Identifier, "y", 2, 0},
	})
	assertTokens(t, "block comment", "~*~ a\nb ~*~ z", []tokenExpectation{
		{Comment, "~*~ a\nb ~*~", 1, 0},
		{Identifier, "z", 2, 6},
	})

	tok := New([]byte("a ~*~ never closed\n"), 1)
	tok.Next()
	comment, ok := tok.Next()
	if !ok || comment.Type != Comment || comment.Complete {
		t.Errorf("expected incomplete comment, got %v complete=%v", comment.Type, comment.Complete)
	}
	if comment.String() != "~*~ never closed\n" {
		t.Errorf("unterminated block comment text = %q", comment.String())
	}
}

func TestRowsAndColumns(t *testing.T) {
	assertTokens(t, "multi-line literal", "a\n  bb\n\"x\ny\" c", []tokenExpectation{
		{Identifier, "a", 1, 0},
		{Identifier, "bb", 2, 2},
		{StringLiteral, "\"x\ny\"", 3, 0},
		{Identifier, "c", 4, 3},
	})
	assertTokens(t, "tabs count one byte", "\tx\r\n\t\ty", []tokenExpectation{
		{Identifier, "x", 1, 1},
		{Identifier, "y", 2, 2},
	})
	assertTokens(t, "escaped newline in literal", "\"a\\\nb\" c", []tokenExpectation{
		{StringLiteral, "\"a\\\nb\"", 1, 0},
		{Identifier, "c", 2, 3},
	})
}

func TestStartingRow(t *testing.T) {
	tokens := GatherAll([]byte("a\nb\n\nc"), 40)
	var rows []int
	for _, tok := range tokens {
		rows = append(rows, tok.Row)
	}
	if diff := cmp.Diff([]int{40, 41, 43}, rows); diff != "" {
		t.Errorf("rows mismatch (-expected +actual):\n%s", diff)
	}

	tok := New([]byte("a\nb"), 0)
	tok.Next()
	tok.Next()
	row, column := tok.Position()
	if row != 1 || column != 1 {
		t.Errorf("Position() = %d:%d, want 1:1", row, column)
	}
}

func TestTokenAccessors(t *testing.T) {
	input := []byte("let name")
	tok := New(input, 1)
	tok.Next()
	name, _ := tok.Next()

	if name.Len() != 4 || name.Offset != 4 || name.End() != 8 {
		t.Errorf("Len/Offset/End = %d/%d/%d, want 4/4/8", name.Len(), name.Offset, name.End())
	}

	// Zero-copy: the token aliases the input buffer
	if &name.Bytes()[0] != &input[4] {
		t.Error("token text should alias the input buffer")
	}

	if IntegerLiteral.String() != "INTEGER" || !FloatLiteral.IsNumeric() || !CharLiteral.IsLiteral() {
		t.Error("unexpected TokenType helpers")
	}
	if tt, ok := ParseTokenType("COMMENT"); !ok || tt != Comment {
		t.Errorf("ParseTokenType(COMMENT) = %v, %v", tt, ok)
	}
	if _, ok := ParseTokenType("KEYWORD"); ok {
		t.Error("ParseTokenType should reject unknown names")
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"x":       true,
		"_x9":     true,
		"Hello_1": true,
		"":        false,
		"9x":      false,
		"a-b":     false,
		"héllo":   false,
	}
	for input, want := range tests {
		if got := IsIdentifier([]byte(input)); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMatchOperator(t *testing.T) {
	tests := map[string]int{
		"===x": 3,
		"==x":  2,
		"=x":   1,
		"::":   2,
		":":    0,
		"a":    0,
		"":     0,
		"~":    0,
		"é":    0,
	}
	for input, want := range tests {
		if got := MatchOperator([]byte(input)); got != want {
			t.Errorf("MatchOperator(%q) = %d, want %d", input, got, want)
		}
	}
}
