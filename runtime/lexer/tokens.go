package lexer

import "bytes"

// TokenType classifies a lexeme
type TokenType int

const (
	// Unknown marks bytes that matched no rule, or a malformed numeric
	// literal such as 1.2.3
	Unknown TokenType = iota

	Identifier // names and keyword candidates; keywords are resolved by the parser
	Delimiter  // { } ( ) [ ] and the separators , ; :
	Operator   // 1, 2 or 3 byte operators, longest match
	StringLiteral
	CharLiteral
	IntegerLiteral // 123, 1_000
	FloatLiteral   // 3.14, 1_000.5
	Comment        // ~~ line and ~*~ block ~*~ comments
)

// Token is one lexeme. Text borrows from the buffer given to the Tokenizer
// and must not outlive it.
type Token struct {
	Type     TokenType
	Text     []byte // Sub-slice of the input, never copied
	Row      int    // Row of the first byte (starting row + newlines before it)
	Column   int    // Bytes since the most recent newline, 0-based
	Offset   int    // 0-based byte offset of the first byte
	Complete bool   // False only for a literal or block comment cut off by end of input
}

// Bytes returns the lexeme without copying.
func (t Token) Bytes() []byte {
	return t.Text
}

// String returns the token text as a string (copies)
func (t Token) String() string {
	return string(t.Text)
}

// Len returns the lexeme length in bytes.
func (t Token) Len() int {
	return len(t.Text)
}

// End returns the offset one past the last byte of the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// EndRow returns the row of the token's last byte. It differs from Row only
// for literals and block comments that span newlines.
func (t Token) EndRow() int {
	if len(t.Text) == 0 {
		return t.Row
	}
	return t.Row + bytes.Count(t.Text[:len(t.Text)-1], []byte{'\n'})
}

// IsNumeric reports whether the type is a numeric literal.
func (tt TokenType) IsNumeric() bool {
	return tt == IntegerLiteral || tt == FloatLiteral
}

// IsLiteral reports whether the type is a quoted literal.
func (tt TokenType) IsLiteral() bool {
	return tt == StringLiteral || tt == CharLiteral
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case Unknown:
		return "UNKNOWN"
	case Identifier:
		return "IDENTIFIER"
	case Delimiter:
		return "DELIMITER"
	case Operator:
		return "OPERATOR"
	case StringLiteral:
		return "STRING"
	case CharLiteral:
		return "CHAR"
	case IntegerLiteral:
		return "INTEGER"
	case FloatLiteral:
		return "FLOAT"
	case Comment:
		return "COMMENT"
	default:
		return "INVALID"
	}
}

// ParseTokenType is the inverse of TokenType.String.
func ParseTokenType(s string) (TokenType, bool) {
	for tt := Unknown; tt <= Comment; tt++ {
		if tt.String() == s {
			return tt, true
		}
	}
	return Unknown, false
}
