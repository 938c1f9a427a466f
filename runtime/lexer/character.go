package lexer

// ASCII character lookup tables for fast classification (zero-allocation)
//
// Use inline bounds-checked lookups:
//
//	if ch < 128 && isIdentStart[ch] { ... }
//
// Bytes >= 128 never belong to any class. Identifiers are ASCII-only; a
// non-ASCII rune outside a literal or comment is scanned as Unknown.
var (
	isWhitespace   [128]bool // Space, tab, carriage return, form feed, newline
	isLetter       [128]bool // a-z, A-Z, _
	isDigit        [128]bool // 0-9
	isIdentStart   [128]bool // Letter or _
	isIdentPart    [128]bool // Letter, digit or _
	isDelimiter    [128]bool // { } ( ) [ ]
	isSeparator    [128]bool // , ; :
	isQuote        [128]bool // " '
	isQuotePrefix  [128]bool // r b u f
	isOperatorLead [128]bool // First byte of any operator
	isPunctuation  [128]bool // ASCII punctuation range
)

const (
	numericSeparator = '_'
	decimalPoint     = '.'
	escapeByte       = '\\'
	commentLead      = '~'
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)

		// Newline is whitespace too; the scanner checks for it separately to
		// advance the row.
		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\n'

		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isDigit[i] = '0' <= ch && ch <= '9'

		isIdentStart[i] = isLetter[i]
		isIdentPart[i] = isLetter[i] || isDigit[i]

		isDelimiter[i] = ch == '{' || ch == '}' || ch == '(' || ch == ')' || ch == '[' || ch == ']'
		isSeparator[i] = ch == ',' || ch == ';' || ch == ':'

		isQuote[i] = ch == '"' || ch == '\''
		isQuotePrefix[i] = ch == 'r' || ch == 'b' || ch == 'u' || ch == 'f'

		isPunctuation[i] = (ch >= '!' && ch <= '/') || (ch >= ':' && ch <= '@') ||
			(ch >= '[' && ch <= '`') || (ch >= '{' && ch <= '~')
	}

	for _, table := range [][]operator{threeByteOperators, twoByteOperators, oneByteOperators} {
		for _, op := range table {
			isOperatorLead[op.text[0]] = true
		}
	}
}

// literalType returns the token type opened by the quote byte.
func literalType(quote byte) TokenType {
	if quote == '\'' {
		return CharLiteral
	}
	return StringLiteral
}

// IsIdentifier reports whether s is a valid ASCII identifier:
// [a-zA-Z_][a-zA-Z0-9_]*
func IsIdentifier(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	if s[0] >= 128 || !isIdentStart[s[0]] {
		return false
	}
	for _, ch := range s[1:] {
		if ch >= 128 || !isIdentPart[ch] {
			return false
		}
	}
	return true
}
