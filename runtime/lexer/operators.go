package lexer

// operator is one entry of the operator tables.
type operator struct {
	text string
	name string
}

// Operator tables, partitioned by length. Matching always tries the 3-byte
// table first, then 2, then 1, so "===" is never split into "==" and "=".
var threeByteOperators = []operator{
	{"===", "STRICT_EQ"},
	{"!==", "STRICT_NOT_EQ"},
	{"...", "ELLIPSIS"},
	{"//=", "FLOOR_DIV_ASSIGN"},
	{"**=", "POWER_ASSIGN"},
	{"<<=", "SHL_ASSIGN"},
	{">>=", "SHR_ASSIGN"},
}

var twoByteOperators = []operator{
	{"==", "EQ_EQ"},
	{"!=", "NOT_EQ"},
	{"<=", "LT_EQ"},
	{">=", "GT_EQ"},
	{"&&", "AND_AND"},
	{"||", "OR_OR"},
	{"::", "SCOPE"},
	{"->", "ARROW"},
	{"=>", "FAT_ARROW"},
	{"<-", "LEFT_ARROW"},
	{"+=", "PLUS_ASSIGN"},
	{"-=", "MINUS_ASSIGN"},
	{"*=", "MULTIPLY_ASSIGN"},
	{"/=", "DIVIDE_ASSIGN"},
	{"%=", "MODULO_ASSIGN"},
	{"&=", "AND_ASSIGN"},
	{"|=", "OR_ASSIGN"},
	{"^=", "XOR_ASSIGN"},
	{"@=", "MATMUL_ASSIGN"},
	{"?=", "NULL_ASSIGN"},
	{"??", "NULL_COALESCE"},
	{"|:", "PIPE_COLON"},
	{"//", "FLOOR_DIV"},
	{"**", "POWER"},
	{"<<", "SHL"},
	{">>", "SHR"},
	{"++", "INCREMENT"},
	{"--", "DECREMENT"},
	{"..", "RANGE"},
}

var oneByteOperators = []operator{
	{"+", "PLUS"},
	{"-", "MINUS"},
	{"*", "MULTIPLY"},
	{"/", "DIVIDE"},
	{"%", "MODULO"},
	{"^", "XOR"},
	{"&", "AND"},
	{"|", "PIPE"},
	{"!", "NOT"},
	{"=", "EQUALS"},
	{"<", "LT"},
	{">", "GT"},
	{"@", "AT"},
	{"?", "QUESTION"},
	{".", "DOT"},
}

// MatchOperator returns the length of the longest operator at the start of
// b, or 0 when b does not start with an operator.
func MatchOperator(b []byte) int {
	if len(b) == 0 || b[0] >= 128 || !isOperatorLead[b[0]] {
		return 0
	}
	if len(b) >= 3 && matchTable(threeByteOperators, b[:3]) {
		return 3
	}
	if len(b) >= 2 && matchTable(twoByteOperators, b[:2]) {
		return 2
	}
	if matchTable(oneByteOperators, b[:1]) {
		return 1
	}
	return 0
}

// OperatorName returns the symbolic name of an operator lexeme such as
// "STRICT_EQ" for "===", or "" when text is not an operator.
func OperatorName(text []byte) string {
	var table []operator
	switch len(text) {
	case 3:
		table = threeByteOperators
	case 2:
		table = twoByteOperators
	case 1:
		table = oneByteOperators
	default:
		return ""
	}
	for _, op := range table {
		if op.text == string(text) {
			return op.name
		}
	}
	return ""
}

func matchTable(table []operator, candidate []byte) bool {
	// string(candidate) in a comparison does not allocate
	for _, op := range table {
		if op.text == string(candidate) {
			return true
		}
	}
	return false
}
