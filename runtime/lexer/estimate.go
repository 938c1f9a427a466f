package lexer

import "unicode/utf8"

// EstimateTokens returns a cheap single-pass estimate of the token count of
// input, used to pre-size token slices: every quoted literal counts once,
// plus every alphanumeric or punctuation byte outside literals. It
// over-counts multi-byte lexemes, which is the point: one allocation, no
// regrowth.
func EstimateTokens(input []byte) int {
	count := 0
	var quote byte // 0 outside literals
	escaped := false

	for _, ch := range input {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == escapeByte:
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}

		if ch >= utf8.RuneSelf {
			continue
		}
		if isQuote[ch] {
			quote = ch
			count++
			continue
		}
		if isIdentPart[ch] || isPunctuation[ch] {
			count++
		}
	}

	return count
}
