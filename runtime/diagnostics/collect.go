package diagnostics

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/helix-lang/helix/core/keywords"
	"github.com/helix-lang/helix/runtime/lexer"
)

// Collect derives diagnostics from one file's tokens. src must be the buffer
// the tokens were scanned from.
func Collect(path string, src []byte, tokens []lexer.Token) []Diagnostic {
	var out []Diagnostic

	for _, tok := range tokens {
		switch {
		case !tok.Complete:
			out = append(out, incomplete(path, src, tok))

		case tok.Type == lexer.Unknown && tok.Len() > 0 && tok.Text[0] >= '0' && tok.Text[0] <= '9':
			out = append(out, Diagnostic{
				Severity: Error,
				Code:     CodeMalformedNumber,
				Message:  fmt.Sprintf("malformed numeric literal `%s`", tok.Text),
				Path:     path,
				Row:      tok.Row,
				Column:   tok.Column,
				Length:   tok.Len(),
				Help:     "a number may contain at most one decimal point",
			})

		case tok.Type == lexer.Unknown:
			out = append(out, Diagnostic{
				Severity: Error,
				Code:     CodeUnknownCharacter,
				Message:  fmt.Sprintf("unrecognized character %s", describeChar(tok.Text)),
				Path:     path,
				Row:      tok.Row,
				Column:   tok.Column,
				Length:   tok.Len(),
				Help:     "remove this character or check if it's a typo",
			})
		}
	}

	return out
}

func incomplete(path string, src []byte, tok lexer.Token) Diagnostic {
	d := Diagnostic{
		Severity: Error,
		Path:     path,
		Row:      tok.Row,
		Column:   tok.Column,
		Length:   firstLineLength(src, tok),
	}

	switch tok.Type {
	case lexer.CharLiteral:
		d.Code = CodeUnterminatedChar
		d.Message = "unterminated character literal"
		d.Help = "add a closing quote (') to terminate the literal"
	case lexer.Comment:
		d.Code = CodeUnterminatedComment
		d.Message = "unterminated block comment"
		d.Help = "close the comment with ~*~"
	default:
		d.Code = CodeUnterminatedString
		d.Message = "unterminated string literal"
		d.Help = "add a closing quote (\") to terminate the string"
	}

	switch rows := tok.EndRow() - tok.Row; {
	case rows == 1:
		d.Message += " (runs 1 more line to end of file)"
	case rows > 1:
		d.Message += fmt.Sprintf(" (runs %d more lines to end of file)", rows)
	}
	return d
}

// firstLineLength is the part of tok on its starting row, so a literal that
// swallows the rest of the file underlines only where it starts.
func firstLineLength(src []byte, tok lexer.Token) int {
	end := tok.End()
	if end > len(src) {
		end = len(src)
	}
	if i := bytes.IndexByte(src[tok.Offset:end], '\n'); i >= 0 {
		return max(i, 1)
	}
	return max(end-tok.Offset, 1)
}

func describeChar(text []byte) string {
	r, _ := utf8.DecodeRune(text)
	if r < utf8.RuneSelf && r >= ' ' {
		return fmt.Sprintf("`%c`", r)
	}
	return fmt.Sprintf("`%c` (U+%04X)", r, r)
}

// KeywordHints flags identifiers in statement-leading position that look
// like a misspelled keyword, such as `retrun x` or `clas Point`. An
// identifier qualifies when it is the first token on its row and is directly
// followed by another identifier on the same row.
func KeywordHints(path string, tokens []lexer.Token) []Diagnostic {
	var out []Diagnostic

	for i := 0; i+1 < len(tokens); i++ {
		tok, next := tokens[i], tokens[i+1]
		if tok.Type != lexer.Identifier || next.Type != lexer.Identifier || next.Row != tok.Row {
			continue
		}
		if i > 0 && tokens[i-1].EndRow() == tok.Row {
			continue
		}
		if keywords.IsKeyword(tok.Text) {
			continue
		}

		suggestions := keywords.Suggest(tok.String(), 1)
		if len(suggestions) == 0 {
			continue
		}
		out = append(out, Diagnostic{
			Severity: Hint,
			Code:     CodeKeywordTypo,
			Message:  fmt.Sprintf("`%s` is not a keyword", tok.Text),
			Path:     path,
			Row:      tok.Row,
			Column:   tok.Column,
			Length:   tok.Len(),
			Help:     fmt.Sprintf("did you mean `%s`?", suggestions[0]),
		})
	}

	return out
}
