// Package tokendump serialises scanner output for inspection and tooling.
//
// Four formats are supported: a human-readable text listing, JSON, YAML and
// CBOR. CBOR uses canonical encoding options so identical token streams
// produce identical bytes, which makes dumps usable as golden files and cache
// keys.
package tokendump

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/helix-lang/helix/runtime/lexer"
)

// ErrUnknownFormat is returned for a format name other than text, json, yaml or cbor.
var ErrUnknownFormat = errors.New("unknown dump format")

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, YAML, CBOR:
		return f, nil
	}
	return "", fmt.Errorf("%w %q (want text, json, yaml or cbor)", ErrUnknownFormat, s)
}

// Record is the serialisable form of a token. Text is copied out of the
// source buffer.
type Record struct {
	Row      int    `json:"row" yaml:"row" cbor:"1,keyasint"`
	Column   int    `json:"column" yaml:"column" cbor:"2,keyasint"`
	Offset   int    `json:"offset" yaml:"offset" cbor:"3,keyasint"`
	Type     string `json:"type" yaml:"type" cbor:"4,keyasint"`
	Text     string `json:"text" yaml:"text" cbor:"5,keyasint"`
	Complete bool   `json:"complete" yaml:"complete" cbor:"6,keyasint"`
}

// File groups the records of one source file.
type File struct {
	Path   string   `json:"path" yaml:"path" cbor:"1,keyasint"`
	Digest string   `json:"digest,omitempty" yaml:"digest,omitempty" cbor:"2,keyasint,omitempty"`
	Tokens []Record `json:"tokens" yaml:"tokens" cbor:"3,keyasint"`
}

// Records converts tokens to records.
func Records(tokens []lexer.Token) []Record {
	out := make([]Record, len(tokens))
	for i, tok := range tokens {
		out[i] = Record{
			Row:      tok.Row,
			Column:   tok.Column,
			Offset:   tok.Offset,
			Type:     tok.Type.String(),
			Text:     tok.String(),
			Complete: tok.Complete,
		}
	}
	return out
}

// Encode writes records in the given format.
func Encode(w io.Writer, format Format, records []Record) error {
	if format == Text {
		return writeText(w, records)
	}
	return encodeValue(w, format, records)
}

// EncodeFile writes one file's records in the given format. The text format
// prefixes the listing with a "# path" header line.
func EncodeFile(w io.Writer, format Format, f File) error {
	if format == Text {
		if _, err := fmt.Fprintf(w, "# %s\n", f.Path); err != nil {
			return err
		}
		return writeText(w, f.Tokens)
	}
	return encodeValue(w, format, f)
}

func encodeValue(w io.Writer, format Format, v any) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encoding failed: %w", err)
		}
		return enc.Close()

	case CBOR:
		encMode, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return fmt.Errorf("failed to create CBOR encoder: %w", err)
		}
		if err := encMode.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("CBOR encoding failed: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// writeText prints one aligned line per token:
//
//	1:0    IDENTIFIER  "fn"
//	1:25   STRING      "\"abc"  incomplete
func writeText(w io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, r := range records {
		line := fmt.Sprintf("%d:%d\t%s\t%s", r.Row, r.Column, r.Type, strconv.Quote(r.Text))
		if !r.Complete {
			line += "\tincomplete"
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}
