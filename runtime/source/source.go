// Package source turns files and streams into buffers the scanner accepts.
//
// The scanner requires valid UTF-8 and panics otherwise. This package is where
// that contract is established: byte order marks are removed, UTF-16 input is
// transcoded, and anything else that is not valid UTF-8 is rejected with
// ErrInvalidUTF8 and the offset of the first bad byte.
package source

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/encoding/unicode"

	"github.com/helix-lang/helix/core/invariant"
)

// ErrInvalidUTF8 is returned for content that is neither UTF-16 with a byte
// order mark nor valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Encoding is the encoding detected on disk. Content is always UTF-8.
type Encoding string

const (
	UTF8    Encoding = "utf-8"
	UTF8BOM Encoding = "utf-8-bom"
	UTF16LE Encoding = "utf-16le"
	UTF16BE Encoding = "utf-16be"
)

// Digest is the BLAKE2b-256 hash of a file's decoded content.
type Digest [blake2b.Size256]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// File is a decoded source file.
type File struct {
	Path     string
	Content  []byte // valid UTF-8, no byte order mark
	Digest   Digest
	Encoding Encoding
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return FromBytes(path, data)
}

// Read decodes everything r yields. name stands in for the path in errors
// and diagnostics ("<stdin>").
func Read(name string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return FromBytes(name, data)
}

// FromBytes decodes data. The returned File may share memory with data.
func FromBytes(name string, data []byte) (*File, error) {
	content, enc, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &File{
		Path:     name,
		Content:  content,
		Digest:   blake2b.Sum256(content),
		Encoding: enc,
	}, nil
}

func decode(data []byte) ([]byte, Encoding, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		content := data[len(bomUTF8):]
		if off := firstInvalid(content); off >= 0 {
			// Report offsets in terms of the file on disk
			return nil, UTF8BOM, fmt.Errorf("%w at byte %d", ErrInvalidUTF8, off+len(bomUTF8))
		}
		return content, UTF8BOM, nil

	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data, unicode.LittleEndian, UTF16LE)

	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data, unicode.BigEndian, UTF16BE)
	}

	if off := firstInvalid(data); off >= 0 {
		return nil, UTF8, fmt.Errorf("%w at byte %d", ErrInvalidUTF8, off)
	}
	return data, UTF8, nil
}

func decodeUTF16(data []byte, order unicode.Endianness, enc Encoding) ([]byte, Encoding, error) {
	if len(data)%2 != 0 {
		return nil, enc, fmt.Errorf("%w: %s content has odd length %d", ErrInvalidUTF8, enc, len(data))
	}
	content, err := unicode.UTF16(order, unicode.ExpectBOM).NewDecoder().Bytes(data)
	if err != nil {
		return nil, enc, fmt.Errorf("decode %s: %w", enc, err)
	}
	return content, enc, nil
}

// firstInvalid returns the offset of the first byte that does not start a
// valid UTF-8 sequence, or -1.
func firstInvalid(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// LineCount returns the number of rows in the file. A trailing newline does
// not start a new row.
func (f *File) LineCount() int {
	if len(f.Content) == 0 {
		return 0
	}
	n := bytes.Count(f.Content, []byte{'\n'})
	if f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// Lines returns rows from through to (1-based, inclusive) as a sub-slice of
// Content, together with the row to hand the scanner so reported positions
// stay absolute. A range past the end of the file is clipped.
func (f *File) Lines(from, to int) ([]byte, int) {
	invariant.Precondition(from >= 1, "line range must start at 1 or later, got %d", from)
	invariant.Precondition(to >= from, "line range end %d before start %d", to, from)

	start := lineOffset(f.Content, from)
	if start < 0 {
		return nil, from
	}
	end := lineOffset(f.Content, to+1)
	if end < 0 {
		end = len(f.Content)
	}
	return f.Content[start:end], from
}

// Line returns one row without its newline, for diagnostics.
func (f *File) Line(row int) []byte {
	text, _ := f.Lines(row, row)
	return bytes.TrimRight(text, "\r\n")
}

// lineOffset returns the offset where row starts, or -1 past the end.
func lineOffset(content []byte, row int) int {
	off := 0
	for r := 1; r < row; r++ {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return -1
		}
		off += i + 1
	}
	if off >= len(content) && row > 1 {
		return -1
	}
	return off
}
