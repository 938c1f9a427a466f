// Package config loads helix.toml.
//
// Configuration is layered: built-in defaults, then helix.toml in the project
// directory, then the file named by $HELIX_CONFIG. Each layer only overrides
// the keys it actually sets. Every file is validated against an embedded JSON
// Schema before it is applied, so a typo in a key or an out-of-range value is
// reported with its location instead of being silently ignored.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"

	"github.com/helix-lang/helix/core/invariant"
)

const (
	// FileName is the project configuration file looked up in the project directory.
	FileName = "helix.toml"
	// EnvVar names an additional configuration file applied last.
	EnvVar = "HELIX_CONFIG"
)

// ErrInvalidConfig wraps every parse and validation failure.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed schema.json
var schemaJSON string

type Config struct {
	Core   Core   `toml:"core"`
	Lexer  Lexer  `toml:"lexer"`
	Batch  Batch  `toml:"batch"`
	Output Output `toml:"output"`
}

type Core struct {
	Name    string `toml:"name,omitempty"`
	Version string `toml:"version,omitempty"`
}

type Lexer struct {
	StartRow  int    `toml:"start_row"`
	Telemetry string `toml:"telemetry"`
	Trace     bool   `toml:"trace"`
}

type Batch struct {
	// Jobs is the worker count for multi-file runs; 0 means one per CPU.
	Jobs int `toml:"jobs"`
}

type Output struct {
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Lexer: Lexer{
			StartRow:  1,
			Telemetry: "off",
		},
		Output: Output{
			Format: "text",
		},
	}
}

// Load builds the effective configuration for a project rooted at dir.
// A missing helix.toml is not an error; a missing $HELIX_CONFIG file is.
func Load(dir string) (Config, error) {
	cfg := Default()

	projectPath := filepath.Join(dir, FileName)
	data, err := os.ReadFile(projectPath)
	switch {
	case err == nil:
		if err := cfg.Apply(data, projectPath); err != nil {
			return Config{}, err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", projectPath, err)
	}

	if path := os.Getenv(EnvVar); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// ApplyFile reads path and applies it on top of c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return c.Apply(data, path)
}

// Apply validates one TOML document and overrides the keys it sets. c is left
// untouched when the document is invalid. name is used in error messages.
func (c *Config) Apply(data []byte, name string) error {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, describeDecodeError(err))
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}

	// Decoding into a copy keeps keys the document does not mention.
	next := *c
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&next); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, describeDecodeError(err))
	}
	*c = next
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}

// describeDecodeError adds the row and column go-toml reports for syntax errors.
func describeDecodeError(err error) string {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return fmt.Sprintf("%d:%d: %s", row, col, derr.Error())
	}
	return err.Error()
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if compiler.Formats == nil {
		compiler.Formats = make(map[string]func(interface{}) bool)
	}
	compiler.Formats["semver"] = isSemver

	url := "schema://helix.toml.json"
	if err := compiler.AddResource(url, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
})

// validate checks a decoded document against the embedded schema. The
// document goes through JSON first: TOML dates and times have no JSON type
// and the validator only accepts plain JSON values.
func validate(doc map[string]any) error {
	schema, err := compileSchema()
	invariant.ExpectNoError(err, "compiling the embedded config schema")

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return err
	}
	return schema.Validate(value)
}

// isSemver accepts versions with or without the leading "v".
func isSemver(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true // Type validation happens separately
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return semver.IsValid(s)
}
