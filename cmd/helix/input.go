package main

import (
	"errors"
	"io"
	"os"

	"github.com/helix-lang/helix/runtime/source"
)

const stdinName = "<stdin>"

// loadSources handles the 3 modes of input:
// 1. Explicit stdin with "-"
// 2. Piped input (auto-detected when no files are given)
// 3. File input
func loadSources(args []string, stdin io.Reader) ([]*source.File, error) {
	if len(args) == 0 {
		if !hasPipedInput(stdin) {
			return nil, &CLIError{
				Message: "no input files",
				Hint:    "pass one or more files, or - to read from stdin",
			}
		}
		args = []string{"-"}
	}

	files := make([]*source.File, 0, len(args))
	readStdin := false
	for _, arg := range args {
		if arg == "-" {
			if readStdin {
				return nil, errors.New("stdin (-) given more than once")
			}
			readStdin = true
			f, err := source.Read(stdinName, stdin)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		f, err := source.Load(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// hasPipedInput detects if there's data piped to stdin. Readers that are
// not files (tests, embedding) count as piped.
func hasPipedInput(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return stdin != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	// Check if stdin is not a character device (i.e., it's piped)
	// Note: We don't check Size() > 0 because pipes may not report size correctly
	return (stat.Mode() & os.ModeCharDevice) == 0
}
