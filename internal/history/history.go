// Package history persists the REPL's line history across runs,
// adapted from the teacher's internal/system/history package (same
// Load/Save-a-callback shape) for musil's own history file.
package history

import (
	"io"
	"os"
	"path"
)

func file(op func(string) (*os.File, error)) (*os.File, error) {
	return op(path.Join(os.Getenv("HOME"), ".musil_history"))
}

// Load calls read with the history file opened for reading. A missing
// file (no prior session) is not an error the caller needs to see.
func Load(read func(r io.Reader) (int, error)) error {
	f, err := file(os.Open)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	_, err = read(f)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Save calls write with the history file opened (truncated) for writing.
func Save(write func(w io.Writer) (int, error)) error {
	f, err := file(os.Create)
	if err != nil {
		return err
	}
	_, err = write(f)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
