package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"SketchRoom/internal/state"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format returns the export format named by the extension of path.
func Format(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf", ".png":
		return ext, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
}

// Write encodes shapes in the format of name (.pdf or .png) to w.
func Write(w io.Writer, name string, shapes []state.Shape) error {
	format, err := Format(name)
	if err != nil {
		return err
	}
	if format == ".png" {
		return PNG(w, shapes, 1)
	}
	return PDF(w, shapes)
}

// WriteFile picks the format from the file extension (.pdf or .png).
func WriteFile(path string, shapes []state.Shape) (err error) {
	if _, err := Format(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, path, shapes)
}
