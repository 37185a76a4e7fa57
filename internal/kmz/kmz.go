// Package kmz reads and writes the zip container wrapping mission
// documents.
package kmz

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// WaylinesEntry is the archive path of the executable mission document.
	WaylinesEntry = "wpmz/waylines.wpml"

	// TemplateEntry is the archive path of the editable template document.
	TemplateEntry = "wpmz/template.kml"
)

// ErrEntryNotFound is returned when a requested entry is absent from the
// archive.
var ErrEntryNotFound = errors.New("entry not found in archive")

// Entry is one file to be written into an archive.
type Entry struct {
	Name string
	Data []byte
}

// ReadEntry returns the contents of the named entry of the archive at path.
func ReadEntry(path, name string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening entry %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading entry %s: %w", name, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, path)
}

// Write creates an archive at path containing the given entries in order,
// creating parent directories as needed.
func Write(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", path, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			return fmt.Errorf("creating entry %s: %w", entry.Name, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return fmt.Errorf("writing entry %s: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive %s: %w", path, err)
	}
	return out.Close()
}
