package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// ErrProjectRootNotFound is returned when no ancestor directory carries the
// project marker.
var ErrProjectRootNotFound = errors.New("project root not found")

// FindProjectRoot walks upward from path until it finds a directory that
// directly contains marker. A file path starts the search at its
// directory. Entry names that are not valid UTF-8 are decoded with
// fallback before being compared.
func FindProjectRoot(path, marker string, fallback encoding.Encoding) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		if hasMarker(dir, marker, fallback) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s above %s", ErrProjectRootNotFound, marker, abs)
		}
		dir = parent
	}
}

func hasMarker(dir, marker string, fallback encoding.Encoding) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if entryName(e.Name(), fallback) == marker {
			return true
		}
	}
	return false
}

// entryName returns a directory entry name as text.
func entryName(raw string, fallback encoding.Encoding) string {
	if utf8.ValidString(raw) || fallback == nil {
		return raw
	}
	decoded, err := fallback.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return decoded
}
