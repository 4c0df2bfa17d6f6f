package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var ErrInvalidName = errors.New("invalid file name")

// ListDir returns the names of the regular files in given path, sorted. Hidden files are skipped.
func ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("ListDir: Error, got '%w'", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)

	return names, nil
}

// SafeName checks that a client supplied file name stays inside the directory it's joined to
func SafeName(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}

	return name, nil
}

// TrimExt returns name without its extension, "match.mp4" -> "match"
func TrimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
