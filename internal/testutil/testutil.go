package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Marker is the project marker file written by Project.
const Marker = ".project"

// WriteFile writes content to a file in the real filesystem.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// ReadFile reads content from a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// CreateFileTree creates multiple files from a map of path -> content.
func CreateFileTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
}

// Project creates a temporary project: a directory holding the marker file
// plus the given files. It returns the project root with symlinks resolved,
// so paths built from it compare equal to scanner output.
func Project(t *testing.T, files map[string]string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks error: %v", err)
	}
	WriteFile(t, filepath.Join(root, Marker), "")
	CreateFileTree(t, root, files)
	return root
}

// Suite joins lines into suite text with a trailing newline. Cells inside
// a line are written with four spaces, e.g. Suite("*** Keywords ***",
// "Login", "    Open Browser").
func Suite(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
