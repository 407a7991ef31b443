package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/kwgraph/pkg/config"
)

// Scanner finds suite and resource files under a project root.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
	loaded   string // root the matchers were loaded for
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// loadExcludePatterns loads exclusion patterns from both config and .gitignore files.
// Config patterns are parsed as gitignore patterns and combined with .gitignore files
// found anywhere below root.
func (s *Scanner) loadExcludePatterns(root string) {
	s.matchers = nil
	s.loaded = root
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitPatterns, err := gitignore.ReadPatterns(osfs.New(root), nil); err == nil {
			patterns = append(patterns, gitPatterns...)
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isExcluded checks if a root-relative path matches any exclusion pattern.
func (s *Scanner) isExcluded(path string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}

	pathParts := strings.Split(path, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively collects every file under root carrying a project
// extension, in lexical order. Symlinks that resolve outside root are
// skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(root)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if path != root && (s.config.ShouldExcludeDir(d.Name()) || s.isExcluded(relPath, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) {
			return nil
		}
		if s.config.HasExtension(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// IsWithinRoot reports whether path lies inside root after cleaning.
func IsWithinRoot(path, root string) bool {
	return isWithinRoot(path, root)
}

// ScanFile checks if a single file should be analyzed. Exclusions are
// evaluated relative to root and loaded once per root.
func (s *Scanner) ScanFile(root, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	if s.loaded != root {
		s.loadExcludePatterns(root)
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return false, nil
	}
	for _, part := range strings.Split(filepath.Dir(relPath), string(filepath.Separator)) {
		if s.config.ShouldExcludeDir(part) {
			return false, nil
		}
	}
	if s.isExcluded(relPath, false) {
		return false, nil
	}

	return s.config.HasExtension(path), nil
}
