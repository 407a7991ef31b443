// Package move suggests relocating keywords to the files or folders that
// actually use them.
package move

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/panbanda/kwgraph/internal/scanner"
	"github.com/panbanda/kwgraph/pkg/analyzer"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/panbanda/kwgraph/pkg/index"
)

// Rule reports keywords that their own file never uses. With exactly one
// using file the keyword belongs there; with several it belongs in the
// deepest folder they share, when that folder lies below the keyword's
// own directory.
type Rule struct {
	idx *index.ProjectIndex
}

// New creates the rule over idx.
func New(idx *index.ProjectIndex) *Rule {
	return &Rule{idx: idx}
}

// Name returns the rule identifier.
func (r *Rule) Name() string {
	return config.RuleMoveKeyword
}

// Apply reports a move suggestion for each definition in file that only
// other files use.
func (r *Rule) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	for _, d := range file.Definitions {
		self, err := r.idx.UsedIn(file, d.Name)
		if err != nil {
			return err
		}
		if self {
			continue
		}
		users, err := r.idx.Users(d.Name, file)
		if err != nil {
			return err
		}
		if msg, ok := r.suggest(file.Path, users); ok {
			report.Report(analyzer.KeywordAnchor(d.Name), msg, d.Line)
		}
	}
	return nil
}

func (r *Rule) suggest(path string, users []*index.FileRecord) (string, bool) {
	switch len(users) {
	case 0:
		return "", false
	case 1:
		return fmt.Sprintf("Move the keyword to file `%s`", analyzer.RelPath(path, users[0].Path)), true
	}

	dirs := make([]string, len(users))
	for i, u := range users {
		dirs[i] = filepath.Dir(u.Path)
	}
	folder, ok := r.folderTarget(filepath.Dir(path), CommonPrefix(dirs))
	if !ok {
		return "", false
	}
	return fmt.Sprintf("Move the keyword to folder `%s\\keywords.txt`", folder), true
}

// folderTarget returns target relative to own when target is an existing
// directory other than own, inside own and inside the project root.
func (r *Rule) folderTarget(own, target string) (string, bool) {
	if target == "" || filepath.Clean(target) == filepath.Clean(own) {
		return "", false
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return "", false
	}
	rel, err := filepath.Rel(own, target)
	if err != nil {
		return "", false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == ".." {
			return "", false
		}
	}
	if r.idx.Root != "" && !scanner.IsWithinRoot(target, r.idx.Root) {
		return "", false
	}
	return rel, true
}

// CommonPrefix returns the longest character-wise prefix shared by every
// path. The result need not end on a separator.
func CommonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	prefix := paths[0]
	for _, p := range paths[1:] {
		n := 0
		for n < len(prefix) && n < len(p) && prefix[n] == p[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}
