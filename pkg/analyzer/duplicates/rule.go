package duplicates

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/panbanda/kwgraph/pkg/analyzer"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/panbanda/kwgraph/pkg/index"
)

// PathFilter drops definitions whose file path contains any fragment.
// Separators are normalized on both sides.
type PathFilter struct {
	fragments []string
}

// NewPathFilter creates a filter from path fragments. Empty fragments are
// ignored.
func NewPathFilter(fragments []string) PathFilter {
	var f PathFilter
	for _, frag := range fragments {
		if frag = normalizePath(frag); frag != "" {
			f.fragments = append(f.fragments, frag)
		}
	}
	return f
}

// Excluded reports whether path contains one of the fragments.
func (f PathFilter) Excluded(path string) bool {
	p := normalizePath(path)
	for _, frag := range f.fragments {
		if strings.Contains(p, frag) {
			return true
		}
	}
	return false
}

func normalizePath(p string) string {
	return strings.ToLower(filepath.ToSlash(strings.ReplaceAll(p, `\`, "/")))
}

// Rule reports, on each keyword, every definition in another file that has
// the same name, the same implementation, or both.
type Rule struct {
	clusters *Clusters
	filter   PathFilter
}

// NewRule creates the rule over precomputed clusters.
func NewRule(c *Clusters, filter PathFilter) *Rule {
	return &Rule{clusters: c, filter: filter}
}

// Name returns the rule identifier.
func (r *Rule) Name() string {
	return config.RuleDuplicatedKeyword
}

// Apply reports the duplicates of every definition in file.
func (r *Rule) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	for _, def := range file.Definitions {
		for _, a := range r.clusters.Annotations(def) {
			if r.filter.Excluded(a.Other.File) {
				continue
			}
			report.Report(analyzer.KeywordAnchor(def.Name), Message(file.Path, a), def.Line)
		}
	}
	return nil
}

// Message renders an annotation as seen from the file at path.
func Message(path string, a Annotation) string {
	where := fmt.Sprintf("%s:%d", analyzer.RelPath(path, a.Other.File), a.Other.Line)
	switch {
	case a.ByName && a.ByImplementation:
		return "Duplicated Keyword (name and impl): " + where
	case a.ByImplementation:
		return fmt.Sprintf("Duplicated Keyword (impl): %s [%s]", where, a.Other.Name)
	default:
		return "Duplicated Keyword (name): " + where
	}
}
