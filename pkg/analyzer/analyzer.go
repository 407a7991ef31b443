// Package analyzer defines how rules report findings about indexed files.
package analyzer

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panbanda/kwgraph/pkg/index"
	"github.com/panbanda/kwgraph/pkg/models"
)

// Severity is the level a rule reports at.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ParseSeverity converts a configured severity name.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// AtLeast reports whether s is as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	if min == SeverityWarning {
		return s == SeverityWarning || s == SeverityError
	}
	return s == min
}

// Anchor is the object a finding annotates.
type Anchor = models.Anchor

// FileAnchor anchors a finding on a whole file.
func FileAnchor(path string) Anchor {
	return Anchor{Kind: models.AnchorFile, Name: path}
}

// KeywordAnchor anchors a finding on a keyword definition.
func KeywordAnchor(name string) Anchor {
	return Anchor{Kind: models.AnchorKeyword, Name: name}
}

// TestCaseAnchor anchors a finding on a test case.
func TestCaseAnchor(name string) Anchor {
	return Anchor{Kind: models.AnchorTestCase, Name: name}
}

// Reporter receives findings as (anchor, message, line).
type Reporter interface {
	Report(anchor Anchor, message string, line int)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(anchor Anchor, message string, line int)

func (f ReporterFunc) Report(anchor Anchor, message string, line int) {
	f(anchor, message, line)
}

// Rule checks one file of an index. Rules hold whatever project state they
// need; Apply must not modify the file or the index.
type Rule interface {
	Name() string
	Apply(file *index.FileRecord, report Reporter) error
}

// Collector turns reported findings into diagnostics. It is safe for
// concurrent use.
type Collector struct {
	root  string
	mu    sync.Mutex
	diags []models.Diagnostic
}

// NewCollector creates a collector; diagnostic paths are made relative to
// root.
func NewCollector(root string) *Collector {
	return &Collector{root: root}
}

// For returns a Reporter recording findings of rule on file.
func (c *Collector) For(rule string, severity Severity, file string) Reporter {
	rel := file
	if r, err := filepath.Rel(c.root, file); err == nil {
		rel = r
	}
	rel = filepath.ToSlash(rel)

	return ReporterFunc(func(anchor Anchor, message string, line int) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.diags = append(c.diags, models.Diagnostic{
			Rule:     rule,
			Severity: string(severity),
			File:     rel,
			Line:     line,
			Anchor:   anchor,
			Message:  message,
		})
	})
}

// Diagnostics returns a sorted copy of everything collected.
func (c *Collector) Diagnostics() []models.Diagnostic {
	c.mu.Lock()
	out := append([]models.Diagnostic(nil), c.diags...)
	c.mu.Unlock()
	models.SortDiagnostics(out)
	return out
}

// RelPath returns target relative to the directory of from, the form every
// rule message uses.
func RelPath(from, target string) string {
	rel, err := filepath.Rel(filepath.Dir(from), target)
	if err != nil {
		return target
	}
	return rel
}
