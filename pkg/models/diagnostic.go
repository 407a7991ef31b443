package models

import "sort"

// AnchorKind names what a diagnostic is attached to.
type AnchorKind string

const (
	AnchorFile     AnchorKind = "file"
	AnchorKeyword  AnchorKind = "keyword"
	AnchorTestCase AnchorKind = "test_case"
)

// Anchor is the file, keyword or test case a finding annotates.
type Anchor struct {
	Kind AnchorKind `json:"kind"`
	Name string     `json:"name"`
}

// Diagnostic is one finding of one rule.
type Diagnostic struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	File     string `json:"file"` // relative to the project root, slash separated
	Line     int    `json:"line"`
	Anchor   Anchor `json:"anchor"`
	Message  string `json:"message"`
}

// SortDiagnostics orders diagnostics by file, line, rule and message.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
}

// LintSummary provides aggregate counts.
type LintSummary struct {
	FilesAnalyzed int            `json:"files_analyzed"`
	Total         int            `json:"total"`
	BySeverity    map[string]int `json:"by_severity"`
	ByRule        map[string]int `json:"by_rule"`
	ByFile        map[string]int `json:"by_file"`
}

// LintReport is the result of running rules over a project.
type LintReport struct {
	Root        string       `json:"root"`
	Rules       []string     `json:"rules"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     LintSummary  `json:"summary"`
}

// NewLintReport sorts diags and computes the summary.
func NewLintReport(root string, rules []string, files int, diags []Diagnostic) *LintReport {
	if diags == nil {
		diags = []Diagnostic{}
	}
	SortDiagnostics(diags)

	summary := LintSummary{
		FilesAnalyzed: files,
		Total:         len(diags),
		BySeverity:    make(map[string]int),
		ByRule:        make(map[string]int),
		ByFile:        make(map[string]int),
	}
	for _, d := range diags {
		summary.BySeverity[d.Severity]++
		summary.ByRule[d.Rule]++
		summary.ByFile[d.File]++
	}

	return &LintReport{Root: root, Rules: rules, Diagnostics: diags, Summary: summary}
}

// Count returns the number of diagnostics with the given severity.
func (r *LintReport) Count(severity string) int {
	return r.Summary.BySeverity[severity]
}
