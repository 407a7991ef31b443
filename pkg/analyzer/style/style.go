// Package style holds layout and robustness rules that look at one file at
// a time.
package style

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/panbanda/kwgraph/pkg/analyzer"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/panbanda/kwgraph/pkg/index"
	"github.com/panbanda/kwgraph/pkg/keyword"
	"github.com/panbanda/kwgraph/pkg/robot"
)

const (
	MsgTrailingWhitespace = "Trailing whiteSpace."
	MsgMoreThanOneBlank   = "More than one blank line."
	MsgMissingAssignment  = "Add an assignment operator `=` after the variable"
	MsgGluedAssignment    = "Add a space between the variable and `=`"
	MsgNotCamelCase       = "Keyword name is not Camel Case."
	MsgNoSleep            = "DO NOT USE SLEEP!"
	MsgMissingTimeout     = "Missing timeout argument?"
)

// All returns every style rule.
func All() []analyzer.Rule {
	return []analyzer.Rule{
		TrailingWhitespace{},
		MoreThanOneBlankLine{},
		AssignmentStyle{},
		CamelCaseKeyword{},
		NoSleep{},
		MissingWaitTimeout{},
	}
}

// rawLines splits raw text the way the parser numbers lines.
func rawLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// block is a keyword or test case with the anchor findings attach to.
type block struct {
	anchor     analyzer.Anchor
	line       int
	name       string
	statements []robot.Statement
}

// blocks returns the test cases of src, unless withTests is false, followed
// by its keywords.
func blocks(src *robot.File, withTests bool) []block {
	var out []block
	if withTests {
		for _, tc := range src.TestCases() {
			out = append(out, block{analyzer.TestCaseAnchor(tc.Name), tc.Line, "", tc.Statements})
		}
	}
	for _, kw := range src.Keywords() {
		out = append(out, block{analyzer.KeywordAnchor(kw.Name), kw.Line, kw.Name, kw.Statements})
	}
	return out
}

// TrailingWhitespace flags raw lines ending in a space or tab.
type TrailingWhitespace struct{}

func (TrailingWhitespace) Name() string { return config.RuleTrailingWhitespace }

func (TrailingWhitespace) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	if file.Source == nil {
		return nil
	}
	for i, line := range rawLines(file.Source.Raw) {
		if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
			report.Report(analyzer.FileAnchor(file.Path), MsgTrailingWhitespace, i+1)
		}
	}
	return nil
}

// MoreThanOneBlankLine flags every blank line that follows another.
type MoreThanOneBlankLine struct{}

func (MoreThanOneBlankLine) Name() string { return config.RuleMoreThanOneBlankLine }

func (MoreThanOneBlankLine) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	if file.Source == nil {
		return nil
	}
	previousBlank := false
	for i, line := range rawLines(file.Source.Raw) {
		blank := strings.TrimSpace(line) == ""
		if blank && previousBlank {
			report.Report(analyzer.FileAnchor(file.Path), MsgMoreThanOneBlank, i+1)
		}
		previousBlank = blank
	}
	return nil
}

// AssignmentStyle checks the last assignment target of each statement:
// it must end with `=` separated from the variable by a space. Test cases
// of template suites are not checked.
type AssignmentStyle struct{}

func (AssignmentStyle) Name() string { return config.RuleAssignmentStyle }

func (AssignmentStyle) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	if file.Source == nil {
		return nil
	}
	for _, b := range blocks(file.Source, !file.Source.IsTemplate()) {
		for _, st := range b.statements {
			v, ok := lastVariable(st.Cells)
			if !ok {
				continue
			}
			if !strings.HasSuffix(v, "=") {
				report.Report(b.anchor, MsgMissingAssignment, st.Line)
			}
			if strings.HasSuffix(v, "}=") {
				report.Report(b.anchor, MsgGluedAssignment, st.Line)
			}
		}
	}
	return nil
}

// lastVariable returns the last variable cell before the first cell that
// is not a variable. Rows made only of variables have none.
func lastVariable(cells []string) (string, bool) {
	var v string
	found := false
	for _, c := range cells {
		switch {
		case c == "" || c == `\`:
			continue
		case keyword.IsVariable(c):
			v, found = c, true
		default:
			return v, found
		}
	}
	return "", false
}

// CamelCaseKeyword flags keyword names, and names invoked from keyword or
// test case bodies, with a word starting in lower case. Test cases of
// template suites are not checked.
type CamelCaseKeyword struct{}

func (CamelCaseKeyword) Name() string { return config.RuleCamelCaseKeyword }

func (CamelCaseKeyword) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	if file.Source == nil {
		return nil
	}
	for _, b := range blocks(file.Source, !file.Source.IsTemplate()) {
		if b.name != "" && !camelCase(b.name) {
			report.Report(b.anchor, MsgNotCamelCase, b.line)
		}
		for _, st := range b.statements {
			if st.IsComment() {
				continue
			}
			if name := actionName(st.Cells); !camelCase(name) {
				report.Report(b.anchor, MsgNotCamelCase, st.Line)
			}
		}
	}
	return nil
}

// actionName returns the first cell that is neither empty, an escape nor a
// variable, keeping any step word.
func actionName(cells []string) string {
	for _, c := range cells {
		if c == "" || c == `\` || keyword.IsVariable(c) {
			continue
		}
		return c
	}
	return ""
}

// camelCase reports whether no space separated word starts with a lower
// case letter. Scripts without case always pass.
func camelCase(name string) bool {
	for _, word := range strings.Split(name, " ") {
		r, _ := utf8.DecodeRuneInString(word)
		if r != utf8.RuneError && unicode.IsLower(r) {
			return false
		}
	}
	return true
}

// NoSleep flags statements invoking Sleep, including through wrappers.
type NoSleep struct{}

func (NoSleep) Name() string { return config.RuleNoSleep }

func (NoSleep) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	if file.Source == nil {
		return nil
	}
	for _, b := range blocks(file.Source, !file.Source.IsTemplate()) {
		for _, st := range b.statements {
			for _, name := range keyword.UsedKeywords(st.Cells) {
				if strings.EqualFold(name, "sleep") {
					report.Report(b.anchor, MsgNoSleep, st.Line)
					break
				}
			}
		}
	}
	return nil
}

// waitKeywords are library waits that accept a timeout argument.
var waitKeywords = map[string]struct{}{
	"wait for condition":                       {},
	"wait until element contains":              {},
	"wait until element does not contain":      {},
	"wait until element is enabled":            {},
	"wait until element is not visible":        {},
	"wait until element is visible":            {},
	"wait until page contains":                 {},
	"wait until page contains element":         {},
	"wait until page does not contain":         {},
	"wait until page does not contain element": {},
}

// MissingWaitTimeout flags library waits called without a timeout
// argument.
type MissingWaitTimeout struct{}

func (MissingWaitTimeout) Name() string { return config.RuleMissingWaitTimeout }

func (MissingWaitTimeout) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	if file.Source == nil {
		return nil
	}
	for _, b := range blocks(file.Source, !file.Source.IsTemplate()) {
		for _, st := range b.statements {
			if missingTimeout(st.Cells) {
				report.Report(b.anchor, MsgMissingTimeout, st.Line)
			}
		}
	}
	return nil
}

func missingTimeout(cells []string) bool {
	for i, c := range cells {
		if _, ok := waitKeywords[strings.ToLower(c)]; !ok {
			continue
		}
		for _, arg := range cells[i+1:] {
			if strings.HasPrefix(arg, "timeout") {
				return false
			}
		}
		return true
	}
	return false
}
