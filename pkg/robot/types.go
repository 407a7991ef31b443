// Package robot parses keyword-driven test suites written in the plain-text
// tabular format (Settings, Variables, Test Cases, Keywords tables).
package robot

import "strings"

// TableKind identifies the kind of a table in a suite file.
type TableKind int

const (
	TableUnknown TableKind = iota
	TableSettings
	TableVariables
	TableTestCases
	TableKeywords
	TableComments
)

// String returns the canonical table header name.
func (k TableKind) String() string {
	switch k {
	case TableSettings:
		return "Settings"
	case TableVariables:
		return "Variables"
	case TableTestCases:
		return "Test Cases"
	case TableKeywords:
		return "Keywords"
	case TableComments:
		return "Comments"
	default:
		return "Unknown"
	}
}

// Statement is one logical row of cells. Continuation rows are folded into
// the statement they continue, so Line is the line of the first row.
type Statement struct {
	Cells []string `json:"cells"`
	Line  int      `json:"line"`
}

// IsBlank reports whether every cell is empty.
func (s Statement) IsBlank() bool {
	for _, c := range s.Cells {
		if c != "" {
			return false
		}
	}
	return true
}

// IsComment reports whether the first non-empty cell starts a comment.
func (s Statement) IsComment() bool {
	for _, c := range s.Cells {
		if c == "" {
			continue
		}
		return strings.HasPrefix(c, "#")
	}
	return false
}

// Keyword is a user keyword definition from a Keywords table.
type Keyword struct {
	Name       string      `json:"name"`
	Line       int         `json:"line"`
	Rows       []Statement `json:"-"`
	Statements []Statement `json:"statements"`
}

// TestCase is a test (or task) from a Test Cases table.
type TestCase struct {
	Name       string      `json:"name"`
	Line       int         `json:"line"`
	Rows       []Statement `json:"-"`
	Statements []Statement `json:"statements"`
}

// Table is one `*** Header ***` section of a file.
type Table struct {
	Kind       TableKind
	Header     string
	Line       int
	Rows       []Statement
	Statements []Statement
	Keywords   []*Keyword
	TestCases  []*TestCase
}

// File is a parsed suite or resource file.
type File struct {
	Path   string
	Raw    string
	Tables []*Table
}

// Keywords walks every Keywords table and returns the definitions in
// source order.
func (f *File) Keywords() []*Keyword {
	var out []*Keyword
	for _, t := range f.Tables {
		if t.Kind == TableKeywords {
			out = append(out, t.Keywords...)
		}
	}
	return out
}

// TestCases returns every test case in source order.
func (f *File) TestCases() []*TestCase {
	var out []*TestCase
	for _, t := range f.Tables {
		if t.Kind == TableTestCases {
			out = append(out, t.TestCases...)
		}
	}
	return out
}

// HasTestCaseTable reports whether the file declares a Test Cases table,
// even an empty one.
func (f *File) HasTestCaseTable() bool {
	for _, t := range f.Tables {
		if t.Kind == TableTestCases {
			return true
		}
	}
	return false
}

// SettingStatements returns the statements of every Settings table.
func (f *File) SettingStatements() []Statement {
	var out []Statement
	for _, t := range f.Tables {
		if t.Kind == TableSettings {
			out = append(out, t.Statements...)
		}
	}
	return out
}

// IsTemplate reports whether the suite drives its tests through a
// `Test Template` setting.
func (f *File) IsTemplate() bool {
	for _, st := range f.SettingStatements() {
		if len(st.Cells) > 0 && strings.EqualFold(st.Cells[0], "test template") {
			return true
		}
	}
	return false
}
