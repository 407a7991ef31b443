package robot

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
)

// ContinuationMarker starts a row that continues the previous statement.
const ContinuationMarker = "..."

// cellSeparator splits space separated rows: a tab or two or more spaces.
var cellSeparator = regexp.MustCompile(`(?:\t|  )[ \t]*`)

// Parser turns raw suite text into tables and statements.
type Parser struct {
	fallback encoding.Encoding
}

// Option configures a Parser.
type Option func(*Parser)

// WithFallbackEncoding decodes files that are not valid UTF-8 with enc.
func WithFallbackEncoding(enc encoding.Encoding) Option {
	return func(p *Parser) {
		p.fallback = enc
	}
}

// New creates a parser.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := Decode(data, p.fallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Parse(path, text), nil
}

// Parse parses already decoded text. It never fails: rows it cannot place
// are kept on the enclosing table.
func Parse(path, text string) *File {
	f := &File{Path: path, Raw: text}

	var table *Table
	var keyword *Keyword
	var test *TestCase

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	// A trailing newline does not introduce an extra blank row.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for i, line := range lines {
		row := Statement{Cells: SplitRow(line), Line: i + 1}

		if kind, header, ok := tableHeader(row.Cells); ok {
			table = &Table{Kind: kind, Header: header, Line: row.Line}
			f.Tables = append(f.Tables, table)
			keyword, test = nil, nil
			continue
		}
		if table == nil {
			continue
		}

		switch table.Kind {
		case TableKeywords:
			if name, ok := itemName(row.Cells); ok {
				keyword = &Keyword{Name: name, Line: row.Line}
				table.Keywords = append(table.Keywords, keyword)
				if body, ok := inlineBody(row); ok {
					keyword.Rows = append(keyword.Rows, body)
				}
				continue
			}
			if keyword != nil {
				keyword.Rows = append(keyword.Rows, row)
				continue
			}
		case TableTestCases:
			if name, ok := itemName(row.Cells); ok {
				test = &TestCase{Name: name, Line: row.Line}
				table.TestCases = append(table.TestCases, test)
				if body, ok := inlineBody(row); ok {
					test.Rows = append(test.Rows, body)
				}
				continue
			}
			if test != nil {
				test.Rows = append(test.Rows, row)
				continue
			}
		}
		table.Rows = append(table.Rows, row)
	}

	for _, t := range f.Tables {
		t.Statements = Fold(t.Rows)
		for _, k := range t.Keywords {
			k.Statements = Fold(k.Rows)
		}
		for _, tc := range t.TestCases {
			tc.Statements = Fold(tc.Rows)
		}
	}
	return f
}

// SplitRow splits one line into cells. Pipe separated rows (`| a | b |`)
// and space/tab separated rows are both supported. Indented rows keep an
// empty first cell.
func SplitRow(line string) []string {
	line = strings.TrimRight(line, " \t\r")
	if line == "" {
		return []string{""}
	}

	if strings.HasPrefix(line, "|") {
		body := strings.TrimPrefix(line, "|")
		body = strings.TrimSuffix(body, "|")
		parts := strings.Split(body, " |")
		cells := make([]string, 0, len(parts))
		for _, part := range parts {
			cells = append(cells, strings.TrimSpace(part))
		}
		for len(cells) > 1 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		return cells
	}

	indented := line[0] == ' ' || line[0] == '\t'
	cells := cellSeparator.Split(strings.TrimLeft(line, " \t"), -1)
	if indented {
		cells = append([]string{""}, cells...)
	}
	return cells
}

// Fold joins continuation rows onto the statement they continue. A row whose
// first non-empty cell is `...` contributes the cells after the marker.
// Blank and comment rows between a statement and its continuation are kept
// as statements of their own.
func Fold(rows []Statement) []Statement {
	out := make([]Statement, 0, len(rows))
	last := -1
	for _, row := range rows {
		if idx := continuationIndex(row.Cells); idx >= 0 && last >= 0 {
			cells := append([]string(nil), out[last].Cells...)
			out[last].Cells = append(cells, row.Cells[idx+1:]...)
			continue
		}
		out = append(out, Statement{Cells: append([]string(nil), row.Cells...), Line: row.Line})
		if !row.IsBlank() && !row.IsComment() {
			last = len(out) - 1
		}
	}
	return out
}

func continuationIndex(cells []string) int {
	for i, c := range cells {
		if c == "" {
			continue
		}
		if c == ContinuationMarker {
			return i
		}
		return -1
	}
	return -1
}

func tableHeader(cells []string) (TableKind, string, bool) {
	if len(cells) == 0 || !strings.HasPrefix(cells[0], "*") {
		return TableUnknown, "", false
	}
	header := strings.TrimSpace(strings.Trim(cells[0], "* "))
	key := strings.ToLower(strings.ReplaceAll(header, " ", ""))
	switch key {
	case "setting", "settings", "metadata":
		return TableSettings, header, true
	case "variable", "variables":
		return TableVariables, header, true
	case "testcase", "testcases", "task", "tasks":
		return TableTestCases, header, true
	case "keyword", "keywords", "userkeyword", "userkeywords":
		return TableKeywords, header, true
	case "comment", "comments":
		return TableComments, header, true
	}
	return TableUnknown, header, true
}

// itemName returns the keyword or test case name declared by a row that
// starts in the first column.
func itemName(cells []string) (string, bool) {
	if len(cells) == 0 {
		return "", false
	}
	first := cells[0]
	if first == "" || first == ContinuationMarker || strings.HasPrefix(first, "#") {
		return "", false
	}
	return first, true
}

// inlineBody returns the step written on the same line as the name.
func inlineBody(row Statement) (Statement, bool) {
	if len(row.Cells) < 2 {
		return Statement{}, false
	}
	cells := append([]string{""}, row.Cells[1:]...)
	return Statement{Cells: cells, Line: row.Line}, true
}
