// Package index builds the project-wide map of keyword definitions and the
// keyword names each file invokes.
package index

import (
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/panbanda/kwgraph/pkg/keyword"
	"github.com/panbanda/kwgraph/pkg/robot"
	"github.com/zeebo/blake3"
)

// Kind distinguishes suites carrying test cases from shared resources.
type Kind int

const (
	TestSuite Kind = iota
	Resource
)

func (k Kind) String() string {
	if k == TestSuite {
		return "test_suite"
	}
	return "resource"
}

// MarshalText renders the kind by name in JSON and TOON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Definition is a user keyword defined in one file.
type Definition struct {
	// ID is dense across the project, assigned in file path order.
	ID   int               `json:"id"`
	Name string            `json:"name"`
	File string            `json:"file"`
	Line int               `json:"line"`
	Body []robot.Statement `json:"-"`
}

// Implementation returns the body rows used for implementation equality:
// every statement except blank rows.
func (d *Definition) Implementation() [][]string {
	rows := make([][]string, 0, len(d.Body))
	for _, st := range d.Body {
		if st.IsBlank() {
			continue
		}
		rows = append(rows, st.Cells)
	}
	return rows
}

// Usage is one keyword name invoked at a line.
type Usage struct {
	Name string `json:"name"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// FileRecord holds what one file defines and invokes.
type FileRecord struct {
	Path        string        `json:"path"`
	Kind        Kind          `json:"kind"`
	Modified    time.Time     `json:"modified"`
	Digest      string        `json:"digest"`
	IsTestData  bool          `json:"is_test_data"`
	Definitions []*Definition `json:"definitions"`
	Usages      []Usage       `json:"usages"`

	// Source is the parsed file, kept for rules that inspect raw rows.
	Source *robot.File `json:"-"`

	byName   map[string]*Definition
	usedOnce sync.Once
	used     *keyword.NameSet
}

// settingKeywords are Settings table entries whose value is a keyword call.
var settingKeywords = map[string]struct{}{
	"suite setup":    {},
	"suite teardown": {},
	"test setup":     {},
	"test teardown":  {},
	"test template":  {},
	"task setup":     {},
	"task teardown":  {},
	"task template":  {},
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// NewRecord extracts definitions and usages from a parsed file. A file with
// a Test Cases table is test data. When two keywords share a name the first
// one is the definition, but the bodies of both contribute usages.
func NewRecord(src *robot.File) *FileRecord {
	r := &FileRecord{
		Path:   src.Path,
		Kind:   Resource,
		Source: src,
		byName: make(map[string]*Definition),
	}

	for _, kw := range src.Keywords() {
		if _, dup := r.byName[kw.Name]; !dup {
			def := &Definition{Name: kw.Name, File: src.Path, Line: kw.Line, Body: kw.Statements}
			r.byName[kw.Name] = def
			r.Definitions = append(r.Definitions, def)
		}
		for _, st := range kw.Statements {
			r.addUsages(st.Cells, st.Line)
		}
	}

	for _, st := range src.SettingStatements() {
		if len(st.Cells) == 0 {
			continue
		}
		if _, ok := settingKeywords[strings.ToLower(st.Cells[0])]; ok {
			r.addUsages(st.Cells[1:], st.Line)
		}
	}

	if src.HasTestCaseTable() {
		r.Kind = TestSuite
		r.IsTestData = true
		for _, tc := range src.TestCases() {
			for _, st := range tc.Statements {
				r.addUsages(st.Cells, st.Line)
			}
		}
	}
	return r
}

func (r *FileRecord) addUsages(cells []string, line int) {
	for _, name := range keyword.UsedKeywords(cells) {
		r.Usages = append(r.Usages, Usage{Name: name, File: r.Path, Line: line})
	}
}

// Definition returns the definition with exactly this name.
func (r *FileRecord) Definition(name string) (*Definition, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// UsedNames returns the distinct invoked names in first-seen order.
func (r *FileRecord) UsedNames() []string {
	seen := make(map[string]struct{}, len(r.Usages))
	names := make([]string, 0, len(r.Usages))
	for _, u := range r.Usages {
		if _, ok := seen[u.Name]; ok {
			continue
		}
		seen[u.Name] = struct{}{}
		names = append(names, u.Name)
	}
	return names
}

// Uses reports whether any usage in this file denotes name.
func (r *FileRecord) Uses(m *keyword.Matcher, name string) (bool, error) {
	r.usedOnce.Do(func() {
		r.used = keyword.NewNameSet(m, r.UsedNames())
	})
	return r.used.Matches(name)
}
