package models

import "time"

// DefinitionEntry is a keyword definition as listed by the index command.
type DefinitionEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Line int    `json:"line"`
}

// IndexedFile summarises one File Record.
type IndexedFile struct {
	Path        string            `json:"path"`
	Kind        string            `json:"kind"`
	IsTestData  bool              `json:"is_test_data"`
	Digest      string            `json:"digest"`
	Modified    time.Time         `json:"modified"`
	Definitions []DefinitionEntry `json:"definitions"`
	Usages      int               `json:"usages"`
	UsedNames   []string          `json:"used_names,omitempty"`
}

// IndexSummary provides aggregate counts for a project index.
type IndexSummary struct {
	Files       int `json:"files"`
	TestSuites  int `json:"test_suites"`
	Resources   int `json:"resources"`
	Definitions int `json:"definitions"`
	Usages      int `json:"usages"`
}

// IndexReport lists every indexed file of a project.
type IndexReport struct {
	Root    string        `json:"root"`
	Files   []IndexedFile `json:"files"`
	Summary IndexSummary  `json:"summary"`
}
