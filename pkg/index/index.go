package index

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/panbanda/kwgraph/pkg/keyword"
)

// ProjectIndex is every File Record under one project root. It is read-only
// once built.
type ProjectIndex struct {
	Root  string        `json:"root"`
	Files []*FileRecord `json:"files"`

	matcher     *keyword.Matcher
	byPath      map[string]*FileRecord
	definitions []*Definition

	usedOnce sync.Once
	used     *keyword.NameSet
}

// New assembles an index from records. Records are ordered by path and
// definition IDs are assigned in that order.
func New(root string, records []*FileRecord, m *keyword.Matcher) *ProjectIndex {
	if m == nil {
		m = keyword.NewMatcher()
	}
	files := make([]*FileRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			files = append(files, r)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	idx := &ProjectIndex{
		Root:    root,
		Files:   files,
		matcher: m,
		byPath:  make(map[string]*FileRecord, len(files)),
	}
	for _, f := range files {
		idx.byPath[filepath.Clean(f.Path)] = f
		for _, d := range f.Definitions {
			d.ID = len(idx.definitions)
			idx.definitions = append(idx.definitions, d)
		}
	}
	return idx
}

// Matcher returns the name matcher shared by every query on this index.
func (p *ProjectIndex) Matcher() *keyword.Matcher {
	return p.matcher
}

// File returns the record for path.
func (p *ProjectIndex) File(path string) (*FileRecord, bool) {
	r, ok := p.byPath[filepath.Clean(path)]
	return r, ok
}

// Definitions returns every definition ordered by ID.
func (p *ProjectIndex) Definitions() []*Definition {
	return p.definitions
}

// UsageCount returns the number of usages across the project.
func (p *ProjectIndex) UsageCount() int {
	n := 0
	for _, f := range p.Files {
		n += len(f.Usages)
	}
	return n
}

// UsedAnywhere reports whether any usage in the project denotes name.
func (p *ProjectIndex) UsedAnywhere(name string) (bool, error) {
	p.usedOnce.Do(func() {
		var names []string
		for _, f := range p.Files {
			names = append(names, f.UsedNames()...)
		}
		p.used = keyword.NewNameSet(p.matcher, names)
	})
	return p.used.Matches(name)
}

// UsedIn reports whether a usage in file f denotes name.
func (p *ProjectIndex) UsedIn(f *FileRecord, name string) (bool, error) {
	return f.Uses(p.matcher, name)
}

// Users returns the files, other than exclude, with a usage denoting name.
func (p *ProjectIndex) Users(name string, exclude *FileRecord) ([]*FileRecord, error) {
	var out []*FileRecord
	for _, f := range p.Files {
		if f == exclude {
			continue
		}
		ok, err := f.Uses(p.matcher, name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}
