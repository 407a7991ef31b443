// Package unused reports keyword definitions that nothing invokes.
package unused

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/kwgraph/pkg/analyzer"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/panbanda/kwgraph/pkg/index"
)

// Message is reported on every unused definition.
const Message = "Unused Keyword"

// Rule flags definitions with no matching usage. A keyword in a test data
// file only counts as used by that file's own usages; elsewhere any usage
// in the project counts.
type Rule struct {
	idx *index.ProjectIndex

	once sync.Once
	used *roaring.Bitmap
	err  error
}

// New creates the rule over idx.
func New(idx *index.ProjectIndex) *Rule {
	return &Rule{idx: idx}
}

// Name returns the rule identifier.
func (r *Rule) Name() string {
	return config.RuleUnusedKeyword
}

// Used returns the IDs of every definition with at least one usage.
func (r *Rule) Used() (*roaring.Bitmap, error) {
	r.once.Do(func() {
		r.used = roaring.New()
		for _, f := range r.idx.Files {
			for _, d := range f.Definitions {
				ok, err := r.isUsed(f, d)
				if err != nil {
					r.err = err
					return
				}
				if ok {
					r.used.Add(uint32(d.ID))
				}
			}
		}
	})
	return r.used, r.err
}

func (r *Rule) isUsed(f *index.FileRecord, d *index.Definition) (bool, error) {
	if f.IsTestData {
		return r.idx.UsedIn(f, d.Name)
	}
	return r.idx.UsedAnywhere(d.Name)
}

// Unused returns every unused definition in ID order.
func (r *Rule) Unused() ([]*index.Definition, error) {
	used, err := r.Used()
	if err != nil {
		return nil, err
	}
	var out []*index.Definition
	for _, d := range r.idx.Definitions() {
		if !used.Contains(uint32(d.ID)) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Apply reports every unused definition in file.
func (r *Rule) Apply(file *index.FileRecord, report analyzer.Reporter) error {
	used, err := r.Used()
	if err != nil {
		return err
	}
	for _, d := range file.Definitions {
		if !used.Contains(uint32(d.ID)) {
			report.Report(analyzer.KeywordAnchor(d.Name), Message, d.Line)
		}
	}
	return nil
}
