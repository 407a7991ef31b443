// Package duplicates groups keyword definitions that share a name or an
// implementation and reports the cross-file groups.
package duplicates

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/panbanda/kwgraph/pkg/index"
	"github.com/panbanda/kwgraph/pkg/keyword"
	"github.com/sourcegraph/conc/pool"
)

// Criterion is the equality a cluster is built on.
type Criterion int

const (
	ByName Criterion = iota
	ByImplementation
)

func (c Criterion) String() string {
	if c == ByName {
		return "name"
	}
	return "implementation"
}

// Cluster is a maximal group of two or more definitions equal under one
// criterion. Members are ordered by definition ID.
type Cluster struct {
	Criterion Criterion
	Key       string
	Members   []*index.Definition
}

// CrossFile reports whether the members span more than one file.
func (c Cluster) CrossFile() bool {
	for _, m := range c.Members[1:] {
		if m.File != c.Members[0].File {
			return true
		}
	}
	return false
}

// Annotation links a definition to an equal definition in another file.
type Annotation struct {
	Other            *index.Definition
	ByName           bool
	ByImplementation bool
}

// Clusters is the result of one clustering pass: both partitions plus the
// per-definition annotations derived from them.
type Clusters struct {
	Name           []Cluster
	Implementation []Cluster

	annotations map[int][]Annotation
}

// Annotations returns the other-file definitions equal to def, ordered by
// file then line.
func (c *Clusters) Annotations(def *index.Definition) []Annotation {
	return c.annotations[def.ID]
}

// Engine partitions definitions into clusters.
type Engine struct {
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the goroutines scanning buckets. Zero uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// NewEngine creates a clustering engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// entry is a definition with its precomputed sort key.
type entry struct {
	def  *index.Definition
	key  string
	rows [][]string
	hash uint64
}

// Cluster builds both partitions of defs. It does not modify defs, so
// calling it again on the same input yields the same clusters.
func (e *Engine) Cluster(ctx context.Context, defs []*index.Definition) (*Clusters, error) {
	nameBuckets := make(map[int][]entry)
	implBuckets := make(map[int][]entry)
	for _, d := range defs {
		key := keyword.Normalize(d.Name)
		nameBuckets[len(key)] = append(nameBuckets[len(key)], entry{def: d, key: key})

		rows := d.Implementation()
		implBuckets[len(rows)] = append(implBuckets[len(rows)], entry{def: d, rows: rows, hash: fingerprint(rows)})
	}

	p := pool.NewWithResults[[]Cluster]().WithContext(ctx).WithMaxGoroutines(e.workers)
	for _, bucket := range nameBuckets {
		p.Go(func(ctx context.Context) ([]Cluster, error) {
			return scanNames(bucket), ctx.Err()
		})
	}
	for _, bucket := range implBuckets {
		p.Go(func(ctx context.Context) ([]Cluster, error) {
			return scanImplementations(bucket), ctx.Err()
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	out := &Clusters{}
	for _, batch := range results {
		for _, c := range batch {
			if c.Criterion == ByName {
				out.Name = append(out.Name, c)
			} else {
				out.Implementation = append(out.Implementation, c)
			}
		}
	}
	sortClusters(out.Name)
	sortClusters(out.Implementation)
	out.annotations = annotate(out)
	return out, nil
}

func scanNames(bucket []entry) []Cluster {
	sort.Slice(bucket, func(i, j int) bool {
		if bucket[i].key != bucket[j].key {
			return bucket[i].key < bucket[j].key
		}
		return bucket[i].def.ID < bucket[j].def.ID
	})
	var out []Cluster
	for start := 0; start < len(bucket); {
		end := start + 1
		for end < len(bucket) && bucket[end].key == bucket[start].key {
			end++
		}
		if end-start > 1 {
			out = append(out, newCluster(ByName, bucket[start].key, bucket[start:end]))
		}
		start = end
	}
	return out
}

func scanImplementations(bucket []entry) []Cluster {
	sort.Slice(bucket, func(i, j int) bool {
		a, b := bucket[i], bucket[j]
		if a.hash != b.hash {
			return a.hash < b.hash
		}
		if c := compareRows(a.rows, b.rows); c != 0 {
			return c < 0
		}
		return a.def.ID < b.def.ID
	})
	var out []Cluster
	for start := 0; start < len(bucket); {
		end := start + 1
		for end < len(bucket) && compareRows(bucket[end].rows, bucket[start].rows) == 0 {
			end++
		}
		if end-start > 1 {
			out = append(out, newCluster(ByImplementation, rowsKey(bucket[start].rows), bucket[start:end]))
		}
		start = end
	}
	return out
}

func newCluster(c Criterion, key string, run []entry) Cluster {
	members := make([]*index.Definition, len(run))
	for i, e := range run {
		members[i] = e.def
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return Cluster{Criterion: c, Key: key, Members: members}
}

func sortClusters(cs []Cluster) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Members[0].ID < cs[j].Members[0].ID })
}

// annotate records, for every clustered definition, each member of its
// clusters living in another file.
func annotate(c *Clusters) map[int][]Annotation {
	type pair struct{ self, other int }
	flags := make(map[pair]*Annotation)
	byDef := make(map[int][]*Annotation)

	mark := func(clusters []Cluster, set func(*Annotation)) {
		for _, cl := range clusters {
			for _, m := range cl.Members {
				for _, o := range cl.Members {
					if o.File == m.File {
						continue
					}
					k := pair{m.ID, o.ID}
					a, ok := flags[k]
					if !ok {
						a = &Annotation{Other: o}
						flags[k] = a
						byDef[m.ID] = append(byDef[m.ID], a)
					}
					set(a)
				}
			}
		}
	}
	mark(c.Name, func(a *Annotation) { a.ByName = true })
	mark(c.Implementation, func(a *Annotation) { a.ByImplementation = true })

	out := make(map[int][]Annotation, len(byDef))
	for id, list := range byDef {
		anns := make([]Annotation, len(list))
		for i, a := range list {
			anns[i] = *a
		}
		sort.Slice(anns, func(i, j int) bool {
			a, b := anns[i].Other, anns[j].Other
			if a.File != b.File {
				return a.File < b.File
			}
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			return a.ID < b.ID
		})
		out[id] = anns
	}
	return out
}

// fingerprint hashes body rows with cell and row separators so that
// different splits of the same text hash differently.
func fingerprint(rows [][]string) uint64 {
	d := xxhash.New()
	for _, row := range rows {
		for _, cell := range row {
			_, _ = d.WriteString(cell)
			_, _ = d.WriteString("\x1f")
		}
		_, _ = d.WriteString("\x1e")
	}
	return d.Sum64()
}

func compareRows(a, b [][]string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ra, rb := a[i], b[i]
		for j := 0; j < len(ra) && j < len(rb); j++ {
			if c := strings.Compare(ra[j], rb[j]); c != 0 {
				return c
			}
		}
		if len(ra) != len(rb) {
			return len(ra) - len(rb)
		}
	}
	return len(a) - len(b)
}

// rowsKey renders body rows for display, one row per line with cells
// separated by four spaces.
func rowsKey(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, "    ")
	}
	return strings.Join(lines, "\n")
}
