// Package analysis runs rules over one project. A Session builds the
// project index and the duplicate clusters at most once and shares them,
// read-only, with every rule it runs.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/panbanda/kwgraph/internal/logging"
	"github.com/panbanda/kwgraph/pkg/analyzer"
	"github.com/panbanda/kwgraph/pkg/analyzer/duplicates"
	"github.com/panbanda/kwgraph/pkg/analyzer/move"
	"github.com/panbanda/kwgraph/pkg/analyzer/style"
	"github.com/panbanda/kwgraph/pkg/analyzer/unused"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/panbanda/kwgraph/pkg/index"
	"github.com/panbanda/kwgraph/pkg/models"
	"go.uber.org/zap"
)

// ErrUnknownRule is returned for a rule name no evaluator implements.
var ErrUnknownRule = errors.New("unknown rule")

// Session analyses the project enclosing one path.
type Session struct {
	path     string
	config   *config.Config
	logger   *zap.Logger
	progress index.ProgressFunc

	indexOnce sync.Once
	idx       *index.ProjectIndex
	indexErr  error

	clusterOnce sync.Once
	clusters    *duplicates.Clusters
	clusterErr  error
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logging.OrNop(logger)
	}
}

// WithProgress reports indexing progress.
func WithProgress(fn index.ProgressFunc) Option {
	return func(s *Session) {
		s.progress = fn
	}
}

// New creates a session for the project enclosing path. Nothing is read
// until the first query.
func New(path string, opts ...Option) *Session {
	s := &Session{
		path:   path,
		config: config.DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.config
}

// Index returns the project index, building it on first use.
func (s *Session) Index(ctx context.Context) (*index.ProjectIndex, error) {
	s.indexOnce.Do(func() {
		b := index.NewBuilder(
			index.WithConfig(s.config),
			index.WithLogger(s.logger),
			index.WithProgress(s.progress),
		)
		s.idx, s.indexErr = b.Build(ctx, s.path)
	})
	return s.idx, s.indexErr
}

// Clusters returns the duplicate clusters of the index, computing them on
// first use.
func (s *Session) Clusters(ctx context.Context) (*duplicates.Clusters, error) {
	s.clusterOnce.Do(func() {
		idx, err := s.Index(ctx)
		if err != nil {
			s.clusterErr = err
			return
		}
		engine := duplicates.NewEngine(duplicates.WithWorkers(s.config.Duplicates.Workers))
		s.clusters, s.clusterErr = engine.Cluster(ctx, idx.Definitions())
	})
	return s.clusters, s.clusterErr
}

// Rule builds the evaluator for a rule name.
func (s *Session) Rule(ctx context.Context, name string) (analyzer.Rule, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	switch name {
	case config.RuleUnusedKeyword:
		return unused.New(idx), nil
	case config.RuleMoveKeyword:
		return move.New(idx), nil
	case config.RuleDuplicatedKeyword:
		c, err := s.Clusters(ctx)
		if err != nil {
			return nil, err
		}
		return duplicates.NewRule(c, duplicates.NewPathFilter(s.config.Duplicates.ExcludePaths)), nil
	}
	for _, r := range style.All() {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRule, name)
}

// EnabledRules lists the rules the configuration leaves on, in stable
// order.
func (s *Session) EnabledRules() []string {
	var names []string
	for _, name := range config.RuleNames() {
		if s.config.Rule(name).IsEnabled() {
			names = append(names, name)
		}
	}
	return names
}

// Lint runs the named rules over every file of the project. With no names
// it runs every enabled rule; named rules run even when disabled.
func (s *Session) Lint(ctx context.Context, names ...string) (*models.LintReport, error) {
	if len(names) == 0 {
		names = s.EnabledRules()
	}

	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}

	type active struct {
		rule     analyzer.Rule
		severity analyzer.Severity
	}
	rules := make([]active, 0, len(names))
	for _, name := range names {
		sev, err := analyzer.ParseSeverity(s.config.Rule(name).Severity)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", name, err)
		}
		r, err := s.Rule(ctx, name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, active{r, sev})
	}

	start := time.Now()
	collector := analyzer.NewCollector(idx.Root)
	for _, f := range idx.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, a := range rules {
			if err := a.rule.Apply(f, collector.For(a.rule.Name(), a.severity, f.Path)); err != nil {
				return nil, fmt.Errorf("rule %s on %s: %w", a.rule.Name(), f.Path, err)
			}
		}
	}

	report := models.NewLintReport(idx.Root, names, len(idx.Files), collector.Diagnostics())
	s.logger.Debug("lint finished",
		zap.Strings("rules", names),
		zap.Int("diagnostics", report.Summary.Total),
		zap.Duration("duration", time.Since(start)))
	return report, nil
}

// IndexReport summarises every file of the index. With names set, each file
// also lists the distinct keyword names it invokes.
func (s *Session) IndexReport(ctx context.Context, withNames bool) (*models.IndexReport, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.IndexReport{Root: idx.Root, Files: make([]models.IndexedFile, 0, len(idx.Files))}
	for _, f := range idx.Files {
		entry := models.IndexedFile{
			Path:        relPath(idx.Root, f.Path),
			Kind:        f.Kind.String(),
			IsTestData:  f.IsTestData,
			Digest:      f.Digest,
			Modified:    f.Modified,
			Definitions: make([]models.DefinitionEntry, 0, len(f.Definitions)),
			Usages:      len(f.Usages),
		}
		for _, d := range f.Definitions {
			entry.Definitions = append(entry.Definitions, models.DefinitionEntry{ID: d.ID, Name: d.Name, Line: d.Line})
		}
		if withNames {
			entry.UsedNames = f.UsedNames()
		}
		report.Files = append(report.Files, entry)

		if f.Kind == index.TestSuite {
			report.Summary.TestSuites++
		} else {
			report.Summary.Resources++
		}
		report.Summary.Definitions += len(f.Definitions)
		report.Summary.Usages += len(f.Usages)
	}
	report.Summary.Files = len(idx.Files)
	return report, nil
}

// ClusterReport lists the duplicate clusters. With crossFileOnly set,
// clusters confined to one file are left out.
func (s *Session) ClusterReport(ctx context.Context, crossFileOnly bool) (*models.ClusterReport, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.Clusters(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ClusterReport{
		Root:           idx.Root,
		Name:           toModels(idx.Root, c.Name, crossFileOnly),
		Implementation: toModels(idx.Root, c.Implementation, crossFileOnly),
	}, nil
}

func toModels(root string, clusters []duplicates.Cluster, crossFileOnly bool) []models.Cluster {
	out := make([]models.Cluster, 0, len(clusters))
	for _, c := range clusters {
		if crossFileOnly && !c.CrossFile() {
			continue
		}
		mc := models.Cluster{Key: c.Key, Members: make([]models.ClusterMember, len(c.Members))}
		for i, m := range c.Members {
			mc.Members[i] = models.ClusterMember{Name: m.Name, File: relPath(root, m.File), Line: m.Line}
		}
		out = append(out, mc)
	}
	return out
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
