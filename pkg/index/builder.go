package index

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/panbanda/kwgraph/internal/fileproc"
	"github.com/panbanda/kwgraph/internal/logging"
	"github.com/panbanda/kwgraph/internal/scanner"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/panbanda/kwgraph/pkg/keyword"
	"github.com/panbanda/kwgraph/pkg/robot"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// ProgressFunc is called once the file count is known and returns the
// function to call after each file.
type ProgressFunc func(total int) func()

// Builder discovers a project and indexes every file in it.
type Builder struct {
	config   *config.Config
	logger   *zap.Logger
	matcher  *keyword.Matcher
	progress ProgressFunc
}

// Option configures a Builder.
type Option func(*Builder)

// WithConfig sets the configuration. Defaults are used otherwise.
func WithConfig(cfg *config.Config) Option {
	return func(b *Builder) {
		if cfg != nil {
			b.config = cfg
		}
	}
}

// WithLogger sets the logger for skipped files and timings.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = logging.OrNop(logger)
	}
}

// WithMatcher shares a name matcher with the built index.
func WithMatcher(m *keyword.Matcher) Option {
	return func(b *Builder) {
		b.matcher = m
	}
}

// WithProgress reports per-file progress.
func WithProgress(fn ProgressFunc) Option {
	return func(b *Builder) {
		b.progress = fn
	}
}

// NewBuilder creates an index builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		config: config.DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.matcher == nil {
		b.matcher = keyword.NewMatcher()
	}
	return b
}

// FindRoot returns the project root enclosing path.
func (b *Builder) FindRoot(path string) (string, error) {
	fallback, err := b.fallback()
	if err != nil {
		return "", err
	}
	return scanner.FindProjectRoot(path, b.config.Project.Marker, fallback)
}

// Build finds the project root enclosing path and indexes every file under
// it. It fails with scanner.ErrProjectRootNotFound when there is no root.
func (b *Builder) Build(ctx context.Context, path string) (*ProjectIndex, error) {
	root, err := b.FindRoot(path)
	if err != nil {
		return nil, err
	}
	files, err := scanner.NewScanner(b.config).ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return b.BuildFiles(ctx, root, files)
}

// BuildFiles indexes the given files as the project at root. Files that
// cannot be read or decoded are logged and left out.
func (b *Builder) BuildFiles(ctx context.Context, root string, files []string) (*ProjectIndex, error) {
	fallback, err := b.fallback()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var tick fileproc.ProgressFunc
	if b.progress != nil {
		tick = b.progress(len(files))
	}

	records, errs := fileproc.MapFilesN(ctx, files, b.config.Project.Workers, func(path string) (*FileRecord, error) {
		return ReadRecord(path, fallback)
	}, tick)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if errs != nil {
		for _, e := range errs.Errors {
			b.logger.Warn("skipping unreadable file", zap.String("path", e.Path), zap.Error(e.Err))
		}
	}

	idx := New(root, records, b.matcher)
	b.logger.Debug("index built",
		zap.String("root", root),
		zap.Int("files", len(idx.Files)),
		zap.Int("definitions", len(idx.Definitions())),
		zap.Duration("duration", time.Since(start)))
	return idx, nil
}

func (b *Builder) fallback() (encoding.Encoding, error) {
	enc, err := robot.LookupEncoding(b.config.Project.EncodingFallback)
	if err != nil {
		return nil, fmt.Errorf("project.encoding_fallback: %w", err)
	}
	return enc, nil
}

// ReadRecord reads, decodes and parses one file.
func ReadRecord(path string, fallback encoding.Encoding) (*FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := robot.Decode(data, fallback)
	if err != nil {
		return nil, err
	}

	r := NewRecord(robot.Parse(path, text))
	r.Modified = info.ModTime()
	r.Digest = HashBytes(data)
	return r, nil
}
