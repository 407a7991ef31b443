package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/kwgraph/internal/output"
	"github.com/panbanda/kwgraph/internal/scanner"
	"github.com/panbanda/kwgraph/internal/service/analysis"
	"github.com/panbanda/kwgraph/pkg/robot"
	"github.com/panbanda/kwgraph/pkg/watch"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch the project and re-run lint when files change",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "rule",
				Aliases: []string{"r"},
				Usage:   "Run only these rules (repeatable)",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a change triggers a run",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	fallback, err := robot.LookupEncoding(e.config.Project.EncodingFallback)
	if err != nil {
		return err
	}
	root, err := scanner.FindProjectRoot(getPath(c), e.config.Project.Marker, fallback)
	if err != nil {
		return err
	}
	rules := c.StringSlice("rule")

	watcher, err := watch.NewWatcher(root, e.config, c.Duration("debounce"), e.logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	run := func(ctx context.Context) {
		// A new session per run, so every change is analysed from scratch.
		session := analysis.New(root, analysis.WithConfig(e.config), analysis.WithLogger(e.logger))
		report, err := session.Lint(ctx, rules...)
		if err != nil {
			color.Red("Analysis error: %v", err)
			return
		}
		formatter, err := e.newFormatter(c)
		if err != nil {
			color.Red("Output error: %v", err)
			return
		}
		defer formatter.Close()
		if len(report.Diagnostics) == 0 {
			formatter.Success("No issues found in %d files", report.Summary.FilesAnalyzed)
			return
		}
		if err := formatter.Output(output.NewDiagnostics("Keyword Diagnostics", report)); err != nil {
			color.Red("Output error: %v", err)
		}
	}

	watcher.SetCallback(func(ctx context.Context, changed []string) {
		for _, path := range changed {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			color.Yellow("File changed: %s", rel)
		}
		fmt.Println(strings.Repeat("-", 40))
		start := time.Now()
		run(ctx)
		e.logger.Debug("watch run finished", zap.Int("changed", len(changed)), zap.Duration("duration", time.Since(start)))
	})

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx)
	color.Cyan("Watching for changes in %s...", root)
	color.Cyan("Press Ctrl+C to stop")
	fmt.Println()

	if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
