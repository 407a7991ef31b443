package main

import (
	"fmt"

	"github.com/panbanda/kwgraph/internal/output"
	"github.com/panbanda/kwgraph/internal/progress"
	"github.com/panbanda/kwgraph/internal/service/analysis"
	"github.com/panbanda/kwgraph/pkg/analyzer"
	"github.com/panbanda/kwgraph/pkg/analyzer/style"
	"github.com/panbanda/kwgraph/pkg/models"
	"github.com/urfave/cli/v2"
)

var failOnFlag = &cli.StringFlag{
	Name:  "fail-on",
	Usage: "Exit with code 2 when a diagnostic of this severity or worse is found: error, warning",
}

func lintCmd() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Run every enabled rule on every file of the project",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "rule",
				Aliases: []string{"r"},
				Usage:   "Run only these rules, even if disabled in config (repeatable)",
			},
			failOnFlag,
		},
		Action: func(c *cli.Context) error {
			return runLint(c, "Keyword Diagnostics", c.StringSlice("rule"))
		},
	}
}

func ruleCmd(name, usage, rule string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "[path]",
		Flags:     []cli.Flag{failOnFlag},
		Action: func(c *cli.Context) error {
			return runLint(c, usage, []string{rule})
		},
	}
}

func styleCmd() *cli.Command {
	return &cli.Command{
		Name:      "style",
		Usage:     "Check whitespace, assignment, naming, sleep and wait timeout conventions",
		ArgsUsage: "[path]",
		Flags:     []cli.Flag{failOnFlag},
		Action: func(c *cli.Context) error {
			var rules []string
			for _, r := range style.All() {
				rules = append(rules, r.Name())
			}
			return runLint(c, "Style Diagnostics", rules)
		},
	}
}

func runLint(c *cli.Context, title string, rules []string) error {
	var failOn analyzer.Severity
	if v := c.String("fail-on"); v != "" {
		sev, err := analyzer.ParseSeverity(v)
		if err != nil {
			return fmt.Errorf("--fail-on: %w", err)
		}
		failOn = sev
	}

	e, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	bar := progress.NewIndexing("Indexing...")
	session := analysis.New(getPath(c),
		analysis.WithConfig(e.config),
		analysis.WithLogger(e.logger),
		analysis.WithProgress(bar.Func()))
	report, err := session.Lint(c.Context, rules...)
	bar.Done()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := e.newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(report.Diagnostics) == 0 && formatter.Format() == output.FormatText {
		formatter.Success("No issues found in %d files", report.Summary.FilesAnalyzed)
	} else if err := formatter.Output(output.NewDiagnostics(title, report)); err != nil {
		return err
	}

	if failOn != "" {
		if n := atOrAbove(report, failOn); n > 0 {
			return cli.Exit(fmt.Sprintf("%d diagnostics at or above %s", n, failOn), exitFindings)
		}
	}
	return nil
}

func atOrAbove(report *models.LintReport, min analyzer.Severity) int {
	n := 0
	for _, d := range report.Diagnostics {
		if analyzer.Severity(d.Severity).AtLeast(min) {
			n++
		}
	}
	return n
}
