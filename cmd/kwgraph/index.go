package main

import (
	"fmt"

	"github.com/panbanda/kwgraph/internal/output"
	"github.com/panbanda/kwgraph/internal/progress"
	"github.com/panbanda/kwgraph/internal/service/analysis"
	"github.com/urfave/cli/v2"
)

func indexCmd() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Show every indexed file with its keyword definitions and usages",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "names",
				Usage: "Include the distinct keyword names each file invokes",
			},
		},
		Action: runIndexCmd,
	}
}

func runIndexCmd(c *cli.Context) error {
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
	report, err := session.IndexReport(c.Context, c.Bool("names"))
	bar.Done()
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	formatter, err := e.newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(report.Files) == 0 && formatter.Format() == output.FormatText {
		formatter.Warning("No suite or resource files found under %s", report.Root)
		return nil
	}
	return formatter.Output(output.NewIndex(report))
}

func clustersCmd() *cli.Command {
	return &cli.Command{
		Name:      "clusters",
		Usage:     "Show groups of keywords sharing a name or an implementation",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include clusters whose members all live in one file",
			},
		},
		Action: runClustersCmd,
	}
}

func runClustersCmd(c *cli.Context) error {
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
	if _, err := session.Index(c.Context); err != nil {
		bar.Done()
		return fmt.Errorf("indexing failed: %w", err)
	}
	bar.Done()

	spinner := progress.NewSpinner("Clustering keywords...")
	report, err := session.ClusterReport(c.Context, !c.Bool("all"))
	if err != nil {
		spinner.FinishError(err)
		return fmt.Errorf("clustering failed: %w", err)
	}
	spinner.FinishSuccess()

	formatter, err := e.newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if len(report.Name) == 0 && len(report.Implementation) == 0 && formatter.Format() == output.FormatText {
		formatter.Success("No duplicated keywords found")
		return nil
	}
	return formatter.Output(output.NewClusters(report))
}
