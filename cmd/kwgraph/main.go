package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/kwgraph/internal/logging"
	"github.com/panbanda/kwgraph/internal/output"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// exitFindings is the exit code of lint when --fail-on matches a diagnostic.
const exitFindings = 2

func newApp() *cli.App {
	return &cli.App{
		Name:    "kwgraph",
		Usage:   "Keyword usage analysis for Robot Framework style test suites",
		Version: version,
		Description: `kwgraph indexes every suite and resource file of a test project and
reports user keywords that are never used, keywords that belong in another
file, and keywords duplicated across files.

The project is the nearest directory above the given path that holds the
marker file (.project by default).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"KWGRAPH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		// Exit codes are handled in main so commands stay testable.
		ExitErrHandler: func(*cli.Context, error) {},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			lintCmd(),
			ruleCmd("unused", "Report keywords nothing in the project invokes", config.RuleUnusedKeyword),
			ruleCmd("move", "Suggest files or folders for keywords their own file never uses", config.RuleMoveKeyword),
			ruleCmd("duplicates", "Report keywords duplicated across files by name or implementation", config.RuleDuplicatedKeyword),
			styleCmd(),
			indexCmd(),
			clustersCmd(),
			configCmd(),
			mcpCmd(),
			watchCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			if msg := err.Error(); msg != "" {
				color.Yellow("%s", msg)
			}
			os.Exit(exit.ExitCode())
		}
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// env is what every analysis command needs: the loaded config and the
// process logger.
type env struct {
	config *config.Config
	source string
	logger *zap.Logger
}

func setup(c *cli.Context) (*env, error) {
	cfg, source, err := config.LoadOrDefault(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(c.Bool("verbose"))
	if err != nil {
		return nil, err
	}
	if source != "" {
		logger.Debug("config loaded", zap.String("path", source))
	}
	return &env{config: cfg, source: source, logger: logger}, nil
}

// getPath returns the first positional arg, defaulting to ".".
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

// newFormatter honours --format, then the config file, then text.
func (e *env) newFormatter(c *cli.Context) (*output.Formatter, error) {
	format := c.String("format")
	if format == "" {
		format = e.config.Output.Format
	}
	colored := e.config.Output.Color && !c.Bool("no-color") && !color.NoColor
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), colored)
}
