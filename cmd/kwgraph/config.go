package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/urfave/cli/v2"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a configuration file",
				Description: `Validates a kwgraph configuration file against the embedded schema.

Examples:
  kwgraph config validate                    # Validates default config locations
  kwgraph -c kwgraph.toml config validate    # Validates specific file`,
				Action: runConfigValidate,
			},
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Description: `Shows the merged configuration from defaults and config file, with
every rule resolved.`,
				Action: runConfigShow,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON Schema for config files",
				Action: runConfigSchema,
			},
		},
	}
}

func configPath(c *cli.Context) string {
	if path := c.String("config"); path != "" {
		return path
	}
	return config.Find()
}

func runConfigValidate(c *cli.Context) error {
	path := configPath(c)
	if path == "" {
		color.Yellow("No config file found. Default configuration is valid.")
		return nil
	}

	if err := config.Validate(path); err != nil {
		color.Red("Configuration validation failed:")
		fmt.Fprintf(c.App.Writer, "  - %s\n", err)
		return cli.Exit("", 1)
	}
	color.Green("Configuration valid: %s", path)
	return nil
}

func runConfigShow(c *cli.Context) error {
	cfg, source, err := config.LoadOrDefault(c.String("config"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if source != "" {
		fmt.Fprintf(w, "# Configuration from: %s\n\n", source)
	} else {
		fmt.Fprintln(w, "# Default configuration (no config file found)")
		fmt.Fprintln(w)
	}

	content, err := cfg.MarshalTOML()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = w.Write(content)
	return err
}

func runConfigSchema(c *cli.Context) error {
	_, err := c.App.Writer.Write(config.Schema())
	return err
}
