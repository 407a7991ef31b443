package main

import (
	"github.com/panbanda/kwgraph/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes kwgraph's analyses
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "kwgraph": {
        "command": "kwgraph",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - lint                     Every enabled rule
  - find_unused_keywords     Keywords nothing invokes
  - suggest_keyword_moves    Better homes for keywords
  - find_duplicate_keywords  Duplicates across files
  - keyword_clusters         Name and implementation clusters
  - project_index            Files, definitions and usages
  - check_style              Layout and robustness rules`,
		Subcommands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Print the MCP registry server.json",
				Action: func(c *cli.Context) error {
					data, err := mcpserver.GenerateManifest(version)
					if err != nil {
						return err
					}
					_, err = c.App.Writer.Write(append(data, '\n'))
					return err
				},
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	server := mcpserver.NewServer(version,
		mcpserver.WithConfig(e.config),
		mcpserver.WithLogger(e.logger))
	return server.Run(c.Context)
}
