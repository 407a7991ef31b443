package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/kwgraph/internal/output"
	"github.com/panbanda/kwgraph/internal/service/analysis"
	"github.com/panbanda/kwgraph/pkg/analyzer/style"
	"github.com/panbanda/kwgraph/pkg/config"
)

// AnalyzeInput is the base input for all tools.
type AnalyzeInput struct {
	Path   string `json:"path,omitempty" jsonschema:"Any file or directory inside the project. Defaults to the current directory."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// LintInput selects the rules to run.
type LintInput struct {
	AnalyzeInput
	Rules []string `json:"rules,omitempty" jsonschema:"Rule names to run. Defaults to every enabled rule."`
}

// ClustersInput adds cluster options.
type ClustersInput struct {
	AnalyzeInput
	IncludeSameFile bool `json:"include_same_file,omitempty" jsonschema:"Include clusters whose members all live in one file."`
}

// IndexInput adds index options.
type IndexInput struct {
	AnalyzeInput
	IncludeUsages bool `json:"include_usages,omitempty" jsonschema:"List the distinct keyword names each file invokes."`
}

func getPath(input AnalyzeInput) string {
	if input.Path == "" {
		return "."
	}
	return input.Path
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := output.MarshalTOON(data)
		if err != nil {
			return "", err
		}
		return "```\n" + out + "\n```", nil
	default:
		return output.MarshalTOON(data)
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) session(input AnalyzeInput) *analysis.Session {
	return analysis.New(getPath(input), analysis.WithConfig(s.config), analysis.WithLogger(s.logger))
}

func (s *Server) lint(ctx context.Context, input AnalyzeInput, rules ...string) (*mcp.CallToolResult, any, error) {
	report, err := s.session(input).Lint(ctx, rules...)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report, getFormat(input))
}

// Tool handlers

func (s *Server) handleLint(ctx context.Context, req *mcp.CallToolRequest, input LintInput) (*mcp.CallToolResult, any, error) {
	return s.lint(ctx, input.AnalyzeInput, input.Rules...)
}

func (s *Server) handleUnused(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	return s.lint(ctx, input, config.RuleUnusedKeyword)
}

func (s *Server) handleMove(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	return s.lint(ctx, input, config.RuleMoveKeyword)
}

func (s *Server) handleDuplicates(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	return s.lint(ctx, input, config.RuleDuplicatedKeyword)
}

func (s *Server) handleStyle(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	var names []string
	for _, r := range style.All() {
		names = append(names, r.Name())
	}
	return s.lint(ctx, input, names...)
}

func (s *Server) handleClusters(ctx context.Context, req *mcp.CallToolRequest, input ClustersInput) (*mcp.CallToolResult, any, error) {
	report, err := s.session(input.AnalyzeInput).ClusterReport(ctx, !input.IncludeSameFile)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report, getFormat(input.AnalyzeInput))
}

func (s *Server) handleIndex(ctx context.Context, req *mcp.CallToolRequest, input IndexInput) (*mcp.CallToolResult, any, error) {
	report, err := s.session(input.AnalyzeInput).IndexReport(ctx, input.IncludeUsages)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report, getFormat(input.AnalyzeInput))
}
