package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptFrontmatter is parsed from YAML frontmatter in prompt files.
type promptFrontmatter struct {
	Description string `yaml:"description"`
}

// registerPrompts registers one prompt per embedded markdown file, named
// after the file.
func (s *Server) registerPrompts() {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".md")
		file := path.Join("prompts", entry.Name())

		content, err := promptFiles.ReadFile(file)
		if err != nil {
			s.logger.Warn("skipping prompt", zap.String("file", file), zap.Error(err))
			continue
		}

		description, body := parseFrontmatter(content)

		prompt := &mcp.Prompt{
			Name:        name,
			Description: description,
		}
		s.server.AddPrompt(prompt, makePromptHandler(description, body))
	}
}

// parseFrontmatter extracts YAML frontmatter and returns description and body.
func parseFrontmatter(content []byte) (description string, body string) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return "", string(content)
	}

	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		return "", string(content)
	}

	var fm promptFrontmatter
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return "", string(content)
	}

	body = strings.TrimPrefix(string(rest[end+5:]), "\n")
	return fm.Description, body
}

func makePromptHandler(description, body string) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: body},
				},
			},
		}, nil
	}
}
