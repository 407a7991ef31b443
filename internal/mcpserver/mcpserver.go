package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/kwgraph/internal/logging"
	"github.com/panbanda/kwgraph/pkg/config"
	"go.uber.org/zap"
)

// Server wraps the MCP server and registers all kwgraph analysis tools.
type Server struct {
	server *mcp.Server
	config *config.Config
	logger *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the configuration every tool call analyses with.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithLogger sets the logger passed to analysis sessions.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logging.OrNop(logger)
	}
}

// NewServer creates a new MCP server with all kwgraph tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "kwgraph",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server: server,
		config: config.DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all kwgraph tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lint",
		Description: describeLint(),
	}, s.handleLint)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_unused_keywords",
		Description: describeUnused(),
	}, s.handleUnused)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_keyword_moves",
		Description: describeMove(),
	}, s.handleMove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_duplicate_keywords",
		Description: describeDuplicates(),
	}, s.handleDuplicates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "keyword_clusters",
		Description: describeClusters(),
	}, s.handleClusters)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "project_index",
		Description: describeIndex(),
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_style",
		Description: describeStyle(),
	}, s.handleStyle)
}
