package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/vectord/internal/account"
	"github.com/fyrsmithlabs/vectord/internal/vectorize"
)

// errMissingAccount marks the no-active-account precondition internally for
// metrics and logging. It never crosses the tool boundary; the caller sees
// missingAccountText.
var errMissingAccount = errors.New("no active account")

// Server registers and serves the vector-index tools.
type Server struct {
	mcp      *mcp.Server
	api      vectorize.API
	accounts account.Resolver
	registry *ToolRegistry
	metrics  *Metrics
	logger   *zap.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "vectord").
	Name string

	// Version is the server version (default: "dev").
	Version string

	// Logger for structured logging.
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "vectord",
		Version: "dev",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates an MCP server dispatching to the given remote API,
// scoped per call by the account resolver.
func NewServer(cfg *Config, api vectorize.API, accounts account.Resolver) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if api == nil {
		return nil, fmt.Errorf("vectorize API is required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("account resolver is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		api:      api,
		accounts: accounts,
		registry: NewToolRegistry(),
		metrics:  NewMetrics(cfg.Logger),
		logger:   cfg.Logger,
	}

	s.registerTools()

	return s, nil
}

// Registry returns the tool registry built at startup.
func (s *Server) Registry() *ToolRegistry {
	return s.registry
}

// Run starts the MCP server on the stdio transport and blocks until the
// context is canceled or the transport closes.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport",
		zap.Int("tools", s.registry.Count()))
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// activeAccount resolves the account for one call. It returns the
// precondition envelope when no account is configured and an error envelope
// when resolution itself fails; in both cases the remote API must not be
// invoked.
func (s *Server) activeAccount(ctx context.Context, action string) (string, *mcp.CallToolResult, error) {
	accountID, err := s.accounts.ActiveAccount(ctx)
	if err != nil {
		return "", errorResult(action, fmt.Errorf("resolving account: %w", err)), err
	}
	if accountID == "" {
		return "", textResult(missingAccountText), errMissingAccount
	}
	return accountID, nil, nil
}
