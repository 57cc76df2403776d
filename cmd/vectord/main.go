// Vectord serves vector-index management and search tools over the Model
// Context Protocol on stdio.
//
// Usage:
//
//	# Serve with the default config file (~/.config/vectord/config.yaml)
//	vectord serve
//
//	# Configure via environment
//	VECTORD_API_BASE_URL=https://api.example.com/client/v4 \
//	VECTORD_API_TOKEN=... \
//	VECTORD_ACCOUNT_ID=... \
//	vectord serve
//
//	# Inspect the registered tools
//	vectord tools
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/vectord/internal/account"
	"github.com/fyrsmithlabs/vectord/internal/config"
	"github.com/fyrsmithlabs/vectord/internal/logging"
	mcpserver "github.com/fyrsmithlabs/vectord/internal/mcp"
	"github.com/fyrsmithlabs/vectord/internal/vectorize"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vectord",
	Short: "MCP server for vector-index management and search",
	Long: `vectord exposes vector-index management and search tools over the
Model Context Protocol. It speaks MCP on stdio and delegates every
operation to the remote vector-database API.`,
	Version: version,
	RunE:    runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the vector-index tools on stdio",
	RunE:  runServe,
}

var toolsCmd = &cobra.Command{
	Use:   "tools [query]",
	Short: "List the registered MCP tools",
	Long: `List the registered MCP tools, optionally filtered by a search query
matched against tool names, descriptions and keywords.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTools,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vectord by Fyrsmith Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/vectord/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	client, err := vectorize.NewClient(&vectorize.ClientConfig{
		BaseURL:  cfg.API.BaseURL,
		APIToken: cfg.API.Token.Value(),
		Timeout:  cfg.API.Timeout.Duration(),
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	server, err := mcpserver.NewServer(&mcpserver.Config{
		Name:    cfg.Server.Name,
		Version: version,
		Logger:  logger,
	}, client, account.NewEnvResolver(cfg.Account.ID))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("vectord starting",
		zap.String("version", version),
		zap.String("api_base_url", cfg.API.BaseURL))

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("vectord shutdown complete")
	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	registry := mcpserver.NewToolRegistry()
	for _, tool := range mcpserver.Catalog() {
		registry.Register(tool)
	}

	tools := registry.List()
	if len(args) == 1 {
		tools = registry.Search(args[0])
	}

	if len(tools) == 0 {
		fmt.Println("no matching tools")
		return nil
	}
	for _, tool := range tools {
		fmt.Printf("%-28s [%s] %s\n", tool.Name, tool.Category, tool.Description)
	}
	return nil
}
