package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"tmdb-mcp-server/internal/api"
	"tmdb-mcp-server/internal/config"
	"tmdb-mcp-server/internal/logging"
	mcpserver "tmdb-mcp-server/internal/mcp/server"
	"tmdb-mcp-server/internal/mcp/tools"
	"tmdb-mcp-server/internal/tmdb"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = config.DefaultVersion

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL ERROR: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// options holds flag values shared by all subcommands
type options struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string
	host       string
	port       int
}

// app is everything a transport needs, built from resolved configuration
type app struct {
	config       *config.Config
	serverConfig *mcpserver.Config
	logger       *logrus.Logger
	dispatcher   *mcpserver.Dispatcher
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tmdb-mcp-server",
		Short:         "MCP server exposing The Movie Database as tools",
		Long:          "tmdb-mcp-server speaks JSON-RPC 2.0 (MCP) over stdio or HTTP and answers tool calls by querying The Movie Database API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd, opts, stdin, stdout)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (.yaml, .yml or .json)")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "Env files to load (default .env)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")

	stdioCmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve newline-delimited JSON-RPC on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd, opts, stdin, stdout)
		},
	}

	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Serve JSON-RPC on POST /mcp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTP(cmd, opts)
		},
	}
	httpCmd.Flags().StringVar(&opts.host, "host", config.DefaultHost, "Host to listen on")
	httpCmd.Flags().IntVarP(&opts.port, "port", "p", config.DefaultPort, "Port to listen on")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.DefaultName, version)
		},
	}

	root.AddCommand(stdioCmd, httpCmd, versionCmd)
	return root
}

// loadConfig resolves configuration and applies flags that were set explicitly
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, opts.envFiles...)
	if err != nil {
		return nil, err
	}

	if cfg.Version == config.DefaultVersion {
		cfg.Version = version
	}

	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}
	if f := cmd.Flags().Lookup("host"); f != nil && f.Changed {
		cfg.HTTP.Host = opts.host
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.HTTP.Port = opts.port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command, opts *options, transport string) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	client, err := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey,
		tmdb.WithUserAgent(cfg.TMDB.UserAgent),
		tmdb.WithLogger(logging.Component(logger, "tmdb")),
	)
	if err != nil {
		return nil, err
	}

	registry, err := tools.NewTMDBRegistry(client, tmdb.NewImages(cfg.TMDB.ImageBaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	serverConfig := mcpserver.NewConfigFromUnified(cfg, transport)
	dispatchOptions, err := serverConfig.DispatchOptions()
	if err != nil {
		return nil, err
	}

	dispatcher := mcpserver.NewDispatcher(registry, serverConfig.ServerInfo(), dispatchOptions,
		logging.Component(logger, "dispatcher"))

	logger.WithFields(logrus.Fields{
		"transport": transport,
		"tools":     registry.Count(),
		"base_url":  cfg.TMDB.BaseURL,
	}).Debug("Configuration loaded")

	return &app{
		config:       cfg,
		serverConfig: serverConfig,
		logger:       logger,
		dispatcher:   dispatcher,
	}, nil
}

func runStdio(cmd *cobra.Command, opts *options, stdin io.Reader, stdout io.Writer) error {
	a, err := newApp(cmd, opts, mcpserver.TransportStdio)
	if err != nil {
		return err
	}

	transport := mcpserver.NewStdioTransport(a.dispatcher, a.serverConfig, logging.Component(a.logger, "stdio"))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Reads from stdin block, so a signal ends the process instead of waiting for EOF
	errCh := make(chan error, 1)
	go func() {
		errCh <- transport.Serve(ctx, stdin, stdout)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal, shutting down")
		return nil
	}
}

func runHTTP(cmd *cobra.Command, opts *options) error {
	a, err := newApp(cmd, opts, mcpserver.TransportHTTP)
	if err != nil {
		return err
	}

	if a.logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	httpLogger := logging.Component(a.logger, "http")
	router := api.SetupRouter(a.dispatcher, a.serverConfig.ServerInfo(), httpLogger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return api.Serve(ctx, a.serverConfig.Address(), router, httpLogger)
}
