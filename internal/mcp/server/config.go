package server

import (
	"fmt"

	"tmdb-mcp-server/internal/config"
	"tmdb-mcp-server/internal/mcp/protocol"
)

// Transport types
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// DefaultMaxLineSize bounds a single stdio message
const DefaultMaxLineSize = 10 * 1024 * 1024

// Config holds the configuration for the MCP server
type Config struct {
	// Server information
	Name    string
	Version string

	// Transport configuration
	Transport TransportConfig
}

// TransportConfig defines the transport layer configuration
type TransportConfig struct {
	Type string // stdio, http

	// For HTTP transport
	Host string
	Port int

	// For stdio transport
	MaxLineSize int
}

// NewConfigFromUnified creates a server Config from the unified config
func NewConfigFromUnified(cfg *config.Config, transport string) *Config {
	serverConfig := DefaultConfig()
	serverConfig.Name = cfg.Name
	serverConfig.Version = cfg.Version
	serverConfig.Transport.Type = transport

	if cfg.HTTP != nil {
		serverConfig.Transport.Host = cfg.HTTP.Host
		serverConfig.Transport.Port = cfg.HTTP.Port
	}

	return serverConfig
}

// DefaultConfig returns a default server configuration for testing
func DefaultConfig() *Config {
	return &Config{
		Name:    config.DefaultName,
		Version: config.DefaultVersion,
		Transport: TransportConfig{
			Type:        TransportStdio,
			Host:        config.DefaultHost,
			Port:        config.DefaultPort,
			MaxLineSize: DefaultMaxLineSize,
		},
	}
}

// ServerInfo is what initialize reports about this server
func (c *Config) ServerInfo() protocol.ServerInfo {
	return protocol.ServerInfo{Name: c.Name, Version: c.Version}
}

// DispatchOptions returns the dialect flags for the configured transport.
// HTTP answers every message and accepts legacy direct-method calls;
// stdio stays silent on notifications and only speaks the MCP methods.
func (c *Config) DispatchOptions() (Options, error) {
	switch c.Transport.Type {
	case TransportStdio:
		return Options{SilentNotifications: true}, nil
	case TransportHTTP:
		return Options{LegacyDialect: true}, nil
	default:
		return Options{}, fmt.Errorf("unsupported transport type: %s", c.Transport.Type)
	}
}

// Address returns the HTTP listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Transport.Host, c.Transport.Port)
}
