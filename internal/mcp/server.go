// Package mcp provides an MCP (Model Context Protocol) server for nudge,
// so agent hosts can feed interaction telemetry and consume suggestions
// over stdio.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/waltergaltieri/nudge/internal/config"
	"github.com/waltergaltieri/nudge/internal/engine"
	"github.com/waltergaltieri/nudge/internal/logging"
	"github.com/waltergaltieri/nudge/internal/ratelimit"
	"github.com/waltergaltieri/nudge/internal/store"
)

// Server wraps the MCP SDK server around one suggestion orchestrator.
type Server struct {
	server       *sdk.Server
	orchestrator *engine.Orchestrator
	toolLimiters ratelimit.ToolLimiters
}

// Config holds server configuration.
type Config struct {
	Name      string // Server name (e.g., "nudge")
	Version   string // Server version
	SessionID string
	UserID    string
	Nudge     *config.NudgeConfig
}

// NewServer creates an MCP server with the nudge tools registered. The
// server owns the orchestrator and destroys it on shutdown.
func NewServer(cfg *Config) (*Server, error) {
	nudgeCfg := cfg.Nudge
	if nudgeCfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		nudgeCfg = loaded
	}

	opts := engine.Options{
		SessionID: cfg.SessionID,
		UserID:    cfg.UserID,
		Decisions: logging.NewDecisionLogger(".nudge", nudgeCfg.Logging.Level),
	}
	if nudgeCfg.Store.Enabled {
		sink, err := store.Open(nudgeCfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("opening analytics store: %w", err)
		}
		opts.Sink = sink
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server:       mcpServer,
		orchestrator: engine.New(nudgeCfg, opts),
		toolLimiters: ratelimit.NewToolLimiters(),
	}
	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport. This blocks until the
// client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.orchestrator.Destroy()

	return err
}

// Close tears down the orchestrator without serving.
func (s *Server) Close() error {
	s.orchestrator.Destroy()
	return nil
}
