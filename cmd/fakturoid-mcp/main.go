package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/cookielab/fakturoid-mcp/internal/auth"
	"github.com/cookielab/fakturoid-mcp/internal/config"
	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
	"github.com/cookielab/fakturoid-mcp/internal/logging"
	"github.com/cookielab/fakturoid-mcp/internal/mcpserver"
	"github.com/cookielab/fakturoid-mcp/internal/server"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Environment, cfg.LogLevel)

	creds := auth.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		AppName:      cfg.AppName,
		ContactEmail: cfg.ContactEmail,
		BaseURL:      cfg.BaseURL,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.AuthMode {
	case config.AuthModeLocal:
		return runStdio(ctx, cfg, creds, logger)
	case config.AuthModeOAuth:
		return runHTTP(ctx, cfg, creds, logger)
	default:
		return fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

// runStdio serves MCP over stdio, authenticating as the configured OAuth
// client via the client-credentials grant.
func runStdio(ctx context.Context, cfg *config.Config, creds auth.Credentials, logger *slog.Logger) error {
	strategy := auth.NewLocalStrategy(creds, nil, logger)
	client := fakturoid.NewClient(strategy, cfg.BaseURL, cfg.AccountSlug, nil, logger)

	mcpServer := newMCPServer(client)

	logger.Info("starting stdio server",
		slog.String("account", cfg.AccountSlug),
		slog.String("version", Version),
	)

	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// runHTTP serves MCP over streamable HTTP for multiple users, each bound
// to their own Fakturoid token through the authorization-code flow.
func runHTTP(ctx context.Context, cfg *config.Config, creds auth.Credentials, logger *slog.Logger) error {
	store, err := auth.OpenBoltTokenStore(cfg.TokenDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	strategy := auth.NewOAuthStrategy(creds, store, nil, logger)
	client := fakturoid.NewClient(strategy, cfg.BaseURL, cfg.AccountSlug, nil, logger)

	mcpServer := newMCPServer(client)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	sessions := server.NewSessions()
	defer sessions.Stop()

	mux := server.NewMux(server.MuxConfig{
		Strategy:   strategy,
		Sessions:   sessions,
		MCPHandler: mcpHandler,
		Logger:     logger,
		ServerURL:  cfg.ServerURL,
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server",
			slog.String("listen", cfg.ListenAddr),
			slog.String("server_url", cfg.ServerURL),
			slog.String("account", cfg.AccountSlug),
			slog.String("version", Version),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newMCPServer(client *fakturoid.Client) *mcp.Server {
	s := mcp.NewServer(
		&mcp.Implementation{Name: "fakturoid-mcp", Version: Version},
		nil,
	)
	mcpserver.RegisterTools(s, client)
	mcpserver.RegisterResources(s, client)
	mcpserver.RegisterPrompts(s)
	return s
}
