// Command mascd runs the MASC-MCP coordination server: a room-scoped
// shared workspace exposed to agents over MCP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/masc-mcp/masc-mcp/internal/auth"
	"github.com/masc-mcp/masc-mcp/internal/config"
	"github.com/masc-mcp/masc-mcp/internal/handover"
	"github.com/masc-mcp/masc-mcp/internal/mcp"
	"github.com/masc-mcp/masc-mcp/internal/obs"
	"github.com/masc-mcp/masc-mcp/internal/planning"
	"github.com/masc-mcp/masc-mcp/internal/ratelimit"
	"github.com/masc-mcp/masc-mcp/internal/room"
	"github.com/masc-mcp/masc-mcp/internal/session"
	"github.com/masc-mcp/masc-mcp/internal/storage"
	"github.com/masc-mcp/masc-mcp/internal/tools"
	"github.com/masc-mcp/masc-mcp/internal/transport/httpadmin"
	"github.com/masc-mcp/masc-mcp/internal/transport/stdio"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "mascd",
		Short: "MASC-MCP multi-agent coordination server",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a masc config file")

	root.AddCommand(newVersionCommand())
	root.AddCommand(newServeCommand(&configPath))
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio, with an optional admin HTTP surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := obs.BuildLogger(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	backend, err := storage.NewFilesystem(cfg.Room.StorageDir, logger)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer backend.Close()

	r := room.New(cfg.Room.Name, backend, logger)
	authManager := auth.NewManager(backend)
	if cfg.Auth.Enabled {
		if err := authManager.EnableAuth(); err != nil {
			return fmt.Errorf("enabling auth: %w", err)
		}
	}

	deps := tools.Deps{
		Room:      r,
		Auth:      authManager,
		RateLimit: ratelimit.NewRegistry(nil),
		Sessions:  session.NewMcpSessionStore(),
		Handover:  handover.NewStore(cfg.Room.Name, backend),
		Planning:  planning.NewStore(cfg.Room.Name, backend),
	}
	registry := mcp.NewRegistry()
	tools.RegisterAll(registry, deps)
	dispatcher := mcp.NewDispatcher(registry, "masc-mcp", version, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Admin.Enabled {
		adminServer := &http.Server{Addr: cfg.Admin.Addr, Handler: httpadmin.NewRouter(r)}
		go func() {
			logger.Info("admin surface listening", zap.String("addr", cfg.Admin.Addr))
			if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("admin surface failed", zap.Error(err))
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = adminServer.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("mascd serving over stdio", zap.String("room", cfg.Room.Name))
	server := stdio.NewServer(dispatcher, logger)
	return server.Run(ctx, os.Stdin, os.Stdout)
}
