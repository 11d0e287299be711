package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/backoffice/internal/config"
	"github.com/JonMunkholm/backoffice/internal/core"
	"github.com/JonMunkholm/backoffice/internal/navigation"
	"github.com/JonMunkholm/backoffice/internal/session"
	"github.com/JonMunkholm/backoffice/internal/web"
)

// consoleTitle heads the navigation menu and untitled pages.
const consoleTitle = "Back Office"

func newServeCommand(g *globals) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				g.cfg.Server.Port = port
			}
			return runServe(cmd.Context(), g.cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides SERVER_PORT)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"edit_switch", cfg.Table.EditSwitch,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// Background jobs stop with the signal context.
	go a.service.AuditLog().StartRetention(ctx, core.RetentionConfig{
		Retention:     cfg.Audit.Retention,
		CheckInterval: cfg.Audit.PruneInterval,
	})

	server := web.NewServer(web.Deps{
		Service: a.service,
		Sessions: session.NewManager(session.Config{
			MaxSessions:  cfg.Session.MaxSessions,
			IdleTimeout:  cfg.Session.IdleTimeout,
			CookieName:   cfg.Session.CookieName,
			SecureCookie: cfg.Session.SecureCookie,
		}),
		Menu:   navigation.FromRegistry(consoleTitle),
		Config: cfg,
		Ping:   a.ping,
		Reset:  a.reset,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}
