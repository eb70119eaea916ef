package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Kerhoff/homepage/internal/api"
	"github.com/Kerhoff/homepage/internal/auth"
	"github.com/Kerhoff/homepage/internal/config"
	"github.com/Kerhoff/homepage/internal/media"
	"github.com/Kerhoff/homepage/internal/notify"
	"github.com/Kerhoff/homepage/internal/repository/sqlrepo"
	"github.com/Kerhoff/homepage/internal/resume"
	"github.com/Kerhoff/homepage/internal/service"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

// app is the fully wired server with the resources it owns
type app struct {
	db      *config.Database
	server  *api.Server
	metrics *api.Metrics
}

func (a *app) Close() error {
	return a.db.Close()
}

// newApp opens and migrates the database and wires every layer on top of it
func newApp(cfg *config.Config, log *logrus.Logger) (*app, error) {
	db, err := cfg.OpenDatabase(log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var opts []service.Option
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			// The site works without notifications.
			log.WithError(err).Warn("Telegram notifications disabled")
		} else {
			opts = append(opts, service.WithNotifier(tg))
		}
	}

	svc := service.New(log,
		sqlrepo.NewWishItemRepository(db.DB),
		sqlrepo.NewPostRepository(db.DB),
		media.NewStore(cfg.DataDir),
		opts...,
	)

	gate := auth.NewGate(cfg.AdminToken)
	if !gate.Configured() {
		log.Warn("APP_ADMIN_TOKEN is not set, admin endpoints are disabled")
	}

	metrics := api.NewMetrics()
	server := api.NewServer(svc, resume.NewLoader(cfg.ResumePath), gate, api.Options{
		SiteName:     cfg.SiteName,
		SiteTagline:  cfg.SiteTagline,
		DataDir:      cfg.DataDir,
		TrustedHosts: cfg.TrustedHosts,
		CORSOrigins:  cfg.CORSOrigins,
	}, metrics, log)

	return &app{db: db, server: server, metrics: metrics}, nil
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	log.WithField("site", cfg.SiteName).Info("Starting homepage...")

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	servers := []*http.Server{{
		Addr:              cfg.ListenAddr(),
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", a.metrics.Handler())
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Infof("HTTP server listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal...")
	case runErr = <-errCh:
		log.WithError(runErr).Error("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warnf("Failed to shut down server on %s", srv.Addr)
		}
	}

	log.Info("homepage stopped")
	return runErr
}
