package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"microblog/internal/auth"
	"microblog/internal/config"
	"microblog/internal/db"
	"microblog/internal/logger"
	"microblog/internal/server"
	"microblog/web/static/html"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg *config.Config
	log *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "microblog",
		Short:         "A minimal multi-user blog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			env := "production"
			if cfg.IsDev {
				env = "development"
			}
			a.cfg = cfg
			a.log = logger.New(logger.Options{
				Level:       cfg.LogLevel,
				SentryDSN:   cfg.SentryDSN,
				Environment: env,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			sentry.Flush(2 * time.Second)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := db.Open(cmd.Context(), a.cfg.DBPath, a.log)
			if err != nil {
				return err
			}
			return store.Close()
		},
	})

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, a.cfg.DBPath, a.log)
	if err != nil {
		return err
	}
	defer store.Close()

	authSvc := auth.NewService(store, auth.Options{
		SignKey:  a.cfg.SignKey,
		TokenTTL: a.cfg.TokenTTL,
		Secure:   !a.cfg.IsDev,
	}, a.log)

	if a.cfg.AdminUser != "" && a.cfg.AdminPass != "" {
		if err := authSvc.EnsureUser(ctx, a.cfg.AdminUser, a.cfg.AdminPass); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	views := html.New()
	if a.cfg.IsDev {
		views = html.NewFromDir("web/static/html")
	}

	return server.New(a.cfg, store, store, authSvc, views, a.log).Run(ctx)
}
