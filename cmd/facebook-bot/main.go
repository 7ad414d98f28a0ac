// Command facebook-bot runs the Messenger webhook bridge.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/anoopsurendrananp/facebook-bot/internal/adapter/assistant"
	"github.com/anoopsurendrananp/facebook-bot/internal/adapter/messenger"
	"github.com/anoopsurendrananp/facebook-bot/internal/config"
	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
	"github.com/anoopsurendrananp/facebook-bot/internal/service"
	"github.com/anoopsurendrananp/facebook-bot/internal/store"
	transport "github.com/anoopsurendrananp/facebook-bot/internal/transport/http"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "facebook-bot",
		Short:         "Messenger webhook bridge to a Watson Assistant workspace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newFlushCmd(), newSetMenuCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			sessions, err := newSessionStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer sessions.Close()

			dialog := assistant.NewClient(cfg.WatsonURL, cfg.WatsonUsername, cfg.WatsonPassword,
				cfg.WatsonWorkspace, cfg.WatsonVersion, cfg.DialogTimeout, cfg.MaxRetries)
			gateway := messenger.NewClient(cfg.SendAPIURL, cfg.PageAccessToken, cfg.SendTimeout, cfg.MaxRetries)

			svc := service.New(sessions, dialog, gateway, cfg, logger)
			server := transport.NewServer(svc, cfg, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				addr := fmt.Sprintf(":%d", cfg.HTTPPort)
				logger.Info().Str("addr", addr).Str("backend", cfg.SessionBackend).Msg("webhook server listening")
				if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				logger.Info().Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}

func newFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush-sessions",
		Short: "Wipe every stored conversation session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := newLogger(cfg.LogLevel)

			sessions, err := newSessionStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer sessions.Close()

			if err := sessions.Flush(cmd.Context()); err != nil {
				return err
			}
			logger.Info().Str("backend", cfg.SessionBackend).Msg("sessions flushed")
			return nil
		},
	}
}

func newSetMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-menu",
		Short: "Install the page's persistent menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			gateway := messenger.NewClient(cfg.SendAPIURL, cfg.PageAccessToken, cfg.SendTimeout, cfg.MaxRetries)
			menus := []messenger.PersistentMenu{
				{
					Locale:                "default",
					ComposerInputDisabled: true,
					CallToActions: []domain.Button{
						{Type: "postback", Title: "Right job", Payload: "RIGHT_JOB"},
						{Type: "postback", Title: "Questions on application", Payload: "APPLICATION_QUESTIONS"},
						{Type: "postback", Title: "Learn about Siemens", Payload: "ABOUT_SIEMENS"},
					},
				},
				{Locale: "zh_CN", ComposerInputDisabled: false},
			}
			if err := gateway.SetPersistentMenu(cmd.Context(), menus); err != nil {
				return err
			}
			logger.Info().Msg("persistent menu installed")
			return nil
		},
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// newSessionStore opens the configured session cache backend.
func newSessionStore(ctx context.Context, cfg *config.Config) (store.SessionStore, error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		s := store.NewRedisStore(cfg.RedisAddr())
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		return store.NewSQLiteStore(cfg.SQLiteDSN)
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
