package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alimon-app/mise/internal/api"
	"github.com/alimon-app/mise/internal/config"
	"github.com/alimon-app/mise/internal/handlers"
	"github.com/alimon-app/mise/internal/repository/postgres"
	"github.com/alimon-app/mise/internal/service"
	"github.com/alimon-app/mise/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the metrics endpoint and the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending migrations on start")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}
	l.Info("Starting Mise...")

	// Database
	db, err := openDatabase(cfg, l)
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipMigrations {
		if err := db.Migrate(cfg.MigrationsPath); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Service layer
	svc := service.New(postgres.NewStore(db.DB), l, service.WithAdmin(cfg.AdminUserID))

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telegram bot
	if cfg.TelegramToken != "" {
		bot, err := newBot(cfg, svc, l)
		if err != nil {
			return err
		}
		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	} else {
		l.Info("TELEGRAM_TOKEN not set, Telegram bot disabled")
	}

	apiServer := api.NewServer(svc, l, api.Options{JWTSecret: cfg.JWTSecret, RequestTimeout: cfg.RequestTimeout})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serve(l, "HTTP server", httpServer, stop)
	serve(l, "Metrics server", metricsServer, stop)

	l.Info("Mise started successfully")

	<-ctx.Done()

	l.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range []*http.Server{httpServer, metricsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.WithError(err).Warn("Server did not shut down cleanly")
		}
	}

	l.Info("Mise stopped")
	return nil
}

// serve starts srv in the background. A listener failure stops the process.
func serve(l *logrus.Logger, name string, srv *http.Server, stop context.CancelFunc) {
	go func() {
		l.Infof("%s listening on %s", name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("%s error: %v", name, err)
			stop()
		}
	}()
}

func newBot(cfg *config.Config, svc *service.Service, l *logrus.Logger) (*telegram.Bot, error) {
	bot, err := telegram.NewBot(cfg.TelegramToken, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	bot.RegisterCommand("start", "Get started", handlers.NewStartHandler(svc, l))
	bot.RegisterCommand("help", "Show all commands", handlers.NewHelpHandler(l))

	// Food log
	bot.RegisterCommand("log", "Log a portion: /log 2 cup almond milk", handlers.NewLogHandler(svc, l))
	bot.RegisterCommand("eat", "Log a portion and take it out of stock", handlers.NewEatHandler(svc, l))
	bot.RegisterCommand("today", "Nutrient totals for today", handlers.NewTodayHandler(svc, l))

	// Goals and pantry
	bot.RegisterCommand("goals", "Show or set daily goals", handlers.NewGoalsHandler(svc, l))
	bot.RegisterCommand("stock", "Show or add to your pantry", handlers.NewStockHandler(svc, l))

	if err := bot.PublishCommands(); err != nil {
		l.WithError(err).Warn("Could not publish bot commands")
	}
	return bot, nil
}
