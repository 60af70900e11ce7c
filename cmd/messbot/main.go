package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/api"
	"github.com/Kerhoff/MessBoT/internal/auth"
	"github.com/Kerhoff/MessBoT/internal/config"
	"github.com/Kerhoff/MessBoT/internal/handlers"
	"github.com/Kerhoff/MessBoT/internal/metrics"
	"github.com/Kerhoff/MessBoT/internal/repository/postgres"
	"github.com/Kerhoff/MessBoT/internal/service"
	"github.com/Kerhoff/MessBoT/internal/telegram"
	"github.com/Kerhoff/MessBoT/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat())
	l.WithFields(logrus.Fields{
		"env":      cfg.AppEnv,
		"timezone": cfg.Location.String(),
	}).Info("Starting MessBoT...")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := config.NewDatabase(ctx, cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrationsEnabled {
		if err := db.Migrate(); err != nil {
			l.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, "messbot"),
	)
	m := metrics.New(registry)

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		l.Fatalf("Failed to create token manager: %v", err)
	}

	// Service layer
	svc := service.New(l, tokens,
		postgres.NewUserRepository(db.DB),
		postgres.NewMessRepository(db.DB),
		postgres.NewPlanRepository(db.DB),
		postgres.NewSubscriptionRepository(db.DB),
		postgres.NewAttendanceRepository(db.DB),
		service.WithMetrics(m),
		service.WithLocation(cfg.Location),
	)

	apiServer := api.NewServer(svc, tokens, m, db, l, api.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:  cfg.AuthRateLimit,
		Development:    cfg.IsDevelopment(),
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	serve := func(name string, srv *http.Server) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Infof("%s listening on %s", name, srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.Errorf("%s error: %v", name, err)
				stop()
			}
		}()
	}
	serve("HTTP server", httpServer)
	serve("Metrics server", metricsServer)

	// Telegram bot
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}

		bot.RegisterCommand("start", handlers.NewStartHandler(svc, l))
		bot.RegisterCommand("help", handlers.NewHelpHandler(l))
		bot.RegisterCommand("subs", handlers.NewSubsHandler(svc, l))
		bot.RegisterCommand("attend", handlers.NewAttendHandler(svc, l))
		bot.RegisterCommand("today", handlers.NewTodayHandler(svc, l))

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	} else {
		l.Info("TELEGRAM_TOKEN not set, Telegram bot disabled")
	}

	l.Info("MessBoT started successfully")

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for name, srv := range map[string]*http.Server{"HTTP server": httpServer, "Metrics server": metricsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Errorf("%s shutdown error: %v", name, err)
		}
	}
	wg.Wait()

	l.Info("MessBoT stopped")
}
