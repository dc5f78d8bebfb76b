package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightminder-service/internal/domain/entity"
	"flightminder-service/internal/infrastructure/config"
	"flightminder-service/internal/interface/aeroapi"
	"flightminder-service/internal/interface/telegram"
	"flightminder-service/internal/usecase"
	"flightminder-service/pkg/logger"
	"flightminder-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration first so the log level is known
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := logger.NewLogger(false)
		bootLog.Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.Debug)
	log.Info("Starting Flightminder Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("flightminder")

	// Wire the reminder engine: provider -> tracker -> scheduler, with the
	// bot attached last as the delivery path.
	provider := aeroapi.NewClient(cfg.AeroAPIBaseURL, cfg.AeroAPIKey, cfg.LookupTimeout, log, m)
	scheduler := usecase.NewReminderScheduler(entity.DefaultLadder(), log, m)
	tracker := usecase.NewTracker(provider, scheduler, log)

	bot, err := telegram.New(cfg.TelegramToken, tracker, log)
	if err != nil {
		log.Fatal("Failed to create Telegram bot", "error", err)
	}
	scheduler.SetSender(bot)

	// Start the bot update loop in a goroutine
	go func() {
		if err := bot.Start(ctx); err != nil {
			log.Error("Telegram bot stopped", "error", err)
		}
	}()

	// Start the schedule-change watchdog
	watchdog := usecase.NewWatchdog(tracker, cfg.WatchdogInterval, cfg.LookupTimeout, log)
	if err := watchdog.Start(); err != nil {
		log.Fatal("Failed to start watchdog", "error", err)
	}

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	watchdog.Stop()
	cancel() // Cancel the context to stop the bot loop

	log.Info("Flightminder Service stopped")
}
