package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lysyi3m/gradcafe-comb/app/api"
	"github.com/lysyi3m/gradcafe-comb/app/cfg"
	"github.com/lysyi3m/gradcafe-comb/app/database"
	"github.com/lysyi3m/gradcafe-comb/app/dump"
	"github.com/lysyi3m/gradcafe-comb/app/report"
	"github.com/lysyi3m/gradcafe-comb/app/scrape"
	"github.com/lysyi3m/gradcafe-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("Starting GradCafe Comb", "version", appCfg.Version, "driver", appCfg.DBDriver)

	db, err := connect(appCfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewApplicantRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		slog.Error("Failed to prepare schema", "error", err)
		os.Exit(1)
	}

	settings, err := report.LoadSettings(appCfg.ReportSettings)
	if err != nil {
		slog.Error("Failed to load report settings", "path", appCfg.ReportSettings, "error", err)
		os.Exit(1)
	}
	slog.Info("Report settings loaded", "target_term", settings.TargetTerm, "prior_term", settings.PriorTerm)

	scraper, err := scrape.New(scrape.Config{
		ListingURL: appCfg.ListingURL,
		Pages:      appCfg.Pages,
		Workers:    appCfg.PageWorkers,
		Delay:      appCfg.RequestDelay,
		Timeout:    appCfg.HTTPTimeout,
		UserAgent:  appCfg.UserAgent,
	}, nil)
	if err != nil {
		slog.Error("Failed to configure scraper", "error", err)
		os.Exit(1)
	}

	coordinator := tasks.NewCoordinator(scraper, repo, settings)

	if appCfg.ImportFile != "" {
		result, err := coordinator.RequestImport(context.Background(), dump.NewFile(appCfg.ImportFile))
		if err != nil {
			slog.Error("Failed to import export file", "path", appCfg.ImportFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Export file imported",
			"path", appCfg.ImportFile,
			"inserted", result.Inserted,
			"duplicates", result.Duplicates,
			"standardized", result.Standardized)
	}

	var scheduler tasks.TaskSchedulerInterface = tasks.NewScheduler(coordinator, appCfg.IngestInterval)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(coordinator, repo, appCfg.Version)

	// Pull Data answers only after the run completes, so the write timeout
	// has to cover a full ingestion.
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("GradCafe Comb shutdown complete")
}

func connect(appCfg *cfg.Cfg) (*database.DB, error) {
	driver := database.Driver(appCfg.DBDriver)
	if driver == database.DriverPostgres {
		return database.NewConnection(driver, database.PostgresDSN(
			appCfg.DBHost, appCfg.DBPort, appCfg.DBUser, appCfg.DBPassword, appCfg.DBName))
	}

	if dir := filepath.Dir(appCfg.SQLitePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return database.NewConnection(driver, database.SQLiteDSN(appCfg.SQLitePath))
}
