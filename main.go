package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/giygas/medicaments-safety/config"
	"github.com/giygas/medicaments-safety/data"
	"github.com/giygas/medicaments-safety/engine"
	"github.com/giygas/medicaments-safety/handlers"
	"github.com/giygas/medicaments-safety/health"
	"github.com/giygas/medicaments-safety/logging"
	"github.com/giygas/medicaments-safety/refstore"
	"github.com/giygas/medicaments-safety/scheduler"
	"github.com/giygas/medicaments-safety/server"
	"github.com/giygas/medicaments-safety/validation"
)

func main() {
	loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	logging.InitLogger(logging.Options{
		Dir:            "logs",
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		ConsoleOnly:    cfg.Env == config.EnvTest,
	})
	defer logging.Close()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"data_source", cfg.DataSource,
		"data_dir", cfg.DataDir,
		"reload_at", cfg.ReloadAt)

	loader, err := refstore.New(cfg.DataSource, cfg.DataDir, cfg.DataLatin1)
	if err != nil {
		logging.Error("Failed to create reference data loader", "error", err)
		os.Exit(1)
	}

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	eng, err := engine.New(dataContainer, cfg.EngineOptions())
	if err != nil {
		logging.Error("Failed to create analysis engine", "error", err)
		os.Exit(1)
	}

	validator := validation.NewDataValidator()

	sched := scheduler.NewScheduler(dataContainer, loader, validator, eng, cfg.ReloadAt)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	healthChecker := health.NewHealthChecker(dataContainer, cfg.ReloadAt)
	handler := handlers.NewHTTPHandler(dataContainer, validator, healthChecker, eng)
	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-quit:
	case err := <-serverErr:
		logging.Error("Server failed to start", "error", err)
		sched.Stop()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
	}
}

// loadDotEnv reads .env from the working directory, falling back to the
// executable's directory so relative data paths keep working under systemd.
func loadDotEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to get executable path:", err)
		return
	}
	exPath := filepath.Dir(ex)
	if err := os.Chdir(exPath); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to change directory:", err)
		return
	}
	_ = godotenv.Load()
}
