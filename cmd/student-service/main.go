// Command student-service runs the reference implementation of the student records service.
//
//	student-service --config=config/local.yaml
//
// or, with settings only from the environment:
//
//	STORAGE_PATH=:memory: HTTP_SERVER_ADDR=localhost:8000 student-service
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studentapi/student-contract-tests/refservice"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:           "student-service",
		Short:         "Run the reference student records service",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = os.Getenv("CONFIG_PATH")
			}
			cfg, err := refservice.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the configuration YAML file (default $CONFIG_PATH)")

	if err := cmd.Execute(); err != nil {
		slog.Error("student-service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serve(cfg *refservice.Config) error {
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	storage, err := refservice.OpenSQLite(cfg.StoragePath)
	if err != nil {
		return err
	}
	defer storage.Close()
	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      refservice.NewService(storage, log, nil).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-done:
	}

	log.Info("shutdown signal received, stopping server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
