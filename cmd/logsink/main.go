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

	"reviewpulse/config"
	"reviewpulse/internal/clients"
	"reviewpulse/internal/logging"
	"reviewpulse/internal/sink"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := sink.NewDynamoStore(
		clients.GetDynamoDBClient(),
		config.GetEnv("LOG_TABLE_NAME", "ReviewLog"))

	if err := store.EnsureTable(ctx); err != nil {
		slog.Error("[Main] Failed to provision log table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var dedupe sink.Deduper
	if addr := os.Getenv("VALKEY_INIT_ADDRESS"); addr != "" {
		d, err := sink.NewValkeyDeduper(addr, os.Getenv("VALKEY_PASSWORD"))
		if err != nil {
			slog.Warn("[Main] Dedupe disabled", slog.String("error", err.Error()))
		} else {
			defer d.Close()
			dedupe = d
		}
	}

	var mirror sink.Mirror
	if topic := os.Getenv("LOG_KAFKA_TOPIC"); topic != "" {
		m, err := sink.NewKafkaMirror(config.GetEnv("KAFKA_BROKER", "localhost:29092"), topic)
		if err != nil {
			slog.Warn("[Main] Mirror disabled", slog.String("error", err.Error()))
		} else {
			defer m.Close()
			mirror = m
		}
	}

	addr := ":" + config.GetEnv("PORT", "8091")
	httpServer := &http.Server{
		Addr:    addr,
		Handler: sink.NewRouter(sink.NewHandler(store, dedupe, mirror)),
	}

	go func() {
		slog.Info("[Main] Log sink listening", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Shutdown error", slog.String("error", err.Error()))
	}
}
