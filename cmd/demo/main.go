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
	"reviewpulse/internal/dataset"
	"reviewpulse/internal/demo"
	"reviewpulse/internal/engine"
	"reviewpulse/internal/logging"
)

const DEFAULT_MODEL_ID = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := demo.NewServer(clients.GetSheetLogClient())

	// Dataset load and engine init are independent; both must complete
	// before the analyze action opens.
	go func() {
		path := config.GetEnv("DATASET_PATH", "data/reviews.csv")
		reviews, err := dataset.Load(path)
		if err != nil {
			slog.Error("[Main] Dataset load failed", slog.String("error", err.Error()))
			server.FailStartup(err)
			return
		}
		server.SetDataset(reviews)
	}()

	go func() {
		switch config.GetEnv("ENGINE", "hugot") {
		case "vader":
			server.SetEngine(engine.NewVaderEngine())
			slog.Info("[Main] Using VADER fallback engine")
		default:
			hugotEngine := engine.NewHugotEngine(
				config.GetEnv("MODEL_ID", DEFAULT_MODEL_ID),
				config.GetEnv("MODEL_DIR", "models"))
			if err := hugotEngine.Init(ctx); err != nil {
				slog.Error("[Main] Engine init failed", slog.String("error", err.Error()))
				server.FailStartup(err)
				return
			}
			server.SetEngine(hugotEngine)
		}
	}()

	addr := ":" + config.GetEnv("PORT", "8090")
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	go func() {
		slog.Info("[Main] Demo service listening", slog.String("addr", addr))
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
	server.CloseEngine()
}
