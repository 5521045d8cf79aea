package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-report-services/internal/analytics"
	"order-report-services/internal/config"
	httpapi "order-report-services/internal/http"
	"order-report-services/internal/logger"
	"order-report-services/internal/queue"
	"order-report-services/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	rules, err := cfg.ReportRules()
	if err != nil {
		log.Fatal("invalid report rules", zap.Error(err))
	}

	registry, err := store.NewRegistryFromConfig(cfg, log)
	if err != nil {
		log.Fatal("order source setup failed", zap.Error(err))
	}
	defer registry.Close(context.Background())

	ctx := context.Background()
	connectCtx, cancelConnect := context.WithTimeout(ctx, cfg.SourceQueryTimeout)
	if err := registry.ConnectAll(connectCtx); err != nil {
		if cfg.Env == "production" {
			log.Fatal("branch connection failed", zap.Error(err))
		}
		log.Warn("branch connection failed; retrying on first request", zap.Error(err))
	}
	cancelConnect()
	log.Info("order source ready",
		zap.String("dataSource", cfg.DataSource),
		zap.Strings("branches", registry.Branches()),
		zap.String("defaultBranch", cfg.DefaultBranch),
	)

	var events *queue.Publisher
	if cfg.RabbitMQURL != "" {
		qc, err := connectEvents(cfg)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq setup failed", zap.Error(err))
			}
			log.Warn("rabbitmq setup failed; continuing without report events", zap.Error(err))
		} else {
			defer qc.Close()
			events = queue.NewPublisher(qc, cfg.ReportEventsExchange, log)
			log.Info("report events enabled", zap.String("exchange", cfg.ReportEventsExchange))
		}
	} else {
		log.Info("report events disabled (RABBITMQ_URL is empty)")
	}

	engine := analytics.NewEngine(rules, registry)
	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(engine, log, cfg, events),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.SourceQueryTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("report api ready", zap.String("base", "/api/reports"))
		log.Info("report service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}

func connectEvents(cfg config.Config) (*queue.Client, error) {
	qc, err := queue.New(cfg.RabbitMQURL)
	if err != nil {
		return nil, err
	}
	if err := qc.EnsureExchange(cfg.ReportEventsExchange); err != nil {
		_ = qc.Close()
		return nil, err
	}
	return qc, nil
}
