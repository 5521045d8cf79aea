package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	"order-report-services/internal/analytics"
	"order-report-services/internal/config"
	"order-report-services/internal/logger"
	"order-report-services/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	root := newRootCommand(openEngine)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openEngine wires the engine to the configured branch stores. The returned
// func releases the connections.
func openEngine(ctx context.Context) (*analytics.Engine, config.Config, func(), error) {
	cfg := config.Load()
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, cfg, nil, err
	}
	rules, err := cfg.ReportRules()
	if err != nil {
		return nil, cfg, nil, err
	}
	registry, err := store.NewRegistryFromConfig(cfg, log)
	if err != nil {
		return nil, cfg, nil, err
	}
	closeFn := func() {
		if err := registry.Close(context.Background()); err != nil {
			log.Warn("close branch connections", zap.Error(err))
		}
		_ = log.Sync()
	}
	return analytics.NewEngine(rules, registry), cfg, closeFn, nil
}
