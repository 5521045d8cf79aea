package handlers

import (
	"order-report-services/internal/analytics"
	"order-report-services/internal/config"
	"order-report-services/internal/queue"

	"go.uber.org/zap"
)

type Handler struct {
	Engine *analytics.Engine
	Logger *zap.Logger
	Config config.Config
	Events *queue.Publisher
}
