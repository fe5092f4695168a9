package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/0xGeorgii/interstellar/internal/handler/health"
	"github.com/0xGeorgii/interstellar/internal/handler/metrics"
	"github.com/0xGeorgii/interstellar/internal/handler/order"
	"github.com/0xGeorgii/interstellar/internal/handler/secret"
	"github.com/0xGeorgii/interstellar/internal/relayer"
	"github.com/0xGeorgii/interstellar/internal/resolver"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

type Handler struct {
	OrderHandler   order.IHandler
	SecretHandler  secret.IHandler
	HealthHandler  health.IHealthHandler
	MetricsHandler *metrics.MetricsHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	relayerSvc relayer.IRelayer,
	db *gorm.DB,
	metricsRegistry *prometheus.Registry,
	adapters ...resolver.IEscrowAdapter) *Handler {
	return &Handler{
		OrderHandler:   order.New(relayerSvc, logger, appConfig),
		SecretHandler:  secret.New(relayerSvc, logger, appConfig),
		HealthHandler:  health.New(appConfig, logger, db, adapters...),
		MetricsHandler: metrics.NewMetricsHandler(metricsRegistry),
	}
}
