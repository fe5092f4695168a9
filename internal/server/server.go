package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/0xGeorgii/interstellar/internal/evmrpc"
	"github.com/0xGeorgii/interstellar/internal/monitoring"
	"github.com/0xGeorgii/interstellar/internal/relayer"
	"github.com/0xGeorgii/interstellar/internal/resolver"
	"github.com/0xGeorgii/interstellar/internal/stellarrpc"
	"github.com/0xGeorgii/interstellar/internal/store"
	pgstore "github.com/0xGeorgii/interstellar/internal/store/postgres"
	"github.com/0xGeorgii/interstellar/internal/transport/http"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
	"github.com/0xGeorgii/interstellar/internal/utils/vault"
	"github.com/0xGeorgii/interstellar/internal/utils/webhook"
)

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	loadResolverKeys(appConfig, logger)

	db := pgstore.New(appConfig, logger)
	s := store.New()

	metricsRegistry := prometheus.NewRegistry()
	swapMetrics := monitoring.NewSwapMetrics()
	swapMetrics.MustRegister(metricsRegistry)

	evmRPC, err := evmrpc.New(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to init ethereum rpc", map[string]string{
			"error": err.Error(),
		})
		return
	}
	stellarRPC, err := stellarrpc.New(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to init stellar rpc", map[string]string{
			"error": err.Error(),
		})
		return
	}

	evmAdapter := monitoring.NewCircuitBreakerAdapter(evmRPC, monitoring.DefaultCircuitBreakerConfig, swapMetrics, logger)
	stellarAdapter := monitoring.NewCircuitBreakerAdapter(stellarRPC, monitoring.DefaultCircuitBreakerConfig, swapMetrics, logger)

	resolverSvc := resolver.New(db, s, appConfig, logger, swapMetrics, evmAdapter, stellarAdapter)
	relayerSvc := relayer.New(db, s, appConfig, logger, resolverSvc, swapMetrics)

	// recover in-flight orders before accepting traffic
	resolverSvc.Tick()

	webhookClient := webhook.New(logger)

	c := cron.New()
	c.AddFunc(appConfig.Swap.PollInterval, resolverSvc.Tick)
	c.AddFunc("@every 5m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		webhookClient.CallUptimeWebhook(ctx, appConfig.UptimeURL)
	})
	c.Start()
	defer c.Stop()

	httpServer := http.NewHttpServer(appConfig, logger, relayerSvc, db, metricsRegistry, evmAdapter, stellarAdapter)

	if err := httpServer.Run(":" + appConfig.ApiServer.Port); err != nil {
		logger.Fatal("Failed to run http server", map[string]string{
			"error": err.Error(),
		})
	}
}

// loadResolverKeys pulls signing keys from Vault when they are not already
// present in the environment.
func loadResolverKeys(appConfig *config.AppConfig, logger *logger.Logger) {
	if appConfig.Vault.Addr == "" {
		return
	}
	if appConfig.Ethereum.ResolverPrivateKey != "" && appConfig.Stellar.ResolverSecret != "" {
		return
	}

	vc, err := vault.New(appConfig.Vault.Addr, appConfig.Vault.KVSecretPath, appConfig.Vault.Role)
	if err != nil {
		logger.Fatal("Failed to init vault client", map[string]string{
			"error": err.Error(),
		})
		return
	}

	if appConfig.Ethereum.ResolverPrivateKey == "" {
		key, err := vc.GetKV("ETHEREUM_RESOLVER_PRIVATE_KEY")
		if err != nil {
			logger.Fatal("Failed to load ethereum resolver key", map[string]string{
				"error": err.Error(),
			})
			return
		}
		appConfig.Ethereum.ResolverPrivateKey = key
	}

	if appConfig.Stellar.ResolverSecret == "" {
		key, err := vc.GetKV("STELLAR_RESOLVER_SECRET")
		if err != nil {
			logger.Fatal("Failed to load stellar resolver key", map[string]string{
				"error": err.Error(),
			})
			return
		}
		appConfig.Stellar.ResolverSecret = key
	}
}
