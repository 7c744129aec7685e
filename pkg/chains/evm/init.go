package evm

import (
	"context"
	"log/slog"

	"github.com/sigweihq/coffeepay/pkg/chains"
)

// InitEVMChains registers an adapter for every configured EVM network in the
// global registry. With discover set, endpoints from chainlist.org are appended
// to the configured and official ones and health-ordered before use.
// Networks that fail to initialize are logged and skipped.
func InitEVMChains(ctx context.Context, logger *slog.Logger, networks map[string]AdapterConfig, discover bool) *chains.Registry {
	if logger == nil {
		logger = slog.Default()
	}
	registry := chains.InitGlobalRegistry()

	var provider *EndpointProvider
	if discover {
		provider = NewEndpointProvider(logger)
		if err := provider.Discover(ctx); err != nil {
			logger.Warn("endpoint discovery failed, using configured and official endpoints only", "error", err)
		}
	}

	for network, cfg := range networks {
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		if provider != nil {
			cfg.Endpoints = provider.Endpoints(network, cfg.Endpoints)
		}

		adapter, err := NewEVMAdapter(network, cfg)
		if err != nil {
			logger.Warn("failed to create EVM adapter", "network", network, "error", err)
			continue
		}

		if err := registry.Register(adapter); err != nil {
			logger.Warn("failed to register EVM adapter", "network", network, "error", err)
		}
	}

	return registry
}
