package svm

import (
	"fmt"
	"log/slog"

	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
)

// InitSVMChains registers an adapter for every configured SVM cluster in the
// global registry. A cluster with no endpoints falls back to the official ones
// and is skipped if there are none.
func InitSVMChains(logger *slog.Logger, networks map[string]AdapterConfig) (*chains.Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := chains.InitGlobalRegistry()

	for network, cfg := range networks {
		if len(cfg.Endpoints) == 0 {
			officialEps, ok := constants.OfficialRPCEndpoints[network]
			if !ok {
				logger.Warn("no endpoints provided for SVM network", "network", network)
				continue
			}
			cfg.Endpoints = officialEps
			logger.Info("using official endpoints for SVM network", "network", network)
		}
		if cfg.Logger == nil {
			cfg.Logger = logger
		}

		adapter, err := NewSVMAdapter(network, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create SVM adapter for %s: %w", network, err)
		}

		if err := registry.Register(adapter); err != nil {
			return nil, fmt.Errorf("failed to register SVM adapter for %s: %w", network, err)
		}
	}

	return registry, nil
}
