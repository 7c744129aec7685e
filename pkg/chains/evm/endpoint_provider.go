package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/sigweihq/coffeepay/pkg/constants"
)

// ChainListURL is the public registry of EVM RPC endpoints
const ChainListURL = "https://chainlist.org/rpcs.json"

// ChainListResponse represents a chain entry from chainlist.org/rpcs.json
type ChainListResponse struct {
	ChainID int `json:"chainId"`
	RPC     []struct {
		URL string `json:"url"`
	} `json:"rpc"`
}

// EndpointProvider orders RPC endpoints for a network: configured endpoints
// first, then official ones, then (optionally) chainlist.org, with healthy
// endpoints ahead of unhealthy ones
type EndpointProvider struct {
	url        string
	httpClient *http.Client
	healthy    func(endpoint string) bool
	logger     *slog.Logger

	mu        sync.RWMutex
	chainlist map[int64][]string // chainID -> []rpc_urls
}

// NewEndpointProvider creates a provider backed by chainlist.org
func NewEndpointProvider(logger *slog.Logger) *EndpointProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &EndpointProvider{
		url:        ChainListURL,
		httpClient: &http.Client{Timeout: constants.ChainListTimeout},
		healthy:    (&RPCClient{}).IsHealthy,
		logger:     logger,
		chainlist:  make(map[int64][]string),
	}
}

// Discover fetches chainlist.org once and caches HTTPS endpoints per chain
func (p *EndpointProvider) Discover(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build chainlist request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch chainlist data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chainlist.org returned status %d", resp.StatusCode)
	}

	var entries []ChainListResponse
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode chainlist data: %w", err)
	}

	discovered := make(map[int64][]string)
	for _, chain := range entries {
		for _, rpc := range chain.RPC {
			// Only include HTTPS URLs and exclude templated URLs
			if strings.HasPrefix(rpc.URL, "https://") && !strings.Contains(rpc.URL, "${") {
				discovered[int64(chain.ChainID)] = append(discovered[int64(chain.ChainID)], rpc.URL)
			}
		}
	}

	p.mu.Lock()
	p.chainlist = discovered
	p.mu.Unlock()
	return nil
}

// Endpoints returns the deduplicated candidate list for network, healthy first
func (p *EndpointProvider) Endpoints(network string, configured []string) []string {
	candidates := append([]string(nil), configured...)
	candidates = append(candidates, constants.OfficialRPCEndpoints[network]...)
	if chainID, ok := constants.NetworkToChainID[network]; ok {
		p.mu.RLock()
		candidates = append(candidates, p.chainlist[chainID]...)
		p.mu.RUnlock()
	}

	seen := make(map[string]bool, len(candidates))
	var healthyEndpoints, unhealthyEndpoints []string
	for _, endpoint := range candidates {
		if seen[endpoint] {
			continue
		}
		seen[endpoint] = true
		if p.healthy(endpoint) {
			healthyEndpoints = append(healthyEndpoints, endpoint)
		} else {
			unhealthyEndpoints = append(unhealthyEndpoints, endpoint)
		}
	}

	p.logger.Debug("health check complete",
		"network", network,
		"healthy", len(healthyEndpoints),
		"unhealthy", len(unhealthyEndpoints))

	// Prioritize healthy endpoints first, then unhealthy as backup
	return append(healthyEndpoints, unhealthyEndpoints...)
}
