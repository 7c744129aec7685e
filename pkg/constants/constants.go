package constants

import (
	"math/big"
	"time"
)

const (
	DelayBetweenRPCCalls = 200              // delay in milliseconds between RPC calls
	CallContractTimeout  = 10 * time.Second // timeout for a single contract read
	SubmitTimeout        = 2 * time.Minute  // timeout for signing, broadcast and confirmation
	ConfirmPollInterval  = 1 * time.Second  // interval between confirmation checks
	DefaultPollInterval  = 5 * time.Second  // read oracle refresh interval
	HealthCheckTimeout   = 3 * time.Second  // timeout for endpoint health checks
	ChainListTimeout     = 10 * time.Second // timeout for fetching chainlist.org
	MaxConfirmAttempts   = 60               // confirmation checks before giving up (SVM)
)

// Purchase limits
const (
	MaxMessageLength = 100 // runes, mirrors the message box limit
	DefaultQuantity  = 1
)

// AllowedQuantities is the fixed set of selectable quantities, in display order.
var AllowedQuantities = []int{1, 3, 5}

// DisplayDecimals is the number of fractional digits shown for prices.
const DisplayDecimals = 3

// NativeDecimals is the exponent of the fixed scale factor between the smallest
// currency unit and the display unit (wei -> ETH).
const NativeDecimals = 18

// SVMNativeDecimals is the lamports -> SOL exponent.
const SVMNativeDecimals = 9

// DisplayScale returns 10^NativeDecimals.
func DisplayScale() *big.Int {
	return ScaleFor(NativeDecimals)
}

// ScaleFor returns 10^decimals.
func ScaleFor(decimals int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// DefaultUnitPriceFor returns 0.001 display units for a currency with the given decimals.
func DefaultUnitPriceFor(decimals int) *big.Int {
	if decimals < DisplayDecimals {
		return big.NewInt(1)
	}
	return ScaleFor(decimals - DisplayDecimals)
}

// Contract surface
const (
	ContractName = "Coffee"

	FuncBuyCoffee    = "buy_coffee"
	FuncTotalCoffees = "get_total_coffees"
	FuncCoffeePrice  = "get_coffee_price"
	FuncCreator      = "get_creator"
)

// Network Types
const (
	NetworkEthereum     = "ethereum"
	NetworkSepolia      = "sepolia"
	NetworkBase         = "base"
	NetworkBaseSepolia  = "base-sepolia"
	NetworkPolygon      = "polygon"
	NetworkPolygonAmoy  = "polygon-amoy"
	NetworkLocalhost    = "localhost"
	NetworkSolana       = "solana"
	NetworkSolanaDevnet = "solana-devnet"
	NetworkSolanaLocal  = "solana-localnet"
)

// mapping from network name to numeric chain ID
var NetworkToChainID = map[string]int64{
	NetworkEthereum:    1,
	NetworkSepolia:     11155111,
	NetworkBase:        8453,
	NetworkBaseSepolia: 84532,
	NetworkPolygon:     137,
	NetworkPolygonAmoy: 80002,
	NetworkLocalhost:   31337,
}

var OfficialRPCEndpoints = map[string][]string{
	NetworkSepolia:      {"https://rpc.sepolia.org"},
	NetworkBase:         {"https://mainnet.base.org"},
	NetworkBaseSepolia:  {"https://sepolia.base.org"},
	NetworkLocalhost:    {"http://127.0.0.1:8545"},
	NetworkSolana:       {"https://api.mainnet-beta.solana.com"},
	NetworkSolanaDevnet: {"https://api.devnet.solana.com"},
	NetworkSolanaLocal:  {"http://127.0.0.1:8899"},
}

// NativeCurrency returns the display symbol and decimals of a network's native asset.
func NativeCurrency(network string) (symbol string, decimals int) {
	switch network {
	case NetworkSolana, NetworkSolanaDevnet, NetworkSolanaLocal:
		return "SOL", SVMNativeDecimals
	case NetworkPolygon, NetworkPolygonAmoy:
		return "POL", NativeDecimals
	default:
		return "ETH", NativeDecimals
	}
}

// IsEVMNetwork reports whether the network has a chain ID mapping.
func IsEVMNetwork(network string) bool {
	_, ok := NetworkToChainID[network]
	return ok
}
