package chains

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/types"
)

// PollingOracle keeps the latest ChainSnapshot for one binding by polling the
// three named reads on a fixed interval. Failed reads keep the last known value,
// so the snapshot is eventually consistent and possibly stale.
type PollingOracle struct {
	oracle   ReadOracle
	binding  *types.ContractBinding
	interval time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	snapshot types.ChainSnapshot
	onUpdate []func(types.ChainSnapshot)
}

// NewPollingOracle creates a poller; interval <= 0 uses constants.DefaultPollInterval
func NewPollingOracle(oracle ReadOracle, binding *types.ContractBinding, interval time.Duration, logger *slog.Logger) *PollingOracle {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}
	return &PollingOracle{
		oracle:   oracle,
		binding:  binding,
		interval: interval,
		logger:   logger,
	}
}

// OnUpdate registers a callback invoked after every refresh
func (p *PollingOracle) OnUpdate(fn func(types.ChainSnapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = append(p.onUpdate, fn)
}

// Snapshot returns a copy of the latest values
func (p *PollingOracle) Snapshot() types.ChainSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot.Copy()
}

// Refresh performs the three reads once. Individual failures are logged and
// joined into the returned error; successful reads are applied regardless.
func (p *PollingOracle) Refresh(ctx context.Context) error {
	if p.binding == nil {
		return ErrBindingUnresolved
	}

	var errs []error

	total, err := p.readBig(ctx, constants.FuncTotalCoffees)
	if err != nil {
		errs = append(errs, err)
	}
	price, err := p.readBig(ctx, constants.FuncCoffeePrice)
	if err != nil {
		errs = append(errs, err)
	}
	creator, err := p.readAddress(ctx, constants.FuncCreator)
	if err != nil {
		errs = append(errs, err)
	}

	p.mu.Lock()
	if total != nil {
		p.snapshot.TotalPurchases = total
	}
	if price != nil {
		p.snapshot.UnitPrice = price
	}
	if creator != "" {
		p.snapshot.Creator = creator
	}
	snap := p.snapshot.Copy()
	callbacks := append([]func(types.ChainSnapshot){}, p.onUpdate...)
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(snap)
	}

	return errors.Join(errs...)
}

// Run refreshes immediately and then on every tick until ctx is done
func (p *PollingOracle) Run(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("initial snapshot refresh incomplete", "error", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.logger.Debug("snapshot refresh incomplete", "error", err)
			}
		}
	}
}

func (p *PollingOracle) read(ctx context.Context, fn string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.CallContractTimeout)
	defer cancel()

	v, err := p.oracle.Read(ctx, p.binding, fn)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	if v == nil {
		return nil, fmt.Errorf("read %s: %w", fn, ErrUnresolved)
	}
	return v, nil
}

func (p *PollingOracle) readBig(ctx context.Context, fn string) (*big.Int, error) {
	v, err := p.read(ctx, fn)
	if err != nil {
		return nil, err
	}
	n, err := ToBigInt(v)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return n, nil
}

func (p *PollingOracle) readAddress(ctx context.Context, fn string) (string, error) {
	v, err := p.read(ctx, fn)
	if err != nil {
		return "", err
	}
	switch a := v.(type) {
	case string:
		return a, nil
	case fmt.Stringer:
		return a.String(), nil
	default:
		return "", fmt.Errorf("read %s: unexpected address type %T", fn, v)
	}
}

// ToBigInt normalizes the integer types returned by chain oracles
func ToBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, ErrUnresolved
		}
		return new(big.Int).Set(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case int:
		return big.NewInt(int64(n)), nil
	default:
		return nil, fmt.Errorf("unexpected integer type %T", v)
	}
}
