package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/chains/evm"
	"github.com/sigweihq/coffeepay/pkg/chains/svm"
	"github.com/sigweihq/coffeepay/pkg/config"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/controller"
	"github.com/sigweihq/coffeepay/pkg/types"
	"github.com/sigweihq/coffeepay/pkg/view"
	cli "gopkg.in/urfave/cli.v1"
)

// loadConfig reads the configuration file, applies flag and environment
// overrides and validates the result. A missing file is only an error when
// --config was given explicitly.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	path := ctx.GlobalString(configFlag.Name)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) || ctx.GlobalIsSet(configFlag.Name) {
			return cfg, err
		}
		cfg = config.DefaultConfig()
	}

	if ctx.GlobalIsSet(networkFlag.Name) {
		cfg.Network = ctx.GlobalString(networkFlag.Name)
	}
	if ctx.GlobalIsSet(rpcFlag.Name) {
		cfg.Endpoints = ctx.GlobalStringSlice(rpcFlag.Name)
	}
	if ctx.GlobalIsSet(discoverFlag.Name) {
		cfg.DiscoverEndpoints = ctx.GlobalBool(discoverFlag.Name)
	}
	if ctx.GlobalIsSet(contractFlag.Name) {
		cfg.ContractAddress = ctx.GlobalString(contractFlag.Name)
	}
	if ctx.GlobalIsSet(deploymentsFlag.Name) {
		cfg.DeploymentsFile = ctx.GlobalString(deploymentsFlag.Name)
	}
	if ctx.GlobalIsSet(programFlag.Name) {
		cfg.ProgramID = ctx.GlobalString(programFlag.Name)
	}
	if ctx.GlobalIsSet(stateFlag.Name) {
		cfg.StateAccount = ctx.GlobalString(stateFlag.Name)
	}
	if ctx.GlobalIsSet(connectorFlag.Name) {
		cfg.Wallet.Connector = ctx.GlobalString(connectorFlag.Name)
	}
	if ctx.GlobalIsSet(keystoreFlag.Name) {
		cfg.Wallet.KeystorePath = ctx.GlobalString(keystoreFlag.Name)
	}
	if ctx.GlobalIsSet(keypairFlag.Name) {
		cfg.Wallet.KeypairPath = ctx.GlobalString(keypairFlag.Name)
	}
	if ctx.GlobalIsSet(pollFlag.Name) {
		cfg.PollInterval = ctx.GlobalDuration(pollFlag.Name)
	}
	if ctx.GlobalIsSet(logLevelFlag.Name) {
		cfg.LogLevel = ctx.GlobalString(logLevelFlag.Name)
	}
	if ctx.GlobalIsSet(logFormatFlag.Name) {
		cfg.LogFormat = ctx.GlobalString(logFormatFlag.Name)
	}
	cfg.ApplyEnv()

	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger writes to stderr: text on a terminal, JSON otherwise, unless the
// format is forced
func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	format := strings.ToLower(cfg.LogFormat)
	json := format == "json"
	if format == "auto" || format == "" {
		f, ok := w.(*os.File)
		json = !ok || !isatty.IsTerminal(f.Fd())
	}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newAdapter registers the configured network in the global registry and
// returns its adapter
func newAdapter(ctx context.Context, cfg config.Config, logger *slog.Logger) (chains.ChainAdapter, error) {
	var (
		registry *chains.Registry
		err      error
	)
	if cfg.IsEVM() {
		registry = evm.InitEVMChains(ctx, logger, map[string]evm.AdapterConfig{
			cfg.Network: {
				Endpoints:       cfg.Endpoints,
				DeploymentsFile: cfg.DeploymentsFile,
				ContractAddress: cfg.ContractAddress,
				Wallet: evm.WalletConfig{
					PrivateKey:       cfg.Wallet.PrivateKey,
					KeystorePath:     cfg.Wallet.KeystorePath,
					KeystorePassword: cfg.Wallet.KeystorePassword,
				},
			},
		}, cfg.DiscoverEndpoints)
	} else {
		registry, err = svm.InitSVMChains(logger, map[string]svm.AdapterConfig{
			cfg.Network: {
				Endpoints:    cfg.Endpoints,
				ProgramID:    cfg.ProgramID,
				StateAccount: cfg.StateAccount,
				Wallet: svm.WalletConfig{
					KeypairPath: cfg.Wallet.KeypairPath,
					PrivateKey:  cfg.Wallet.PrivateKey,
				},
			},
		})
		if err != nil {
			return nil, err
		}
	}

	adapter, err := registry.Get(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("network %s is not available: %w", cfg.Network, err)
	}
	return adapter, nil
}

// page bundles everything one invocation needs
type page struct {
	cfg     config.Config
	logger  *slog.Logger
	adapter chains.ChainAdapter
	poller  *chains.PollingOracle
	ctrl    *controller.Controller
	out     io.Writer
	qr      bool
}

func newPage(ctx context.Context, c *cli.Context) (*page, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, os.Stderr)

	adapter, err := newAdapter(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	binding, err := adapter.Bindings().Resolve(constants.ContractName)
	if err != nil {
		logger.Warn("contract not configured, chain values will stay at defaults", "network", cfg.Network, "error", err)
	}

	p := &page{
		cfg:     cfg,
		logger:  logger,
		adapter: adapter,
		poller:  chains.NewPollingOracle(adapter.Oracle(), binding, cfg.PollInterval, logger),
		out:     os.Stdout,
		qr:      c.GlobalBool(qrFlag.Name),
	}
	p.ctrl = controller.New(adapter, controller.Options{
		Logger:    logger,
		Snapshots: p.poller,
		Notifier:  p.notice,
	})
	return p, nil
}

func (p *page) notice(n types.Notice) {
	if err := view.RenderNotice(p.out, n); err != nil {
		p.logger.Debug("notice write failed", "error", err)
	}
}

func (p *page) render() {
	if err := view.Render(p.out, p.ctrl.View(), view.Options{ShowQR: p.qr}); err != nil {
		p.logger.Error("render failed", "error", err)
	}
}

// waitable wallets expose Wait to block until a pending connect resolves
type waitable interface {
	Wait()
}

// connect chooses a connector and waits for the session to settle
func (p *page) connect(connectorID string) {
	p.ctrl.ChooseConnector(connectorID)
	if w, ok := p.adapter.Wallet().(waitable); ok {
		w.Wait()
	}
	session := p.adapter.Wallet().Session()
	if !session.Connected {
		p.logger.Warn("wallet not connected", "connector", connectorID)
		return
	}
	p.logger.Info("wallet connected", "address", session.Address)
}

// defaultConnector is the configured connector or the adapter's first one
func (p *page) defaultConnector() string {
	if p.cfg.Wallet.Connector != "" {
		return p.cfg.Wallet.Connector
	}
	connectors := p.adapter.Wallet().Connectors()
	if len(connectors) == 0 {
		return ""
	}
	return connectors[0].ID
}
