package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sigweihq/coffeepay/pkg/config"
	"github.com/sigweihq/coffeepay/pkg/encoding"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func pageCmd(c *cli.Context) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := newPage(ctx, c)
	if err != nil {
		return err
	}

	go p.poller.Run(ctx)
	if p.cfg.Wallet.Connector != "" {
		p.connect(p.cfg.Wallet.Connector)
	}
	p.render()
	return p.loop(ctx, cancel)
}

func infoCmd(c *cli.Context) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := newPage(ctx, c)
	if err != nil {
		return err
	}
	if err := p.poller.Refresh(ctx); err != nil {
		p.logger.Warn("some contract values could not be read", "error", err)
	}

	vm := p.ctrl.View()
	fmt.Fprintf(p.out, "network:         %s\n", vm.Network)
	fmt.Fprintf(p.out, "coffees bought:  %s\n", vm.TotalPurchases)
	price := vm.UnitPrice + " " + vm.Currency
	if vm.PriceIsDefault {
		price += " (default)"
	}
	fmt.Fprintf(p.out, "price:           %s\n", price)
	if vm.Creator != "" {
		fmt.Fprintf(p.out, "creator:         %s\n", vm.Creator)
	}
	return nil
}

func buyCmd(c *cli.Context) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, err := newPage(ctx, c)
	if err != nil {
		return err
	}
	if err := p.poller.Refresh(ctx); err != nil {
		p.logger.Debug("snapshot refresh incomplete", "error", err)
	}

	if err := p.ctrl.SelectQuantity(c.Int("quantity")); err != nil {
		return err
	}
	p.ctrl.SetMessage(c.String("message"))
	p.connect(p.defaultConnector())

	vm := p.ctrl.View()
	fmt.Fprintf(p.out, "%s\n", vm.ButtonLabel)

	result, err := p.ctrl.SubmitPurchase(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "tx: %s\n", result.TxHash)
	return nil
}

func encodeCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("encode takes exactly one message argument")
	}
	enc, err := encoding.ForName(c.String(formatFlag.Name))
	if err != nil {
		return err
	}
	words, err := enc.Calldata(c.Args().First())
	if err != nil {
		return err
	}
	for _, w := range words {
		fmt.Println(w)
	}
	return nil
}

func configInitCmd(c *cli.Context) error {
	path := c.GlobalString(configFlag.Name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func configShowCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return yaml.NewEncoder(os.Stdout).Encode(cfg)
}
