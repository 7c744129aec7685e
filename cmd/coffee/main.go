// coffee is a terminal client for a "buy me a coffee" contract.
//
// It connects a local wallet, shows the contract's purchase count, price and
// creator, and submits purchases with an attached message.
//
// Usage:
//
//	coffee [global flags] [page]
//	coffee [global flags] info
//	coffee [global flags] buy --message "Thanks!" --quantity 3
//	coffee encode --format bytearray "Thanks!"
//	coffee config init
package main

import (
	"fmt"
	"os"

	"github.com/sigweihq/coffeepay/pkg/config"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/encoding"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	app = cli.NewApp()

	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Path to the YAML configuration file",
		Value: config.DefaultConfigPath(),
	}
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "Network name (e.g. localhost, base-sepolia, solana-devnet)",
	}
	rpcFlag = cli.StringSliceFlag{
		Name:  "rpc",
		Usage: "RPC endpoint, may be repeated; overrides the configured endpoints",
	}
	discoverFlag = cli.BoolFlag{
		Name:  "discover",
		Usage: "Discover extra EVM endpoints from chainlist.org",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "Deployed Coffee contract address (EVM)",
	}
	deploymentsFlag = cli.StringFlag{
		Name:  "deployments",
		Usage: "Deployments JSON file mapping chain IDs to contracts (EVM)",
	}
	programFlag = cli.StringFlag{
		Name:  "program",
		Usage: "Coffee program ID (SVM)",
	}
	stateFlag = cli.StringFlag{
		Name:  "state",
		Usage: "Coffee state account (SVM)",
	}
	connectorFlag = cli.StringFlag{
		Name:  "connector",
		Usage: "Wallet connector to use on startup (privatekey, keystore, keygen)",
	}
	keystoreFlag = cli.StringFlag{
		Name:  "keystore",
		Usage: "Path to an encrypted JSON key file; password from " + config.EnvKeystorePassword,
	}
	keypairFlag = cli.StringFlag{
		Name:  "keypair",
		Usage: "Path to a solana-keygen JSON keypair",
	}
	pollFlag = cli.DurationFlag{
		Name:  "poll",
		Usage: "Interval between contract reads",
	}
	logLevelFlag = cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format: auto, text, json",
	}
	qrFlag = cli.BoolFlag{
		Name:  "qr",
		Usage: "Draw the creator address as a QR code",
	}

	messageFlag = cli.StringFlag{
		Name:  "message, m",
		Usage: "Message stored with the purchase",
	}
	quantityFlag = cli.IntFlag{
		Name:  "quantity, n",
		Usage: "Number of coffees (1, 3 or 5); affects the displayed total only",
		Value: constants.DefaultQuantity,
	}
	formatFlag = cli.StringFlag{
		Name:  "format",
		Usage: fmt.Sprintf("Payload encoding: %s, %s, %s", encoding.FormatByteArray, encoding.FormatABIString, encoding.FormatBorsh),
		Value: encoding.FormatByteArray,
	}
)

func init() {
	app.Name = "coffee"
	app.Usage = "Buy me a coffee, on-chain"
	app.Version = "0.1.0"
	app.Action = pageCmd
	app.Flags = []cli.Flag{
		configFlag,
		networkFlag,
		rpcFlag,
		discoverFlag,
		contractFlag,
		deploymentsFlag,
		programFlag,
		stateFlag,
		connectorFlag,
		keystoreFlag,
		keypairFlag,
		pollFlag,
		logLevelFlag,
		logFormatFlag,
		qrFlag,
	}
	app.Commands = []cli.Command{
		{
			Name:   "page",
			Usage:  "Interactive purchase page (default)",
			Action: pageCmd,
		},
		{
			Name:   "info",
			Usage:  "Print the contract's purchase count, price and creator",
			Action: infoCmd,
		},
		{
			Name:   "buy",
			Usage:  "Connect the configured wallet and buy coffee",
			Action: buyCmd,
			Flags: []cli.Flag{
				messageFlag,
				quantityFlag,
			},
		},
		{
			Name:      "encode",
			Usage:     "Print the calldata words for a message",
			ArgsUsage: "<message>",
			Action:    encodeCmd,
			Flags: []cli.Flag{
				formatFlag,
			},
		},
		{
			Name:  "config",
			Usage: "Manage the configuration file",
			Subcommands: []cli.Command{
				{
					Name:   "init",
					Usage:  "Write a default configuration file",
					Action: configInitCmd,
				},
				{
					Name:   "show",
					Usage:  "Print the effective configuration",
					Action: configShowCmd,
				},
			},
		},
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
