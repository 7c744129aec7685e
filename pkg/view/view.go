// Package view renders the purchase page as plain text for a terminal.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/controller"
	"github.com/sigweihq/coffeepay/pkg/types"
	qrcode "github.com/skip2/go-qrcode"
)

const rule = "────────────────────────────────────────────"

// Options tunes what Render prints
type Options struct {
	// ShowQR draws the creator address as a QR code
	ShowQR bool
}

// Render writes the whole page for vm
func Render(w io.Writer, vm controller.ViewModel, opts Options) error {
	b := &strings.Builder{}

	fmt.Fprintf(b, "☕ Buy Me a Coffee  [%s]\n", vm.Network)
	b.WriteString(walletLine(vm))
	b.WriteString(rule + "\n")

	b.WriteString("Support my work by buying me a virtual coffee! ☕✨\n\n")
	fmt.Fprintf(b, "  ☕ %s Coffees Bought     💝 %s %s per Coffee\n", vm.TotalPurchases, vm.UnitPrice, vm.Currency)

	if vm.Creator != "" {
		fmt.Fprintf(b, "\nSupporting\n  %s\n", vm.Creator)
		if opts.ShowQR {
			qr, err := QR(PaymentURI(vm.Network, vm.Creator))
			if err != nil {
				return err
			}
			b.WriteString(qr)
		}
	}

	b.WriteString(rule + "\n")
	b.WriteString("Number of Coffees\n  ")
	for i, q := range vm.Quantities {
		if i > 0 {
			b.WriteString(" ")
		}
		if q == vm.Draft.Quantity {
			fmt.Fprintf(b, "[x%d]", q)
		} else {
			fmt.Fprintf(b, " x%d ", q)
		}
	}
	b.WriteString("\n\nLeave a Message ✨\n")
	if vm.Draft.Message == "" {
		b.WriteString("  (Say something nice! 😊)\n")
	} else {
		fmt.Fprintf(b, "  %s\n", vm.Draft.Message)
	}
	fmt.Fprintf(b, "%44s\n\n", vm.MessageCounter)

	b.WriteString(button(vm) + "\n")
	if vm.LastTxHash != "" && vm.Submission == types.SubmissionSucceeded {
		fmt.Fprintf(b, "  last purchase: %s\n", vm.LastTxHash)
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "☕ Coffee Wall of Fame ☕\n  %s amazing supporters have bought coffee so far!\n", vm.TotalPurchases)

	_, err := io.WriteString(w, b.String())
	return err
}

func walletLine(vm controller.ViewModel) string {
	switch vm.Session.Status {
	case types.StatusConnected:
		return fmt.Sprintf("  ● Connected %s\n", vm.ShortAddress)
	case types.StatusConnecting:
		return "  ○ Connecting...\n"
	default:
		return "  ○ Not connected (type 'connect')\n"
	}
}

func button(vm controller.ViewModel) string {
	if vm.SubmitEnabled {
		return "  [ " + vm.ButtonLabel + " ]"
	}
	return "  ( " + vm.ButtonLabel + " )"
}

// RenderConnectModal lists the wallet connectors
func RenderConnectModal(w io.Writer, vm controller.ViewModel) error {
	b := &strings.Builder{}
	b.WriteString("Connect Wallet\n")
	if !vm.ConnectorsEnabled {
		b.WriteString("  (connection in progress)\n")
	}
	for _, c := range vm.Connectors {
		fmt.Fprintf(b, "  %-12s %s\n", c.ID, c.Name)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderNotice writes a single notice line
func RenderNotice(w io.Writer, n types.Notice) error {
	prefix := "✔"
	if n.IsError() {
		prefix = "✖"
	}
	_, err := fmt.Fprintf(w, "%s %s\n", prefix, n.Message)
	return err
}

// PaymentURI returns the wallet URI for an address on the network's chain family
func PaymentURI(network, address string) string {
	if constants.IsEVMNetwork(network) {
		return "ethereum:" + address
	}
	return "solana:" + address
}

// QR renders text as a QR code made of block characters, two columns per module
func QR(text string) (string, error) {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("view: qr encode failed: %w", err)
	}
	bitmap := qr.Bitmap()

	b := strings.Builder{}
	for _, row := range bitmap {
		for _, dark := range row {
			if dark {
				b.WriteString("██")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteRune('\n')
	}
	return b.String(), nil
}
