package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
	"github.com/sigweihq/coffeepay/pkg/view"
)

const pageUsage = `commands:
  show               redraw the page
  connect [id]       list connectors, or connect with one
  disconnect         end the wallet session
  qty <1|3|5>        number of coffees
  msg <text>         set the message
  buy                submit the purchase
  refresh            re-read the contract
  quit               exit
`

var pageSuggestions = []prompt.Suggest{
	{Text: "show", Description: "redraw the page"},
	{Text: "connect", Description: "connect a wallet"},
	{Text: "disconnect", Description: "end the wallet session"},
	{Text: "qty", Description: "number of coffees"},
	{Text: "msg", Description: "set the message"},
	{Text: "buy", Description: "submit the purchase"},
	{Text: "refresh", Description: "re-read the contract"},
	{Text: "help", Description: "list commands"},
	{Text: "quit", Description: "exit"},
}

// loop reads commands from an interactive prompt, or line by line when stdin
// is not a terminal
func (p *page) loop(ctx context.Context, cancel context.CancelFunc) error {
	exec := func(line string) {
		if !p.exec(ctx, line) {
			cancel()
			os.Exit(0)
		}
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(exec, p.complete, prompt.OptionPrefix("coffee> "), prompt.OptionTitle("coffee")).Run()
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if !p.exec(ctx, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

func (p *page) complete(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		if strings.HasPrefix(d.TextBeforeCursor(), "connect ") {
			var out []prompt.Suggest
			for _, c := range p.adapter.Wallet().Connectors() {
				out = append(out, prompt.Suggest{Text: c.ID, Description: c.Name})
			}
			return prompt.FilterHasPrefix(out, d.GetWordBeforeCursor(), true)
		}
		return nil
	}
	return prompt.FilterHasPrefix(pageSuggestions, d.GetWordBeforeCursor(), true)
}

// exec runs one command line and reports whether the loop should continue
func (p *page) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "", "show":
		p.render()
	case "help", "?":
		fmt.Fprint(p.out, pageUsage)
	case "connect":
		if arg == "" {
			p.ctrl.OpenConnectModal()
			if err := view.RenderConnectModal(p.out, p.ctrl.View()); err != nil {
				p.logger.Error("render failed", "error", err)
			}
			return true
		}
		p.connect(arg)
		p.render()
	case "cancel":
		p.ctrl.CloseConnectModal()
	case "disconnect":
		p.ctrl.Disconnect()
		p.render()
	case "qty", "quantity":
		n, err := strconv.Atoi(arg)
		if err == nil {
			err = p.ctrl.SelectQuantity(n)
		}
		if err != nil {
			fmt.Fprintf(p.out, "quantity must be one of 1, 3, 5\n")
			return true
		}
		p.render()
	case "msg", "message":
		p.ctrl.SetMessage(arg)
		p.render()
	case "buy":
		if _, err := p.ctrl.SubmitPurchase(ctx); err != nil {
			p.logger.Debug("purchase not completed", "error", err)
		}
		p.render()
	case "refresh":
		if err := p.poller.Refresh(ctx); err != nil {
			p.logger.Warn("refresh incomplete", "error", err)
		}
		p.render()
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(p.out, "unknown command %q, type 'help'\n", cmd)
	}
	return true
}
