// Package controller implements the purchase page: it validates and submits a
// purchase, presents the wallet connection controls and derives the values the
// page displays from the latest chain snapshot.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/types"
	"golang.org/x/text/unicode/norm"
)

// User-visible notice texts
const (
	MsgConnectWallet     = "Please connect your wallet first!"
	MsgEmptyMessage      = "Please add a message!"
	MsgContractNotLoaded = "Contract not loaded. Please try again."
	MsgConnecting        = "Wallet connection in progress."
	MsgPurchaseSucceeded = "Coffee purchased! ☕ Thank you for your support!"
	MsgPurchaseFailed    = "Error buying coffee. Please try again."
)

// Notifier receives user-visible notices
type Notifier func(types.Notice)

// SnapshotSource supplies the latest chain values. *chains.PollingOracle satisfies it.
type SnapshotSource interface {
	Snapshot() types.ChainSnapshot
	Refresh(ctx context.Context) error
}

// Options configures a Controller
type Options struct {
	Logger    *slog.Logger
	Notifier  Notifier
	Snapshots SnapshotSource
}

// State is the controller-owned page state. It only changes through the
// Controller's transition methods.
type State struct {
	Draft      types.PurchaseDraft
	Submission types.SubmissionState
	ModalOpen  bool
	LastTxHash string
}

// Controller is the page controller for one chain adapter
type Controller struct {
	adapter   chains.ChainAdapter
	snapshots SnapshotSource
	notify    Notifier
	logger    *slog.Logger
	currency  string
	decimals  int

	mu      sync.Mutex
	state   State
	binding *types.ContractBinding
}

// New creates a controller bound to the adapter's network
func New(adapter chains.ChainAdapter, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		adapter:   adapter,
		snapshots: opts.Snapshots,
		notify:    opts.Notifier,
		logger:    logger,
		state: State{
			Draft: types.PurchaseDraft{Quantity: constants.DefaultQuantity},
		},
	}
	c.currency, c.decimals = constants.NativeCurrency(adapter.Network())
	if c.notify == nil {
		c.notify = c.logNotice
	}
	return c
}

func (c *Controller) logNotice(n types.Notice) {
	if n.IsError() {
		c.logger.Warn(n.Message, "kind", n.Kind)
		return
	}
	c.logger.Info(n.Message, "kind", n.Kind)
}

// State returns a copy of the current page state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Currency returns the display symbol and decimals of the adapter's native asset
func (c *Controller) Currency() (string, int) {
	return c.currency, c.decimals
}

// settle moves a finished submission back to Idle. Called by every user action
// other than submit.
func (c *Controller) settle() {
	if c.state.Submission == types.SubmissionSucceeded || c.state.Submission == types.SubmissionFailed {
		c.state.Submission = types.SubmissionIdle
	}
}

// SetMessage replaces the draft message, NFC-normalized and truncated to
// constants.MaxMessageLength runes
func (c *Controller) SetMessage(message string) {
	message = norm.NFC.String(message)
	if utf8.RuneCountInString(message) > constants.MaxMessageLength {
		runes := []rune(message)
		message = string(runes[:constants.MaxMessageLength])
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	c.state.Draft.Message = message
}

// SelectQuantity sets the draft quantity. Only the offered quantities are accepted.
func (c *Controller) SelectQuantity(n int) error {
	if !isAllowedQuantity(n) {
		return fmt.Errorf("%w: %d (allowed %v)", ErrInvalidQuantity, n, constants.AllowedQuantities)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	c.state.Draft.Quantity = n
	return nil
}

func isAllowedQuantity(n int) bool {
	for _, q := range constants.AllowedQuantities {
		if q == n {
			return true
		}
	}
	return false
}

// OpenConnectModal shows the connector list
func (c *Controller) OpenConnectModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	c.state.ModalOpen = true
}

// CloseConnectModal hides the connector list
func (c *Controller) CloseConnectModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settle()
	c.state.ModalOpen = false
}

// ChooseConnector hands the connector to the wallet session and closes the
// modal. The outcome is observed through the session, not returned here.
// While a connection is already in progress the choice is ignored.
func (c *Controller) ChooseConnector(connectorID string) {
	wallet := c.adapter.Wallet()
	if wallet.Session().Status == types.StatusConnecting {
		c.notify(types.Notice{Kind: types.NoticeConnecting, Message: MsgConnecting})
		return
	}

	c.mu.Lock()
	c.settle()
	c.state.ModalOpen = false
	c.mu.Unlock()

	c.logger.Debug("connecting wallet", "network", c.adapter.Network(), "connector", connectorID)
	wallet.Connect(connectorID)
}

// Disconnect ends the wallet session
func (c *Controller) Disconnect() {
	c.mu.Lock()
	c.settle()
	c.mu.Unlock()

	c.adapter.Wallet().Disconnect()
}

// resolveBinding returns the cached binding, resolving it on first success.
// Must be called with mu held.
func (c *Controller) resolveBinding() *types.ContractBinding {
	if c.binding != nil {
		return c.binding
	}
	binding, err := c.adapter.Bindings().Resolve(constants.ContractName)
	if err != nil {
		c.logger.Debug("contract binding unresolved", "network", c.adapter.Network(), "error", err)
		return nil
	}
	c.binding = binding
	return binding
}

// SubmitPurchase validates the draft and submits the purchase call. It blocks
// until the submitter reports the outcome. Validation failures emit a notice and
// return a *ValidationError without touching state.
func (c *Controller) SubmitPurchase(ctx context.Context) (*types.SubmitResult, error) {
	session := c.adapter.Wallet().Session()

	c.mu.Lock()
	if c.state.Submission == types.SubmissionPending {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}

	var rejection *types.Notice
	switch {
	case !session.Connected:
		rejection = &types.Notice{Kind: types.NoticeConnectWallet, Message: MsgConnectWallet}
	case !c.state.Draft.HasMessage():
		rejection = &types.Notice{Kind: types.NoticeEmptyMessage, Message: MsgEmptyMessage}
	}
	var binding *types.ContractBinding
	if rejection == nil {
		if binding = c.resolveBinding(); binding == nil {
			rejection = &types.Notice{Kind: types.NoticeContractNotLoaded, Message: MsgContractNotLoaded}
		}
	}
	if rejection != nil {
		c.mu.Unlock()
		c.notify(*rejection)
		return nil, &ValidationError{Notice: *rejection}
	}

	message := c.state.Draft.Message
	quantity := c.state.Draft.Quantity
	payload, err := c.adapter.Encoder().Encode(message)
	if err != nil {
		c.state.Submission = types.SubmissionFailed
		c.mu.Unlock()
		return nil, c.fail("", err)
	}
	call := types.CallDescription{
		FunctionName: constants.FuncBuyCoffee,
		Args:         []any{payload},
	}
	c.state.Submission = types.SubmissionPending
	c.mu.Unlock()

	id := uuid.NewString()
	c.logger.Info("submitting purchase",
		"submission", id,
		"network", c.adapter.Network(),
		"contract", binding.Address,
		"quantity", quantity,
		"from", session.Address)

	result, err := c.submit(ctx, binding, call)

	c.mu.Lock()
	if err != nil {
		c.state.Submission = types.SubmissionFailed
		c.mu.Unlock()
		return nil, c.fail(id, err)
	}
	if result == nil {
		result = &types.SubmitResult{}
	}
	c.state.Submission = types.SubmissionSucceeded
	c.state.LastTxHash = result.TxHash
	// A concurrent edit after submit wins over the reset
	if c.state.Draft.Message == message {
		c.state.Draft.Message = ""
	}
	c.mu.Unlock()

	c.logger.Info("purchase confirmed", "submission", id, "tx", result.TxHash)
	c.notify(types.Notice{Kind: types.NoticePurchaseSucceeded, Message: MsgPurchaseSucceeded})

	if c.snapshots != nil {
		if err := c.snapshots.Refresh(ctx); err != nil {
			c.logger.Debug("snapshot refresh after purchase failed", "error", err)
		}
	}
	return result, nil
}

// submit calls the submitter, converting a panic into an error
func (c *Controller) submit(ctx context.Context, binding *types.ContractBinding, call types.CallDescription) (result *types.SubmitResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSubmitterPanic, r)
		}
	}()
	return c.adapter.Submitter().Submit(ctx, binding, call)
}

func (c *Controller) fail(id string, err error) error {
	c.logger.Error("purchase failed", "submission", id, "network", c.adapter.Network(), "error", err)
	c.notify(types.Notice{Kind: types.NoticePurchaseFailed, Message: MsgPurchaseFailed})
	return &SubmissionError{ID: id, Err: err}
}

// Snapshot returns the latest chain values, or an empty snapshot when no
// source is configured
func (c *Controller) Snapshot() types.ChainSnapshot {
	if c.snapshots == nil {
		return types.ChainSnapshot{}
	}
	return c.snapshots.Snapshot()
}

// DisplayPrice formats unitPrice*quantity in the adapter's display currency
func (c *Controller) DisplayPrice(unitPrice *big.Int, quantity int) string {
	return FormatPrice(unitPrice, quantity, c.decimals)
}

// ViewModel is everything the page renders, derived from state, session and snapshot
type ViewModel struct {
	Network           string
	Session           types.Session
	ShortAddress      string
	Connectors        []types.ConnectorInfo
	ConnectorsEnabled bool
	ModalOpen         bool

	Draft          types.PurchaseDraft
	MessageCounter string
	Quantities     []int

	Currency       string
	TotalPurchases string
	UnitPrice      string
	PriceIsDefault bool
	DisplayPrice   string
	Creator        string
	CreatorShort   string

	Submission    types.SubmissionState
	SubmitEnabled bool
	ButtonLabel   string
	LastTxHash    string
}

// View derives the current view model
func (c *Controller) View() ViewModel {
	wallet := c.adapter.Wallet()
	session := wallet.Session()
	snapshot := c.Snapshot()

	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	vm := ViewModel{
		Network:           c.adapter.Network(),
		Session:           session,
		ShortAddress:      session.ShortAddress(),
		Connectors:        wallet.Connectors(),
		ConnectorsEnabled: session.Status != types.StatusConnecting,
		ModalOpen:         state.ModalOpen,
		Draft:             state.Draft,
		MessageCounter:    fmt.Sprintf("%d/%d", utf8.RuneCountInString(state.Draft.Message), constants.MaxMessageLength),
		Quantities:        append([]int(nil), constants.AllowedQuantities...),
		Currency:          c.currency,
		TotalPurchases:    "0",
		PriceIsDefault:    snapshot.UnitPrice == nil,
		Creator:           snapshot.Creator,
		CreatorShort:      types.ShortenAddress(snapshot.Creator),
		Submission:        state.Submission,
		LastTxHash:        state.LastTxHash,
	}
	if snapshot.TotalPurchases != nil {
		vm.TotalPurchases = snapshot.TotalPurchases.String()
	}
	vm.UnitPrice = c.DisplayPrice(snapshot.UnitPrice, 1)
	vm.DisplayPrice = c.DisplayPrice(snapshot.UnitPrice, state.Draft.Quantity)

	vm.SubmitEnabled = session.Connected && state.Draft.HasMessage() && state.Submission != types.SubmissionPending
	switch {
	case state.Submission == types.SubmissionPending:
		vm.ButtonLabel = "Brewing Coffee..."
	case !session.Connected:
		vm.ButtonLabel = "🔗 Connect Wallet to Buy Coffee"
	default:
		vm.ButtonLabel = buyLabel(state.Draft.Quantity, vm.DisplayPrice, c.currency)
	}
	return vm
}

func buyLabel(quantity int, price, currency string) string {
	noun := "Coffee"
	if quantity > 1 {
		noun = "Coffees"
	}
	return "☕ Buy " + strconv.Itoa(quantity) + " " + noun + " (" + price + " " + currency + ")"
}
