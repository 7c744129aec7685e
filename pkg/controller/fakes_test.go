package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/sigweihq/coffeepay/pkg/chains"
	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/encoding"
	"github.com/sigweihq/coffeepay/pkg/types"
)

const testAccount = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeWallet struct {
	mu       sync.Mutex
	session  types.Session
	connects []string
}

func (w *fakeWallet) Connectors() []types.ConnectorInfo {
	return []types.ConnectorInfo{{ID: "privatekey", Name: "Private key"}}
}

func (w *fakeWallet) Connect(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connects = append(w.connects, id)
	w.session = types.Session{Status: types.StatusConnecting}
}

func (w *fakeWallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = types.Session{Status: types.StatusIdle}
}

func (w *fakeWallet) Session() types.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session
}

func (w *fakeWallet) set(s types.Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = s
}

type fakeBindings struct {
	binding *types.ContractBinding
	calls   int
}

func (b *fakeBindings) Resolve(name string) (*types.ContractBinding, error) {
	b.calls++
	if b.binding == nil || name != b.binding.Name {
		return nil, chains.ErrBindingUnresolved
	}
	copied := *b.binding
	return &copied, nil
}

// fakeSubmitter records every call; behaviour is set per test
type fakeSubmitter struct {
	mu    sync.Mutex
	calls []types.CallDescription
	err   error
	panic any
	hash  string
	// block, when set, holds Submit until it is closed
	block   chan struct{}
	started chan struct{}
}

func (s *fakeSubmitter) Submit(ctx context.Context, binding *types.ContractBinding, call types.CallDescription) (*types.SubmitResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	block, started := s.block, s.started
	s.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	if s.panic != nil {
		panic(s.panic)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &types.SubmitResult{TxHash: s.hash}, nil
}

func (s *fakeSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type fakeAdapter struct {
	network   string
	wallet    *fakeWallet
	bindings  *fakeBindings
	submitter *fakeSubmitter
	encoder   encoding.Encoder
}

func (a *fakeAdapter) Network() string                        { return a.network }
func (a *fakeAdapter) Wallet() chains.WalletSession           { return a.wallet }
func (a *fakeAdapter) Bindings() chains.BindingProvider       { return a.bindings }
func (a *fakeAdapter) Oracle() chains.ReadOracle              { return nil }
func (a *fakeAdapter) Submitter() chains.TransactionSubmitter { return a.submitter }
func (a *fakeAdapter) Encoder() encoding.Encoder              { return a.encoder }

type fakeSnapshots struct {
	mu        sync.Mutex
	snapshot  types.ChainSnapshot
	refreshes int
	err       error
}

func (f *fakeSnapshots) Snapshot() types.ChainSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot.Copy()
}

func (f *fakeSnapshots) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.err
}

type harness struct {
	ctrl      *Controller
	adapter   *fakeAdapter
	snapshots *fakeSnapshots
	notices   []types.Notice
	mu        sync.Mutex
}

func (h *harness) recorded() []types.Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]types.Notice(nil), h.notices...)
}

func (h *harness) connect() {
	h.adapter.wallet.set(types.Session{Connected: true, Address: testAccount, Status: types.StatusConnected})
}

// newHarness builds a controller on localhost with a resolvable binding and a
// disconnected wallet
func newHarness() *harness {
	h := &harness{
		adapter: &fakeAdapter{
			network: constants.NetworkLocalhost,
			wallet:  &fakeWallet{session: types.Session{Status: types.StatusIdle}},
			bindings: &fakeBindings{binding: &types.ContractBinding{
				Name:    constants.ContractName,
				Network: constants.NetworkLocalhost,
				Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
			}},
			submitter: &fakeSubmitter{hash: "0xabc"},
			encoder:   encoding.ABIStringEncoder{},
		},
		snapshots: &fakeSnapshots{},
	}
	h.ctrl = New(h.adapter, Options{
		Logger:    testLogger(),
		Snapshots: h.snapshots,
		Notifier: func(n types.Notice) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.notices = append(h.notices, n)
		},
	})
	return h
}

var errRejected = errors.New("user rejected the request")
