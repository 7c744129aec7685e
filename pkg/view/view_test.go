package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sigweihq/coffeepay/pkg/constants"
	"github.com/sigweihq/coffeepay/pkg/controller"
	"github.com/sigweihq/coffeepay/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const creator = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func readyView() controller.ViewModel {
	return controller.ViewModel{
		Network:           constants.NetworkLocalhost,
		Session:           types.Session{Connected: true, Address: creator, Status: types.StatusConnected},
		ShortAddress:      "0xf39F...2266",
		Connectors:        []types.ConnectorInfo{{ID: "privatekey", Name: "Private key"}, {ID: "keystore", Name: "Keystore file"}},
		ConnectorsEnabled: true,
		Draft:             types.PurchaseDraft{Message: "Thanks!", Quantity: 3},
		MessageCounter:    "7/100",
		Quantities:        []int{1, 3, 5},
		Currency:          "ETH",
		TotalPurchases:    "42",
		UnitPrice:         "0.001",
		DisplayPrice:      "0.003",
		Creator:           creator,
		CreatorShort:      "0xf39F...2266",
		SubmitEnabled:     true,
		ButtonLabel:       "☕ Buy 3 Coffees (0.003 ETH)",
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, readyView(), Options{}))
	out := buf.String()

	for _, want := range []string{
		"Buy Me a Coffee",
		"Connected 0xf39F...2266",
		"42 Coffees Bought",
		"0.001 ETH per Coffee",
		"Supporting\n  " + creator,
		"[x3]",
		" x1 ",
		"Thanks!",
		"7/100",
		"[ ☕ Buy 3 Coffees (0.003 ETH) ]",
		"42 amazing supporters",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "██")
}

func TestRender_Disconnected(t *testing.T) {
	vm := readyView()
	vm.Session = types.Session{Status: types.StatusIdle}
	vm.Creator = ""
	vm.Draft.Message = ""
	vm.SubmitEnabled = false
	vm.ButtonLabel = "🔗 Connect Wallet to Buy Coffee"

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, vm, Options{ShowQR: true}))
	out := buf.String()

	assert.Contains(t, out, "Not connected")
	assert.Contains(t, out, "( 🔗 Connect Wallet to Buy Coffee )")
	assert.Contains(t, out, "Say something nice!")
	// Creator card is hidden until the oracle resolves it
	assert.NotContains(t, out, "Supporting")
	assert.NotContains(t, out, "██")
}

func TestRender_WithQR(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, readyView(), Options{ShowQR: true}))
	assert.Contains(t, buf.String(), "██")
}

func TestRender_LastPurchase(t *testing.T) {
	vm := readyView()
	vm.Submission = types.SubmissionSucceeded
	vm.LastTxHash = "0xdeadbeef"

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, vm, Options{}))
	assert.Contains(t, buf.String(), "last purchase: 0xdeadbeef")
}

func TestRenderConnectModal(t *testing.T) {
	vm := readyView()
	var buf bytes.Buffer
	require.NoError(t, RenderConnectModal(&buf, vm))
	assert.Contains(t, buf.String(), "privatekey")
	assert.Contains(t, buf.String(), "keystore")
	assert.NotContains(t, buf.String(), "in progress")

	vm.ConnectorsEnabled = false
	buf.Reset()
	require.NoError(t, RenderConnectModal(&buf, vm))
	assert.Contains(t, buf.String(), "in progress")
}

func TestRenderNotice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderNotice(&buf, types.Notice{Kind: types.NoticePurchaseSucceeded, Message: controller.MsgPurchaseSucceeded}))
	require.NoError(t, RenderNotice(&buf, types.Notice{Kind: types.NoticeEmptyMessage, Message: controller.MsgEmptyMessage}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "✔"))
	assert.True(t, strings.HasPrefix(lines[1], "✖"))
}

func TestQR(t *testing.T) {
	qr, err := QR(PaymentURI(constants.NetworkLocalhost, creator))
	require.NoError(t, err)

	rows := strings.Split(strings.TrimRight(qr, "\n"), "\n")
	require.NotEmpty(t, rows)
	// Square: every row holds two characters per module
	for _, row := range rows {
		assert.Equal(t, len([]rune(rows[0])), len([]rune(row)))
	}
	assert.Equal(t, len(rows)*2, len([]rune(rows[0])))
}

func TestPaymentURI(t *testing.T) {
	assert.Equal(t, "ethereum:"+creator, PaymentURI(constants.NetworkBase, creator))
	assert.Equal(t, "solana:abc", PaymentURI(constants.NetworkSolanaDevnet, "abc"))
}
