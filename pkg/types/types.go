package types

import (
	"math/big"
	"strings"
)

// ConnectionStatus is the wallet session status as reported by the wallet adapter
type ConnectionStatus string

const (
	StatusIdle       ConnectionStatus = "idle"
	StatusConnecting ConnectionStatus = "connecting"
	StatusConnected  ConnectionStatus = "connected"
)

// Session is a read-only view of the wallet adapter's current session
type Session struct {
	Connected bool             `json:"connected"`
	Address   string           `json:"address,omitempty"`
	Status    ConnectionStatus `json:"status"`
}

// ShortAddress renders the account address as 0x1234...abcd
func (s Session) ShortAddress() string {
	return ShortenAddress(s.Address)
}

// ShortenAddress keeps the first 6 and last 4 characters of an address
func ShortenAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// ConnectorInfo describes a wallet connector offered in the connect modal
type ConnectorInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContractBinding is a resolved deployment: where the contract lives and how to talk to it.
// ABI holds the chain-specific schema (abi.ABI for EVM, program layout for SVM).
type ContractBinding struct {
	Name    string `json:"name"`
	Network string `json:"network"`
	Address string `json:"address"`
	ABI     any    `json:"-"`
}

// PurchaseDraft is the user's pending purchase, edited entirely through user input
type PurchaseDraft struct {
	Message  string `json:"message"`
	Quantity int    `json:"quantity"`
}

// HasMessage reports whether the trimmed message is non-empty
func (d PurchaseDraft) HasMessage() bool {
	return strings.TrimSpace(d.Message) != ""
}

// ChainSnapshot holds the latest values from the read oracle.
// A nil field means the oracle has not resolved it yet.
type ChainSnapshot struct {
	TotalPurchases *big.Int `json:"totalPurchases,omitempty"`
	UnitPrice      *big.Int `json:"unitPrice,omitempty"` // smallest currency unit
	Creator        string   `json:"creator,omitempty"`
}

// Copy returns a deep copy so callers never share big.Int values with the cache
func (s ChainSnapshot) Copy() ChainSnapshot {
	out := ChainSnapshot{Creator: s.Creator}
	if s.TotalPurchases != nil {
		out.TotalPurchases = new(big.Int).Set(s.TotalPurchases)
	}
	if s.UnitPrice != nil {
		out.UnitPrice = new(big.Int).Set(s.UnitPrice)
	}
	return out
}

// SubmissionState tracks the single in-flight purchase
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionPending
	SubmissionSucceeded
	SubmissionFailed
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionPending:
		return "pending"
	case SubmissionSucceeded:
		return "succeeded"
	case SubmissionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CallDescription is a populated contract call handed to the transaction submitter
type CallDescription struct {
	FunctionName string `json:"functionName"`
	Args         []any  `json:"args"`
}

// SubmitResult is returned by a transaction submitter once the call is confirmed
type SubmitResult struct {
	TxHash string `json:"txHash"`
}

// NoticeKind classifies user-visible notices
type NoticeKind string

const (
	NoticeConnectWallet     NoticeKind = "connect_wallet"
	NoticeEmptyMessage      NoticeKind = "empty_message"
	NoticeContractNotLoaded NoticeKind = "contract_not_loaded"
	NoticeConnecting        NoticeKind = "connecting"
	NoticePurchaseSucceeded NoticeKind = "purchase_succeeded"
	NoticePurchaseFailed    NoticeKind = "purchase_failed"
)

// Notice is a message surfaced to the user
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// IsError reports whether the notice describes a failure
func (n Notice) IsError() bool {
	return n.Kind != NoticePurchaseSucceeded
}
