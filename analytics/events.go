package analytics

import (
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

const (
	// EventSwapTransactionCompleted is sent when a swap, bridge or order settles successfully
	EventSwapTransactionCompleted = "Swap Transaction Completed"
	// EventSwapTransactionFailed is sent when a swap, bridge or order ends without settling
	EventSwapTransactionFailed = "Swap Transaction Failed"
	// EventCancelSubmitted is sent when a cancellation replacement is broadcast
	EventCancelSubmitted = "Cancel Submitted"
)

const (
	routingClassic = "classic"
	routingBridge  = "bridge"
)

// Event is a named analytics event with a flat property payload
type Event struct {
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties"`
}

// SwapFinalized describes the outcome of a classic swap or bridge
type SwapFinalized struct {
	Hash       string
	BatchID    string
	ChainInID  types.ChainID
	ChainOutID types.ChainID
	Status     types.TransactionStatus
	Type       types.TransactionType
	TimeToSwap time.Duration
	OriginType types.TransactionOriginType
}

// Event builds the analytics event
func (s SwapFinalized) Event() Event {
	name := EventSwapTransactionFailed
	if s.Status == types.TxStatusSuccess {
		name = EventSwapTransactionCompleted
	}
	routing := routingClassic
	if s.Type == types.TransactionTypeBridge {
		routing = routingBridge
	}

	props := map[string]interface{}{
		"transactionOriginType": originType(s.OriginType),
		"routing":               routing,
		"time_to_swap":          s.TimeToSwap.Milliseconds(),
		"chain_id":              uint64(s.ChainInID),
		"chain_id_in":           uint64(s.ChainInID),
		"chain_id_out":          uint64(s.ChainOutID),
	}
	if s.Hash != "" {
		props["hash"] = s.Hash
	}
	if s.BatchID != "" {
		props["batch_id"] = s.BatchID
	}
	return Event{Name: name, Properties: props}
}

// OrderSwapFinalized describes the outcome of an off-chain order
type OrderSwapFinalized struct {
	Hash          string
	OrderHash     string
	ChainID       types.ChainID
	SignatureType types.SignatureType
	Status        types.OrderStatus
	TimeToSwap    time.Duration
}

// Event builds the analytics event
func (o OrderSwapFinalized) Event() Event {
	name := EventSwapTransactionFailed
	if o.Status == types.OrderStatusFilled {
		name = EventSwapTransactionCompleted
	}

	props := map[string]interface{}{
		"transactionOriginType": string(types.TransactionOriginInternal),
		"routing":               o.SignatureType.Routing(),
		"time_to_swap":          o.TimeToSwap.Milliseconds(),
		"order_hash":            o.OrderHash,
		"chain_id":              uint64(o.ChainID),
	}
	if o.Hash != "" {
		props["hash"] = o.Hash
	}
	if name == EventSwapTransactionFailed {
		props["status"] = string(o.Status)
	}
	return Event{Name: name, Properties: props}
}

// CancelSubmitted correlates a cancelled transaction with its replacement
type CancelSubmitted struct {
	OriginalHash    string
	ReplacementHash string
	ChainID         types.ChainID
	Nonce           uint64
}

// Event builds the analytics event
func (c CancelSubmitted) Event() Event {
	return Event{
		Name: EventCancelSubmitted,
		Properties: map[string]interface{}{
			"original_transaction_hash":    c.OriginalHash,
			"replacement_transaction_hash": c.ReplacementHash,
			"chain_id":                     uint64(c.ChainID),
			"nonce":                        c.Nonce,
		},
	}
}

func originType(t types.TransactionOriginType) string {
	if t == "" {
		return string(types.TransactionOriginInternal)
	}
	return string(t)
}
