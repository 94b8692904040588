package types

import "fmt"

// TransactionStatus is the lifecycle status of a tracked on-chain transaction
type TransactionStatus string

const (
	// TxStatusPending represents a tx submitted but not yet mined
	TxStatusPending TransactionStatus = "Pending"
	// TxStatusSuccess represents a tx mined successfully
	TxStatusSuccess TransactionStatus = "Success"
	// TxStatusFailed represents a tx mined with a failed status or dropped
	TxStatusFailed TransactionStatus = "Failed"
	// TxStatusCancelling represents a tx for which a cancellation replacement has been submitted
	TxStatusCancelling TransactionStatus = "Cancelling"

	// txStatusConfirmed is the legacy persisted name of TxStatusSuccess
	txStatusConfirmed = "Confirmed"
)

// IsPending returns true while the tx can still be mined, i.e. Pending or Cancelling
func (s TransactionStatus) IsPending() bool {
	return s == TxStatusPending || s == TxStatusCancelling
}

// IsFinal returns true for Success and Failed
func (s TransactionStatus) IsFinal() bool {
	return s == TxStatusSuccess || s == TxStatusFailed
}

// UnmarshalText parses a status, accepting the legacy "Confirmed" name
func (s *TransactionStatus) UnmarshalText(text []byte) error {
	switch v := string(text); v {
	case string(TxStatusPending), string(TxStatusSuccess), string(TxStatusFailed), string(TxStatusCancelling):
		*s = TransactionStatus(v)
	case txStatusConfirmed:
		*s = TxStatusSuccess
	default:
		return fmt.Errorf("unknown transaction status %q", v)
	}
	return nil
}

// OrderStatus is the status of an off-chain signed order
type OrderStatus string

const (
	// OrderStatusOpen order signed and waiting to be filled
	OrderStatusOpen OrderStatus = "open"
	// OrderStatusFilled order filled on-chain, terminal
	OrderStatusFilled OrderStatus = "filled"
	// OrderStatusCancelled order cancelled by the user
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusExpired order deadline reached before being filled
	OrderStatusExpired OrderStatus = "expired"
	// OrderStatusError order rejected by the filler
	OrderStatusError OrderStatus = "error"
	// OrderStatusInsufficientFunds offerer balance is not enough to fill the order
	OrderStatusInsufficientFunds OrderStatus = "insufficient-funds"
)

// SignatureType identifies the kind of off-chain signed order
type SignatureType string

const (
	// SignatureTypeUniswapXOrder dutch order
	SignatureTypeUniswapXOrder SignatureType = "signUniswapXOrder"
	// SignatureTypeUniswapXV2Order dutch v2 order
	SignatureTypeUniswapXV2Order SignatureType = "signUniswapXV2Order"
	// SignatureTypeUniswapXV3Order dutch v3 order
	SignatureTypeUniswapXV3Order SignatureType = "signUniswapXV3Order"
	// SignatureTypePriorityOrder priority order
	SignatureTypePriorityOrder SignatureType = "signPriorityOrder"
	// SignatureTypeLimit limit order
	SignatureTypeLimit SignatureType = "signLimit"
)

// Routing returns the analytics routing name of the order type
func (t SignatureType) Routing() string {
	switch t {
	case SignatureTypeUniswapXOrder:
		return "uniswap_x"
	case SignatureTypeUniswapXV3Order:
		return "uniswap_x_v3"
	case SignatureTypePriorityOrder:
		return "uniswap_x_priority"
	case SignatureTypeLimit:
		return "limit_order"
	default:
		return "uniswap_x_v2"
	}
}
