package types

import (
	"encoding/json"
	"fmt"
)

// TransactionType discriminates the TransactionInfo variants
type TransactionType string

const (
	// TransactionTypeSwap token swap, classic routing
	TransactionTypeSwap TransactionType = "swap"
	// TransactionTypeBridge cross-chain swap
	TransactionTypeBridge TransactionType = "bridge"
	// TransactionTypeApprove token allowance
	TransactionTypeApprove TransactionType = "approve"
	// TransactionTypeSend token transfer
	TransactionTypeSend TransactionType = "send"
	// TransactionTypeWrap native wrap or unwrap
	TransactionTypeWrap TransactionType = "wrap"
	// TransactionTypeUnknown any other contract call
	TransactionTypeUnknown TransactionType = "unknown"
)

// TransactionInfo is the typed description of what a transaction does.
// Implementations are the value types declared in this file.
type TransactionInfo interface {
	Type() TransactionType
	isTransactionInfo()
}

// SwapInfo describes a swap, classic or filled through an order
type SwapInfo struct {
	TradeType               string `json:"tradeType,omitempty"`
	InputCurrencyID         string `json:"inputCurrencyId"`
	OutputCurrencyID        string `json:"outputCurrencyId"`
	InputCurrencyAmountRaw  string `json:"inputCurrencyAmountRaw,omitempty"`
	OutputCurrencyAmountRaw string `json:"outputCurrencyAmountRaw,omitempty"`
	IsUniswapXOrder         bool   `json:"isUniswapXOrder,omitempty"`
}

// BridgeInfo describes a cross-chain swap. DepositConfirmed is set once the
// deposit leg succeeds on the source chain, the record is finalized later
// by the destination leg.
type BridgeInfo struct {
	InputCurrencyID         string `json:"inputCurrencyId"`
	InputCurrencyAmountRaw  string `json:"inputCurrencyAmountRaw,omitempty"`
	OutputCurrencyID        string `json:"outputCurrencyId"`
	OutputCurrencyAmountRaw string `json:"outputCurrencyAmountRaw,omitempty"`
	QuoteID                 string `json:"quoteId,omitempty"`
	DepositConfirmed        bool   `json:"depositConfirmed,omitempty"`
}

// ApproveInfo describes a token approval
type ApproveInfo struct {
	TokenAddress   string `json:"tokenAddress"`
	Spender        string `json:"spender"`
	ApprovalAmount string `json:"approvalAmount,omitempty"`
}

// SendInfo describes a transfer
type SendInfo struct {
	TokenAddress      string `json:"tokenAddress"`
	Recipient         string `json:"recipient"`
	CurrencyAmountRaw string `json:"currencyAmountRaw,omitempty"`
}

// WrapInfo describes a native token wrap or unwrap
type WrapInfo struct {
	Unwrapped         bool   `json:"unwrapped"`
	CurrencyAmountRaw string `json:"currencyAmountRaw,omitempty"`
}

// UnknownInfo describes any transaction not covered by the other variants
type UnknownInfo struct {
	DappName string `json:"dappName,omitempty"`
}

// Type implements TransactionInfo
func (SwapInfo) Type() TransactionType { return TransactionTypeSwap }

// Type implements TransactionInfo
func (BridgeInfo) Type() TransactionType { return TransactionTypeBridge }

// Type implements TransactionInfo
func (ApproveInfo) Type() TransactionType { return TransactionTypeApprove }

// Type implements TransactionInfo
func (SendInfo) Type() TransactionType { return TransactionTypeSend }

// Type implements TransactionInfo
func (WrapInfo) Type() TransactionType { return TransactionTypeWrap }

// Type implements TransactionInfo
func (UnknownInfo) Type() TransactionType { return TransactionTypeUnknown }

func (SwapInfo) isTransactionInfo()    {}
func (BridgeInfo) isTransactionInfo()  {}
func (ApproveInfo) isTransactionInfo() {}
func (SendInfo) isTransactionInfo()    {}
func (WrapInfo) isTransactionInfo()    {}
func (UnknownInfo) isTransactionInfo() {}

// InfoType returns the type of info, or an empty type when info is nil
func InfoType(info TransactionInfo) TransactionType {
	if info == nil {
		return ""
	}
	return info.Type()
}

// MarshalTransactionInfo encodes info as a JSON object carrying a "type" discriminator
func MarshalTransactionInfo(info TransactionInfo) (json.RawMessage, error) {
	if info == nil {
		return json.RawMessage("null"), nil
	}
	body, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typ, err := json.Marshal(info.Type())
	if err != nil {
		return nil, err
	}
	fields["type"] = typ
	return json.Marshal(fields)
}

// UnmarshalTransactionInfo decodes a JSON object produced by MarshalTransactionInfo
func UnmarshalTransactionInfo(data []byte) (TransactionInfo, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var head struct {
		Type TransactionType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case TransactionTypeSwap:
		return decodeInfo[SwapInfo](data)
	case TransactionTypeBridge:
		return decodeInfo[BridgeInfo](data)
	case TransactionTypeApprove:
		return decodeInfo[ApproveInfo](data)
	case TransactionTypeSend:
		return decodeInfo[SendInfo](data)
	case TransactionTypeWrap:
		return decodeInfo[WrapInfo](data)
	case TransactionTypeUnknown, "":
		return decodeInfo[UnknownInfo](data)
	default:
		return nil, fmt.Errorf("unknown transaction info type %q", head.Type)
	}
}

func decodeInfo[T TransactionInfo](data []byte) (TransactionInfo, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
