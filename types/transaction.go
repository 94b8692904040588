package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionOriginType tells who built the transaction
type TransactionOriginType string

const (
	// TransactionOriginInternal built and submitted by this wallet
	TransactionOriginInternal TransactionOriginType = "internal"
	// TransactionOriginExternal requested by a connected dapp
	TransactionOriginExternal TransactionOriginType = "external"
)

// BatchInfo links a transaction submitted through a call batch whose hash
// was not known at submission time
type BatchInfo struct {
	BatchID string  `json:"batchId"`
	ChainID ChainID `json:"chainId"`
}

// TransactionOptions holds submission details needed to replace a transaction
type TransactionOptions struct {
	Request                 *TransactionRequest `json:"request,omitempty"`
	PrivateRPCProvider      string              `json:"privateRpcProvider,omitempty"`
	ReplacedTransactionHash string              `json:"replacedTransactionHash,omitempty"`
	SignTimestamp           *Timestamp          `json:"signTimestamp,omitempty"`
	SendTimestamp           *Timestamp          `json:"sendTimestamp,omitempty"`
}

// IsPrivate returns true when the transaction was sent through a private RPC
func (o TransactionOptions) IsPrivate() bool {
	return o.PrivateRPCProvider != ""
}

// TransactionDetails are the caller supplied fields of a new TransactionRecord
type TransactionDetails struct {
	ID                    string
	From                  common.Address
	Nonce                 *uint64
	Info                  TransactionInfo
	BatchInfo             *BatchInfo
	Options               TransactionOptions
	TransactionOriginType TransactionOriginType
}

// TransactionRecord is one locally tracked on-chain transaction
type TransactionRecord struct {
	ID                     string                `json:"id"`
	ChainID                ChainID               `json:"chainId"`
	Hash                   string                `json:"hash"`
	Status                 TransactionStatus     `json:"status"`
	From                   common.Address        `json:"from"`
	Nonce                  *uint64               `json:"nonce,omitempty"`
	AddedTime              Timestamp             `json:"addedTime"`
	ConfirmedTime          *Timestamp            `json:"confirmedTime,omitempty"`
	LastCheckedBlockNumber uint64                `json:"lastCheckedBlockNumber,omitempty"`
	Info                   TransactionInfo       `json:"info"`
	BatchInfo              *BatchInfo            `json:"batchInfo,omitempty"`
	Cancelled              bool                  `json:"cancelled,omitempty"`
	TransactionOriginType  TransactionOriginType `json:"transactionOriginType,omitempty"`
	Options                TransactionOptions    `json:"options"`
}

// IsBridge returns true when the record carries a bridge payload
func (r TransactionRecord) IsBridge() bool {
	_, ok := r.Info.(BridgeInfo)
	return ok
}

// IsSwapOrBridge returns true for the payloads measured by swap analytics
func (r TransactionRecord) IsSwapOrBridge() bool {
	switch r.Info.(type) {
	case SwapInfo, BridgeInfo:
		return true
	}
	return false
}

// MarshalJSON encodes the info payload with its type discriminator
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	type alias TransactionRecord
	info, err := MarshalTransactionInfo(r.Info)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		alias
		Info json.RawMessage `json:"info"`
	}{alias(r), info})
}

// UnmarshalJSON decodes a record encoded by MarshalJSON
func (r *TransactionRecord) UnmarshalJSON(data []byte) error {
	type alias TransactionRecord
	aux := struct {
		*alias
		Info json.RawMessage `json:"info"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	info, err := UnmarshalTransactionInfo(aux.Info)
	if err != nil {
		return err
	}
	r.Info = info
	return nil
}
