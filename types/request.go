package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TransactionRequest is an unsigned transaction as sent by a wallet, fields
// left nil are resolved when the request is populated
type TransactionRequest struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to,omitempty"`
	Nonce                *hexutil.Uint64 `json:"nonce,omitempty"`
	GasLimit             *hexutil.Uint64 `json:"gasLimit,omitempty"`
	GasPrice             *hexutil.Big    `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexutil.Big    `json:"value,omitempty"`
	Data                 hexutil.Bytes   `json:"data,omitempty"`
	ChainID              ChainID         `json:"chainId,omitempty"`
}

// IsSelfSend returns true when the request targets its own sender
func (r TransactionRequest) IsSelfSend() bool {
	return r.To != nil && *r.To == r.From
}

// IsDynamicFee returns true when the request carries EIP-1559 fee fields
func (r TransactionRequest) IsDynamicFee() bool {
	return r.MaxFeePerGas != nil || r.MaxPriorityFeePerGas != nil
}

// NonceValue returns the nonce and whether it is set
func (r TransactionRequest) NonceValue() (uint64, bool) {
	if r.Nonce == nil {
		return 0, false
	}
	return uint64(*r.Nonce), true
}

// ValueOrZero returns the value to transfer, zero when unset
func (r TransactionRequest) ValueOrZero() *big.Int {
	if r.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(r.Value.ToInt())
}

// Merge returns a copy of r where every field set in patch overrides r
func (r TransactionRequest) Merge(patch TransactionRequest) TransactionRequest {
	out := r.Copy()
	if patch.From != (common.Address{}) {
		out.From = patch.From
	}
	if patch.To != nil {
		to := *patch.To
		out.To = &to
	}
	if patch.Nonce != nil {
		out.Nonce = copyUint64(patch.Nonce)
	}
	if patch.GasLimit != nil {
		out.GasLimit = copyUint64(patch.GasLimit)
	}
	if patch.GasPrice != nil {
		out.GasPrice = copyBig(patch.GasPrice)
	}
	if patch.MaxFeePerGas != nil {
		out.MaxFeePerGas = copyBig(patch.MaxFeePerGas)
	}
	if patch.MaxPriorityFeePerGas != nil {
		out.MaxPriorityFeePerGas = copyBig(patch.MaxPriorityFeePerGas)
	}
	if patch.Value != nil {
		out.Value = copyBig(patch.Value)
	}
	if patch.Data != nil {
		out.Data = append(hexutil.Bytes{}, patch.Data...)
	}
	if patch.ChainID != 0 {
		out.ChainID = patch.ChainID
	}
	return out
}

// Copy returns a deep copy of the request
func (r TransactionRequest) Copy() TransactionRequest {
	out := r
	if r.To != nil {
		to := *r.To
		out.To = &to
	}
	out.Nonce = copyUint64(r.Nonce)
	out.GasLimit = copyUint64(r.GasLimit)
	out.GasPrice = copyBig(r.GasPrice)
	out.MaxFeePerGas = copyBig(r.MaxFeePerGas)
	out.MaxPriorityFeePerGas = copyBig(r.MaxPriorityFeePerGas)
	out.Value = copyBig(r.Value)
	if r.Data != nil {
		out.Data = append(hexutil.Bytes{}, r.Data...)
	}
	return out
}

func copyUint64(v *hexutil.Uint64) *hexutil.Uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyBig(v *hexutil.Big) *hexutil.Big {
	if v == nil {
		return nil
	}
	return (*hexutil.Big)(new(big.Int).Set(v.ToInt()))
}
