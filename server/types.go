package server

import (
	"encoding/json"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Request is a jsonrpc Request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a jsonrpc success/error response
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is a jsonrpc error
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResponse returns the response to req, err takes precedence over reply
func NewResponse(req Request, reply json.RawMessage, err Error) Response {
	res := Response{JSONRPC: req.JSONRPC, ID: req.ID}
	if err != nil {
		res.Error = &ErrorObject{Code: err.ErrorCode(), Message: err.Error()}
		return res
	}
	res.Result = reply
	return res
}

// TransactionArgs are the details of a transaction to track
type TransactionArgs struct {
	ChainID               types.ChainID               `json:"chainId"`
	Hash                  string                      `json:"hash"`
	From                  common.Address              `json:"from"`
	Nonce                 *hexutil.Uint64             `json:"nonce,omitempty"`
	Info                  json.RawMessage             `json:"info"`
	BatchInfo             *types.BatchInfo            `json:"batchInfo,omitempty"`
	Options               types.TransactionOptions    `json:"options"`
	TransactionOriginType types.TransactionOriginType `json:"transactionOriginType,omitempty"`
}

// FeeArgs are the fees of a replacement, omitted fees are bumped from the original
type FeeArgs struct {
	GasPrice             *hexutil.Big `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexutil.Big `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big `json:"maxPriorityFeePerGas,omitempty"`
}
