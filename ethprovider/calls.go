package ethprovider

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Batch status codes returned by wallet_getCallsStatus
const (
	CallsStatusPending           = 100
	CallsStatusConfirmed         = 200
	CallsStatusOffchainFailure   = 400
	CallsStatusReverted          = 500
	CallsStatusPartiallyReverted = 600
)

// CallsReceipt is a receipt of a mined call batch
type CallsReceipt struct {
	TransactionHash common.Hash    `json:"transactionHash"`
	BlockNumber     hexutil.Uint64 `json:"blockNumber"`
	Status          hexutil.Uint64 `json:"status"`
}

// CallsStatus is the result of wallet_getCallsStatus
type CallsStatus struct {
	ID       string         `json:"id"`
	Status   uint           `json:"status"`
	Receipts []CallsReceipt `json:"receipts,omitempty"`
}

// IsPending tells whether the batch has not been settled yet
func (s CallsStatus) IsPending() bool {
	return s.Status < CallsStatusConfirmed
}

// IsSuccess tells whether every call of the batch succeeded
func (s CallsStatus) IsSuccess() bool {
	return s.Status >= CallsStatusConfirmed && s.Status < CallsStatusOffchainFailure
}

// TransactionHash returns the hash of the first receipt, if any
func (s CallsStatus) TransactionHash() (common.Hash, bool) {
	if len(s.Receipts) == 0 {
		return common.Hash{}, false
	}
	return s.Receipts[0].TransactionHash, true
}

// GetCallsStatus queries the status of a call batch submitted with wallet_sendCalls
func (c *Client) GetCallsStatus(ctx context.Context, batchID string) (*CallsStatus, error) {
	defer observeDuration(c.label, "wallet_getCallsStatus")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var status CallsStatus
	err := c.rawClient.CallContext(ctx, &status, "wallet_getCallsStatus", batchID)
	observeError(c.label, "wallet_getCallsStatus", err)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
