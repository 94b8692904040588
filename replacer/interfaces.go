package replacer

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/submitter"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/wallet"
	"github.com/ethereum/go-ethereum/common"
)

type storeInterface interface {
	AddReplacementTransaction(tx types.TransactionRecord) error
	RemoveTransactionByID(chainID types.ChainID, id string)
}

type accountsInterface interface {
	Account(addr common.Address) (wallet.Account, error)
}

type submitterInterface interface {
	Submit(ctx context.Context, p submitter.Params) (*submitter.Result, error)
}

type notifierInterface interface {
	PushError(key string, chainID types.ChainID, txHash string) notification.AppNotification
}

// ProviderFunc resolves the provider of a chain, private selects the
// provider sending through the private mempool
type ProviderFunc func(ctx context.Context, chainID types.ChainID, private bool) (submitter.Provider, error)
