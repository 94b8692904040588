package monitor

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/ethprovider"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

type storeInterface interface {
	Transaction(chainID types.ChainID, hash string) (types.TransactionRecord, bool)
	PendingTransactions(chainIDs ...types.ChainID) []types.TransactionRecord
	OpenSignatures() []types.SignatureRecord
	CheckedTransaction(chainID types.ChainID, hash string, blockNumber uint64)
}

type reconcilerInterface interface {
	OnActivityUpdate(update types.ActivityUpdate)
}

// Provider is the chain access needed by the monitor
type Provider interface {
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error)
	GetCallsStatus(ctx context.Context, batchID string) (*ethprovider.CallsStatus, error)
}

// ProviderFunc resolves the provider of a chain
type ProviderFunc func(ctx context.Context, chainID types.ChainID) (Provider, error)

// BridgeStatusFetcher reports the status of the destination leg of a bridge
type BridgeStatusFetcher interface {
	BridgeStatus(ctx context.Context, tx types.TransactionRecord) (types.TransactionStatus, error)
}

// OrderFetcher reports the current status of off-chain orders
type OrderFetcher interface {
	FetchOrders(ctx context.Context, orderHashes []string) ([]OrderUpdate, error)
}
