package submitter

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/delegation"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/wallet"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Provider is the RPC boundary used to submit transactions
type Provider interface {
	ChainID() types.ChainID
	PopulateTransaction(ctx context.Context, req types.TransactionRequest) (types.TransactionRequest, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*ethtypes.Transaction, error)
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
}

// SignerProvider hands out the signer of an account
type SignerProvider interface {
	Signer(account wallet.Account) (wallet.Signer, error)
}

type delegationResolverInterface interface {
	Status(ctx context.Context, provider delegation.CodeReader, chainID types.ChainID, address common.Address) (delegation.Status, error)
}
