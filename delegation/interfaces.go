package delegation

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
)

// CodeReader reads deployed account code
type CodeReader interface {
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
}

type registryInterface interface {
	DelegationContract(chainID types.ChainID) (common.Address, bool)
}
