package delegation

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ErrNoDelegationContract is returned for chains without a delegation contract
var ErrNoDelegationContract = errors.New("no delegation contract for chain")

// Status is the delegation state of an account on a chain
type Status struct {
	// Contract is the contract the account is expected to delegate to
	Contract common.Address
	// Delegate is the current delegation target, nil when the account has none
	Delegate *common.Address
	// IsContract is set for accounts holding regular contract code, those can't delegate
	IsContract bool
	// NeedsDelegation is set when the account must be upgraded to Contract
	NeedsDelegation bool
}

// Resolver looks up the delegation status of accounts
type Resolver struct {
	registry registryInterface
}

func NewResolver(registry registryInterface) *Resolver {
	return &Resolver{registry: registry}
}

// Status reads the code of address through provider and compares its
// delegation designator with the delegation contract of chainID
func (r *Resolver) Status(ctx context.Context, provider CodeReader, chainID types.ChainID, address common.Address) (Status, error) {
	contract, found := r.registry.DelegationContract(chainID)
	if !found {
		return Status{}, fmt.Errorf("%w: %d", ErrNoDelegationContract, chainID)
	}

	code, err := provider.CodeAt(ctx, address)
	if err != nil {
		return Status{}, fmt.Errorf("can't read code of %s: %w", address, err)
	}

	status := Status{Contract: contract}
	if len(code) == 0 {
		status.NeedsDelegation = true
		return status, nil
	}

	delegate, ok := ethtypes.ParseDelegation(code)
	if !ok {
		status.IsContract = true
		return status, nil
	}
	status.Delegate = &delegate
	status.NeedsDelegation = delegate != contract
	return status, nil
}
