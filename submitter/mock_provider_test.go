package submitter

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/delegation"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

type providerMock struct {
	mock.Mock
}

func (m *providerMock) ChainID() types.ChainID {
	return m.Called().Get(0).(types.ChainID)
}

func (m *providerMock) PopulateTransaction(ctx context.Context, req types.TransactionRequest) (types.TransactionRequest, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.TransactionRequest), args.Error(1)
}

func (m *providerMock) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *providerMock) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *providerMock) TransactionByHash(ctx context.Context, hash common.Hash) (*ethtypes.Transaction, error) {
	args := m.Called(ctx, hash)
	switch v := args.Get(0).(type) {
	case func(context.Context, common.Hash) *ethtypes.Transaction:
		return v(ctx, hash), args.Error(1)
	case *ethtypes.Transaction:
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *providerMock) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	args := m.Called(ctx, account)
	code, _ := args.Get(0).([]byte)
	return code, args.Error(1)
}

type delegationResolverMock struct {
	mock.Mock
}

func (m *delegationResolverMock) Status(ctx context.Context, provider delegation.CodeReader, chainID types.ChainID, address common.Address) (delegation.Status, error) {
	args := m.Called(ctx, provider, chainID, address)
	return args.Get(0).(delegation.Status), args.Error(1)
}
