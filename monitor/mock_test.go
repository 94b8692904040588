package monitor

import (
	"context"
	"sync"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/ethprovider"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

type providerMock struct {
	mock.Mock
}

func (m *providerMock) BlockNumber(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *providerMock) TransactionReceipt(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	args := m.Called(ctx, hash)
	receipt, _ := args.Get(0).(*ethtypes.Receipt)
	return receipt, args.Error(1)
}

func (m *providerMock) GetCallsStatus(ctx context.Context, batchID string) (*ethprovider.CallsStatus, error) {
	args := m.Called(ctx, batchID)
	status, _ := args.Get(0).(*ethprovider.CallsStatus)
	return status, args.Error(1)
}

type bridgesMock struct {
	mock.Mock
}

func (m *bridgesMock) BridgeStatus(ctx context.Context, tx types.TransactionRecord) (types.TransactionStatus, error) {
	args := m.Called(ctx, tx.Hash)
	return args.Get(0).(types.TransactionStatus), args.Error(1)
}

type ordersMock struct {
	mock.Mock
}

func (m *ordersMock) FetchOrders(ctx context.Context, orderHashes []string) ([]OrderUpdate, error) {
	args := m.Called(ctx, orderHashes)
	updates, _ := args.Get(0).([]OrderUpdate)
	return updates, args.Error(1)
}

// reconcilerRecorder collects the produced updates
type reconcilerRecorder struct {
	mu      sync.Mutex
	updates []types.ActivityUpdate
}

func (r *reconcilerRecorder) OnActivityUpdate(update types.ActivityUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)
}

func (r *reconcilerRecorder) Updates() []types.ActivityUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.ActivityUpdate(nil), r.updates...)
}
