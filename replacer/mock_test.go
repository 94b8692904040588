package replacer

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/submitter"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

type storeMock struct {
	mock.Mock
}

func (m *storeMock) AddReplacementTransaction(tx types.TransactionRecord) error {
	return m.Called(tx).Error(0)
}

func (m *storeMock) RemoveTransactionByID(chainID types.ChainID, id string) {
	m.Called(chainID, id)
}

type accountsMock struct {
	mock.Mock
}

func (m *accountsMock) Account(addr common.Address) (wallet.Account, error) {
	args := m.Called(addr)
	return args.Get(0).(wallet.Account), args.Error(1)
}

type submitterMock struct {
	mock.Mock
}

func (m *submitterMock) Submit(ctx context.Context, p submitter.Params) (*submitter.Result, error) {
	args := m.Called(ctx, p)
	res, _ := args.Get(0).(*submitter.Result)
	return res, args.Error(1)
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) PushError(key string, chainID types.ChainID, txHash string) notification.AppNotification {
	m.Called(key, chainID, txHash)
	return notification.AppNotification{}
}
