package server

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/replacer"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/stretchr/testify/mock"
)

type replacerMock struct {
	mock.Mock
}

func (m *replacerMock) SpeedUp(ctx context.Context, original types.TransactionRecord, fees replacer.Fees) error {
	return m.Called(ctx, original, fees).Error(0)
}

func (m *replacerMock) Cancel(ctx context.Context, original types.TransactionRecord, fees replacer.Fees) error {
	return m.Called(ctx, original, fees).Error(0)
}
