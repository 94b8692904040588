package replacer

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/analytics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/submitter"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	sender   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	receiver = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	now      = time.UnixMilli(1700000000000)
)

type testEnv struct {
	replacer  *Replacer
	store     *storeMock
	accounts  *accountsMock
	submitter *submitterMock
	notifier  *notifierMock
	recorder  *analytics.Recorder
	provider  submitter.Provider
	private   []bool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:     &storeMock{},
		accounts:  &accountsMock{},
		submitter: &submitterMock{},
		notifier:  &notifierMock{},
		recorder:  analytics.NewRecorder(0),
	}
	providers := func(ctx context.Context, chainID types.ChainID, private bool) (submitter.Provider, error) {
		env.private = append(env.private, private)
		return env.provider, nil
	}
	env.replacer = NewReplacer(env.store, env.accounts, providers, env.submitter, nil, env.notifier, env.recorder)
	env.replacer.newID = func() string { return "replacement-id" }
	env.replacer.now = func() time.Time { return now }
	t.Cleanup(func() {
		env.store.AssertExpectations(t)
		env.accounts.AssertExpectations(t)
		env.submitter.AssertExpectations(t)
		env.notifier.AssertExpectations(t)
	})
	return env
}

func pendingRecord(nonce uint64) types.TransactionRecord {
	n := hexutil.Uint64(nonce)
	return types.TransactionRecord{
		ID:      "0xaaa",
		ChainID: 1,
		Hash:    "0xaaa",
		Status:  types.TxStatusPending,
		From:    sender,
		Nonce:   &nonce,
		Info:    types.SendInfo{},
		Options: types.TransactionOptions{
			Request: &types.TransactionRequest{
				From:                 sender,
				To:                   &receiver,
				Nonce:                &n,
				MaxFeePerGas:         (*hexutil.Big)(big.NewInt(100)),
				MaxPriorityFeePerGas: (*hexutil.Big)(big.NewInt(10)),
				Value:                (*hexutil.Big)(big.NewInt(1)),
				ChainID:              1,
			},
		},
	}
}

func submitted(req types.TransactionRequest) *submitter.Result {
	nonce, _ := req.NonceValue()
	tx := ethtypes.NewTx(&ethtypes.DynamicFeeTx{ChainID: big.NewInt(1), Nonce: nonce, Gas: 21000, To: req.To})
	return &submitter.Result{
		Transaction:      tx,
		PopulatedRequest: req,
		SignTimestamp:    now,
		SendTimestamp:    now.Add(time.Millisecond),
	}
}

func TestCancelAddsCancellingRecord(t *testing.T) {
	env := newTestEnv(t)
	original := pendingRecord(0)
	account := wallet.Account{Address: sender, Type: wallet.AccountTypeSigner}

	var result *submitter.Result
	env.accounts.On("Account", sender).Return(account, nil).Once()
	env.submitter.On("Submit", mock.Anything, mock.MatchedBy(func(p submitter.Params) bool {
		return p.IsCancellation && p.Request.IsSelfSend() && p.Request.ValueOrZero().Sign() == 0 &&
			uint64(*p.Request.Nonce) == 0 && p.Account == account
	})).Return(func() *submitter.Result {
		n := hexutil.Uint64(0)
		result = submitted(types.TransactionRequest{From: sender, To: &sender, Nonce: &n, ChainID: 1})
		return result
	}(), nil).Once()
	env.store.On("AddReplacementTransaction", mock.MatchedBy(func(tx types.TransactionRecord) bool {
		return tx.ID == "replacement-id" &&
			tx.Status == types.TxStatusCancelling &&
			tx.Options.ReplacedTransactionHash == original.Hash &&
			tx.Hash == result.Hash().Hex() &&
			tx.ConfirmedTime == nil &&
			tx.AddedTime.Equal(now)
	})).Return(nil).Once()

	require.NoError(t, env.replacer.Cancel(context.Background(), original, Fees{}))

	events := env.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.EventCancelSubmitted, events[0].Name)
	assert.Equal(t, original.Hash, events[0].Properties["original_transaction_hash"])
	assert.Equal(t, []bool{false}, env.private)
}

func TestSpeedUpBumpsFeesAndKeepsRequest(t *testing.T) {
	env := newTestEnv(t)
	original := pendingRecord(7)
	original.Options.PrivateRPCProvider = "flashbots"

	env.accounts.On("Account", sender).Return(wallet.Account{Address: sender}, nil).Once()
	env.submitter.On("Submit", mock.Anything, mock.MatchedBy(func(p submitter.Params) bool {
		return !p.IsCancellation &&
			*p.Request.To == receiver &&
			uint64(*p.Request.Nonce) == 7 &&
			p.Request.MaxFeePerGas.ToInt().Int64() == 111 &&
			p.Request.MaxPriorityFeePerGas.ToInt().Int64() == 12
	})).Return(submitted(*original.Options.Request), nil).Once()
	env.store.On("AddReplacementTransaction", mock.MatchedBy(func(tx types.TransactionRecord) bool {
		return tx.Status == types.TxStatusPending && tx.Options.PrivateRPCProvider == "flashbots"
	})).Return(nil).Once()

	require.NoError(t, env.replacer.SpeedUp(context.Background(), original, Fees{}))
	assert.Empty(t, env.recorder.Events())
	assert.Equal(t, []bool{true}, env.private)
}

func TestSpeedUpWithExplicitFees(t *testing.T) {
	env := newTestEnv(t)
	original := pendingRecord(1)

	env.accounts.On("Account", sender).Return(wallet.Account{Address: sender}, nil).Once()
	env.submitter.On("Submit", mock.Anything, mock.MatchedBy(func(p submitter.Params) bool {
		return p.Request.MaxFeePerGas.ToInt().Int64() == 500 && p.Request.GasPrice == nil
	})).Return(submitted(*original.Options.Request), nil).Once()
	env.store.On("AddReplacementTransaction", mock.Anything).Return(nil).Once()

	require.NoError(t, env.replacer.SpeedUp(context.Background(), original, Fees{MaxFeePerGas: big.NewInt(500)}))
}

func TestReplaceFailures(t *testing.T) {
	submitErr := errors.New("replacement transaction underpriced")

	testCases := []struct {
		Name           string
		Original       func() types.TransactionRecord
		IsCancellation bool
		Setup          func(env *testEnv)
		ExpectedErr    error
		ExpectedKey    string
	}{
		{
			Name: "missing nonce",
			Original: func() types.TransactionRecord {
				tx := pendingRecord(0)
				tx.Nonce = nil
				tx.Options.Request.Nonce = nil
				return tx
			},
			ExpectedErr: ErrInvalidReplacement,
			ExpectedKey: notification.KeyReplaceError,
		},
		{
			Name: "missing sender",
			Original: func() types.TransactionRecord {
				tx := pendingRecord(0)
				tx.From = common.Address{}
				tx.Options.Request.From = common.Address{}
				return tx
			},
			IsCancellation: true,
			ExpectedErr:    ErrInvalidReplacement,
			ExpectedKey:    notification.KeyCancelError,
		},
		{
			Name:     "unknown account",
			Original: func() types.TransactionRecord { return pendingRecord(0) },
			Setup: func(env *testEnv) {
				env.accounts.On("Account", sender).Return(wallet.Account{}, wallet.ErrUnknownAccount).Once()
			},
			ExpectedErr: ErrUnknownAccount,
			ExpectedKey: notification.KeyReplaceError,
		},
		{
			Name:           "submission rejected",
			Original:       func() types.TransactionRecord { return pendingRecord(0) },
			IsCancellation: true,
			Setup: func(env *testEnv) {
				env.accounts.On("Account", sender).Return(wallet.Account{Address: sender}, nil).Once()
				env.submitter.On("Submit", mock.Anything, mock.Anything).Return(nil, submitErr).Once()
			},
			ExpectedErr: submitErr,
			ExpectedKey: notification.KeyCancelError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			env := newTestEnv(t)
			if tc.Setup != nil {
				tc.Setup(env)
			}
			original := tc.Original()
			env.store.On("RemoveTransactionByID", original.ChainID, "replacement-id").Once()
			env.notifier.On("PushError", tc.ExpectedKey, original.ChainID, original.Hash).Once()

			req := original.Options.Request.Copy()
			err := env.replacer.Replace(context.Background(), original, req, tc.IsCancellation)
			require.ErrorIs(t, err, tc.ExpectedErr)
			assert.Empty(t, env.recorder.Events())
		})
	}
}

func TestSpeedUpWithoutRequest(t *testing.T) {
	env := newTestEnv(t)
	original := pendingRecord(0)
	original.Options.Request = nil
	env.notifier.On("PushError", notification.KeyReplaceError, original.ChainID, original.Hash).Once()

	err := env.replacer.SpeedUp(context.Background(), original, Fees{})
	require.ErrorIs(t, err, ErrInvalidReplacement)
}

func TestPickFee(t *testing.T) {
	assert.Nil(t, pickFee(nil, nil))
	assert.Equal(t, int64(7), pickFee(big.NewInt(7), (*hexutil.Big)(big.NewInt(100))).ToInt().Int64())
	assert.Equal(t, int64(111), pickFee(nil, (*hexutil.Big)(big.NewInt(100))).ToInt().Int64())
}
