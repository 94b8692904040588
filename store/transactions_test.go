package store

import (
	"testing"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func swapDetails() types.TransactionDetails {
	nonce := uint64(3)
	return types.TransactionDetails{
		From:  common.HexToAddress("0x456"),
		Nonce: &nonce,
		Info:  types.SwapInfo{InputCurrencyID: "1-0x1", OutputCurrencyID: "1-0x2"},
	}
}

func TestAddTransaction(t *testing.T) {
	state, err := AddTransaction(TransactionState{}, 1, "0xabc", swapDetails(), testNow)
	require.NoError(t, err)

	tx, found := state.Get(1, "0xabc")
	require.True(t, found)
	assert.Equal(t, types.TxStatusPending, tx.Status)
	assert.Equal(t, "0xabc", tx.ID)
	assert.True(t, tx.AddedTime.Equal(testNow))
	assert.Nil(t, tx.ConfirmedTime)

	_, err = AddTransaction(state, 1, "0xabc", swapDetails(), testNow)
	assert.ErrorIs(t, err, ErrTransactionExists)

	// same hash on a different chain is a different key
	_, err = AddTransaction(state, 10, "0xabc", swapDetails(), testNow)
	assert.NoError(t, err)
}

func TestReducersDoNotModifyInput(t *testing.T) {
	initial, err := AddTransaction(TransactionState{}, 1, "0xabc", swapDetails(), testNow)
	require.NoError(t, err)

	next := FinalizeTransaction(initial, 1, "0xabc", types.TxStatusSuccess, nil, testNow)
	next = CancelTransaction(next, 1, "0xabc", "0xdef")
	_ = ClearAllTransactions(next, 1)

	tx, found := initial.Get(1, "0xabc")
	require.True(t, found)
	assert.Equal(t, types.TxStatusPending, tx.Status)
	assert.Equal(t, 1, initial.Len())
}

func TestFinalizeTransaction(t *testing.T) {
	state, err := AddTransaction(TransactionState{}, 1, "0x1", swapDetails(), testNow)
	require.NoError(t, err)

	later := testNow.Add(time.Minute)
	state = FinalizeTransaction(state, 1, "0x1", types.TxStatusSuccess, nil, later)
	tx, _ := state.Get(1, "0x1")
	assert.Equal(t, types.TxStatusSuccess, tx.Status)
	require.NotNil(t, tx.ConfirmedTime)
	assert.True(t, tx.ConfirmedTime.Equal(later))
	assert.Equal(t, swapDetails().Info, tx.Info)

	receiptInfo := types.SwapInfo{InputCurrencyID: "1-0x1", OutputCurrencyID: "1-0x2", OutputCurrencyAmountRaw: "42"}
	state = FinalizeTransaction(state, 1, "0x1", types.TxStatusSuccess, receiptInfo, later)
	tx, _ = state.Get(1, "0x1")
	assert.Equal(t, receiptInfo, tx.Info)

	unchanged := FinalizeTransaction(state, 1, "0xmissing", types.TxStatusFailed, nil, later)
	assert.Equal(t, state, unchanged)
}

func TestConfirmBridgeDeposit(t *testing.T) {
	bridge := swapDetails()
	bridge.Info = types.BridgeInfo{InputCurrencyID: "1-0x1", OutputCurrencyID: "42161-0x2"}
	state, err := AddTransaction(TransactionState{}, 1, "0xb", bridge, testNow)
	require.NoError(t, err)
	state, err = AddTransaction(state, 1, "0xs", swapDetails(), testNow)
	require.NoError(t, err)

	state = ConfirmBridgeDeposit(state, 1, "0xb")
	tx, _ := state.Get(1, "0xb")
	assert.Equal(t, types.TxStatusPending, tx.Status)
	assert.Nil(t, tx.ConfirmedTime)
	assert.True(t, tx.Info.(types.BridgeInfo).DepositConfirmed)

	swap, _ := state.Get(1, "0xs")
	next := ConfirmBridgeDeposit(state, 1, "0xs")
	swapAfter, _ := next.Get(1, "0xs")
	assert.Equal(t, swap, swapAfter)
}

func TestUpdateTransactionInfo(t *testing.T) {
	state, err := AddTransaction(TransactionState{}, 1, "0x1", swapDetails(), testNow)
	require.NoError(t, err)

	state = UpdateTransactionInfo(state, 1, "0x1", types.WrapInfo{Unwrapped: true})
	tx, _ := state.Get(1, "0x1")
	assert.Equal(t, swapDetails().Info, tx.Info)

	newInfo := types.SwapInfo{InputCurrencyID: "1-0x1", OutputCurrencyID: "1-0x3"}
	state = UpdateTransactionInfo(state, 1, "0x1", newInfo)
	tx, _ = state.Get(1, "0x1")
	assert.Equal(t, newInfo, tx.Info)
}

func TestCheckedTransaction(t *testing.T) {
	state, err := AddTransaction(TransactionState{}, 1, "0x1", swapDetails(), testNow)
	require.NoError(t, err)

	state = CheckedTransaction(state, 1, "0x1", 100)
	state = CheckedTransaction(state, 1, "0x1", 90)
	tx, _ := state.Get(1, "0x1")
	assert.Equal(t, uint64(100), tx.LastCheckedBlockNumber)

	state = FinalizeTransaction(state, 1, "0x1", types.TxStatusFailed, nil, testNow)
	state = CheckedTransaction(state, 1, "0x1", 200)
	tx, _ = state.Get(1, "0x1")
	assert.Equal(t, uint64(100), tx.LastCheckedBlockNumber)
}

func TestApplyTransactionHashToBatch(t *testing.T) {
	details := swapDetails()
	details.BatchInfo = &types.BatchInfo{BatchID: "batch-1", ChainID: 1}
	state, err := AddTransaction(TransactionState{}, 1, "batch-1", details, testNow)
	require.NoError(t, err)
	before, _ := state.Get(1, "batch-1")

	state = ApplyTransactionHashToBatch(state, "batch-1", "0x1", 1)
	_, found := state.Get(1, "batch-1")
	assert.False(t, found)
	tx, found := state.Get(1, "0x1")
	require.True(t, found)
	assert.Equal(t, "0x1", tx.Hash)
	before.Hash = "0x1"
	assert.Equal(t, before, tx)

	// applying again is a no-op since the batch key is gone
	assert.Equal(t, state, ApplyTransactionHashToBatch(state, "batch-1", "0x2", 1))
}

func TestNoDuplicateKeys(t *testing.T) {
	type step struct {
		add     string
		batchID string
		hash    string
	}
	steps := []step{
		{add: "batch-1"},
		{add: "batch-2"},
		{batchID: "batch-1", hash: "0x1"},
		{add: "0x1"},
		{batchID: "batch-2", hash: "0x2"},
		{batchID: "batch-2", hash: "0x3"},
		{add: "0x2"},
	}

	state := TransactionState{}
	resolved := map[string]string{}
	for _, st := range steps {
		if st.add != "" {
			next, err := AddTransaction(state, 1, st.add, swapDetails(), testNow)
			if err != nil {
				assert.ErrorIs(t, err, ErrTransactionExists)
				continue
			}
			state = next
			continue
		}
		state = ApplyTransactionHashToBatch(state, st.batchID, st.hash, 1)
		if _, found := state.Get(1, st.hash); found {
			resolved[st.batchID] = st.hash
		}

		for batchID, hash := range resolved {
			_, batchFound := state.Get(1, batchID)
			_, hashFound := state.Get(1, hash)
			assert.False(t, batchFound && hashFound, "batch %s and hash %s both present", batchID, hash)
		}
	}

	hashes := map[string]int{}
	for _, tx := range state[1] {
		hashes[tx.Hash]++
	}
	for hash, n := range hashes {
		assert.Equal(t, 1, n, "hash %s", hash)
	}
	assert.Equal(t, 2, state.Len())
}

func TestCancelTransaction(t *testing.T) {
	state, err := AddTransaction(TransactionState{}, 1, "0xabc", swapDetails(), testNow)
	require.NoError(t, err)
	original, _ := state.Get(1, "0xabc")

	state = CancelTransaction(state, 1, "0xabc", "0xdef")
	_, found := state.Get(1, "0xabc")
	assert.False(t, found)

	cancelled, found := state.Get(1, "0xdef")
	require.True(t, found)
	assert.True(t, cancelled.Cancelled)
	assert.Equal(t, "0xdef", cancelled.Hash)

	original.Hash = "0xdef"
	original.Cancelled = true
	assert.Equal(t, original, cancelled)

	assert.Equal(t, state, CancelTransaction(state, 1, "0xabc", "0x123"))
}

func TestRemoveTransactions(t *testing.T) {
	state, err := AddTransaction(TransactionState{}, 1, "0x1", swapDetails(), testNow)
	require.NoError(t, err)
	details := swapDetails()
	details.ID = "tracking-id"
	state, err = AddTransaction(state, 1, "0x2", details, testNow)
	require.NoError(t, err)
	state, err = AddTransaction(state, 10, "0x3", swapDetails(), testNow)
	require.NoError(t, err)

	state = RemoveTransactionByID(state, 1, "tracking-id")
	_, found := state.Get(1, "0x2")
	assert.False(t, found)
	assert.Equal(t, state, RemoveTransactionByID(state, 1, "unknown-id"))

	state = RemoveTransaction(state, 1, "0x1")
	assert.Empty(t, state[1])

	state = ClearAllTransactions(state, 10)
	assert.Equal(t, 0, state.Len())
}
