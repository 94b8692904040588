package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRecordJSON(t *testing.T) {
	nonce := uint64(0)
	added := NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	record := TransactionRecord{
		ID:        "0xabc",
		ChainID:   137,
		Hash:      "0xabc",
		Status:    TxStatusPending,
		From:      common.HexToAddress("0x456"),
		Nonce:     &nonce,
		AddedTime: added,
		Info: BridgeInfo{
			InputCurrencyID:  "1-0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			OutputCurrencyID: "137-0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
			DepositConfirmed: true,
		},
	}

	b, err := json.Marshal(record)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &fields))
	info := fields["info"].(map[string]interface{})
	assert.Equal(t, "bridge", info["type"])
	assert.Equal(t, float64(added.UnixMilli()), fields["addedTime"])

	var decoded TransactionRecord
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, record.Info, decoded.Info)
	assert.Equal(t, record.From, decoded.From)
	require.NotNil(t, decoded.Nonce)
	assert.Equal(t, uint64(0), *decoded.Nonce)
	assert.True(t, added.Equal(decoded.AddedTime.Time))
}

func TestUnmarshalTransactionInfo(t *testing.T) {
	type testCase struct {
		Name          string
		Input         string
		Expected      TransactionInfo
		ExpectedError bool
	}

	testCases := []testCase{
		{Name: "null", Input: `null`, Expected: nil},
		{Name: "swap", Input: `{"type":"swap","inputCurrencyId":"1-0x1","outputCurrencyId":"1-0x2"}`, Expected: SwapInfo{InputCurrencyID: "1-0x1", OutputCurrencyID: "1-0x2"}},
		{Name: "approve", Input: `{"type":"approve","tokenAddress":"0x1","spender":"0x2"}`, Expected: ApproveInfo{TokenAddress: "0x1", Spender: "0x2"}},
		{Name: "missing type", Input: `{"dappName":"app"}`, Expected: UnknownInfo{DappName: "app"}},
		{Name: "unknown type", Input: `{"type":"teleport"}`, ExpectedError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			info, err := UnmarshalTransactionInfo([]byte(tc.Input))
			if tc.ExpectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, info)
		})
	}
}

func TestTransactionStatusUnmarshal(t *testing.T) {
	var s TransactionStatus
	require.NoError(t, json.Unmarshal([]byte(`"Confirmed"`), &s))
	assert.Equal(t, TxStatusSuccess, s)
	require.NoError(t, json.Unmarshal([]byte(`"Cancelling"`), &s))
	assert.Equal(t, TxStatusCancelling, s)
	assert.True(t, s.IsPending())
	assert.Error(t, json.Unmarshal([]byte(`"Mined"`), &s))
}

func TestCurrencyIDToChain(t *testing.T) {
	chainID, ok := CurrencyIDToChain("42161-0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	assert.True(t, ok)
	assert.Equal(t, ChainID(42161), chainID)

	_, ok = CurrencyIDToChain("ETH")
	assert.False(t, ok)
	_, ok = CurrencyIDToChain("abc-0x1")
	assert.False(t, ok)
}

func TestTransactionRequestMerge(t *testing.T) {
	to := common.HexToAddress("0x1")
	nonce := hexutil.Uint64(7)
	base := TransactionRequest{From: to, To: &to, Nonce: &nonce, Value: (*hexutil.Big)(hexutil.MustDecodeBig("0x10"))}
	fee := (*hexutil.Big)(hexutil.MustDecodeBig("0x3b9aca00"))

	merged := base.Merge(TransactionRequest{MaxFeePerGas: fee})
	assert.True(t, merged.IsSelfSend())
	assert.True(t, merged.IsDynamicFee())
	n, ok := merged.NonceValue()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), n)

	// base is not modified
	assert.Nil(t, base.MaxFeePerGas)
	merged.Value.ToInt().SetInt64(0)
	assert.Equal(t, int64(16), base.Value.ToInt().Int64())
}

func TestSignatureUpdateApply(t *testing.T) {
	original := SignatureRecord{OrderHash: "0xaaa", Status: OrderStatusOpen}
	updated := SignatureUpdate{Status: OrderStatusFilled, TxHash: "0x999"}.Apply(original)
	assert.Equal(t, OrderStatusFilled, updated.Status)
	assert.Equal(t, "0x999", updated.TxHash)
	assert.Equal(t, OrderStatusOpen, original.Status)
}
