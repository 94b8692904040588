package analytics

import (
	"testing"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapFinalizedEvent(t *testing.T) {
	e := SwapFinalized{
		Hash:       "mockHash",
		ChainInID:  1,
		ChainOutID: 1,
		Status:     types.TxStatusSuccess,
		Type:       types.TransactionTypeSwap,
		TimeToSwap: 100 * time.Millisecond,
	}.Event()

	assert.Equal(t, EventSwapTransactionCompleted, e.Name)
	assert.Equal(t, map[string]interface{}{
		"transactionOriginType": "internal",
		"routing":               "classic",
		"time_to_swap":          int64(100),
		"hash":                  "mockHash",
		"chain_id":              uint64(1),
		"chain_id_in":           uint64(1),
		"chain_id_out":          uint64(1),
	}, e.Properties)

	failed := SwapFinalized{Hash: "0x1", BatchID: "b", ChainInID: 1, ChainOutID: 42161, Status: types.TxStatusFailed, Type: types.TransactionTypeBridge}.Event()
	assert.Equal(t, EventSwapTransactionFailed, failed.Name)
	assert.Equal(t, "bridge", failed.Properties["routing"])
	assert.Equal(t, "b", failed.Properties["batch_id"])
	assert.Equal(t, uint64(42161), failed.Properties["chain_id_out"])
}

func TestOrderSwapFinalizedEvent(t *testing.T) {
	e := OrderSwapFinalized{
		Hash:          "mockHash",
		OrderHash:     "mockOrderHash",
		ChainID:       1,
		SignatureType: types.SignatureTypeUniswapXV2Order,
		Status:        types.OrderStatusFilled,
		TimeToSwap:    100 * time.Millisecond,
	}.Event()

	assert.Equal(t, EventSwapTransactionCompleted, e.Name)
	assert.Equal(t, map[string]interface{}{
		"transactionOriginType": "internal",
		"routing":               "uniswap_x_v2",
		"time_to_swap":          int64(100),
		"hash":                  "mockHash",
		"order_hash":            "mockOrderHash",
		"chain_id":              uint64(1),
	}, e.Properties)

	expired := OrderSwapFinalized{OrderHash: "0xaaa", ChainID: 1, SignatureType: types.SignatureTypePriorityOrder, Status: types.OrderStatusExpired}.Event()
	assert.Equal(t, EventSwapTransactionFailed, expired.Name)
	assert.Equal(t, "uniswap_x_priority", expired.Properties["routing"])
	assert.Equal(t, "expired", expired.Properties["status"])
	assert.NotContains(t, expired.Properties, "hash")
}

func TestCancelSubmittedEvent(t *testing.T) {
	e := CancelSubmitted{OriginalHash: "0xabc", ReplacementHash: "0xdef", ChainID: 10, Nonce: 4}.Event()
	assert.Equal(t, EventCancelSubmitted, e.Name)
	assert.Equal(t, "0xabc", e.Properties["original_transaction_hash"])
	assert.Equal(t, "0xdef", e.Properties["replacement_transaction_hash"])
	assert.Equal(t, uint64(10), e.Properties["chain_id"])
	assert.Equal(t, uint64(4), e.Properties["nonce"])
}

func TestSinks(t *testing.T) {
	recorder := NewRecorder(2)
	sink := MultiSink{recorder, PrometheusSink{}, NewLogSink()}
	for _, name := range []string{"a", "b", "c"} {
		sink.Send(Event{Name: name, Properties: map[string]interface{}{"routing": "classic"}})
	}
	events := recorder.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, "b", events[0].Name)
	assert.Equal(t, "c", events[1].Name)
}

func TestNewSink(t *testing.T) {
	sink, recorder := NewSink(Config{RecorderSize: 1})
	require.NotNil(t, recorder)

	sink.Send(Event{Name: "first"})
	sink.Send(Event{Name: "second"})
	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "second", events[0].Name)

	_, recorder = NewSink(Config{LogEvents: true})
	assert.Nil(t, recorder)
}
