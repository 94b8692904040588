package monitor

import (
	"testing"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestListDelete(t *testing.T) {
	el := newMonitorRequestList()

	now := time.Now()
	past := now.Add(-time.Minute * 5)
	future := now.Add(time.Minute * 5)

	el.add(&monitorRequest{chainID: 1, hash: "0x01", nextRetry: now})
	el.add(&monitorRequest{chainID: 1, hash: "0x02", nextRetry: now})
	el.add(&monitorRequest{chainID: 1, hash: "0x03", nextRetry: past})
	el.add(&monitorRequest{chainID: 10, hash: "0x03", nextRetry: past})
	el.add(&monitorRequest{chainID: 1, hash: "0x05", nextRetry: future})

	assert.False(t, el.add(&monitorRequest{chainID: 1, hash: "0x05", nextRetry: past}))
	require.Equal(t, []string{"1:0x03", "10:0x03", "1:0x01", "1:0x02", "1:0x05"}, el.keys())

	testCases := []struct {
		Name    string
		ChainID uint64
		Hash    string
	}{
		{Name: "middle of same retry time", ChainID: 1, Hash: "0x01"},
		{Name: "same hash on other chain", ChainID: 10, Hash: "0x03"},
		{Name: "last", ChainID: 1, Hash: "0x05"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			count := el.len()
			req := &monitorRequest{chainID: types.ChainID(tc.ChainID), hash: tc.Hash}
			require.True(t, el.delete(req))
			assert.NotContains(t, el.keys(), req.key())
			assert.Equal(t, count-1, el.len())
		})
	}

	assert.False(t, el.delete(&monitorRequest{chainID: 1, hash: "0x05"}), "0x05 req was deleted and should not exist in the list")

	first, found := el.first()
	require.True(t, found)
	assert.Equal(t, "1:0x03", first.key())
}
