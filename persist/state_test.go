package persist

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/migrations"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/store"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyDocument = `{
	"_persist": {"version": 11, "rehydrated": true},
	"transactions": {
		"1": {
			"0xabc": {
				"hash": "0xabc",
				"from": "0x0000000000000000000000000000000000000456",
				"addedTime": 1714557600000,
				"info": {"type": "swap", "inputCurrencyId": "1-0x1", "outputCurrencyId": "1-0x2"},
				"receipt": {"status": 1, "blockNumber": 100}
			},
			"0xdef": {
				"hash": "0xdef",
				"from": "0x0000000000000000000000000000000000000456",
				"addedTime": 1714557600000,
				"info": {"type": "approve", "tokenAddress": "0x1", "spender": "0x2"}
			}
		}
	}
}`

func TestRehydrateLegacyDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/state.json", []byte(legacyDocument), 0o600))
	storage := NewFileStorage(fs, "/data/state.json")

	state, err := Rehydrate(context.Background(), storage, migrations.NewMigrator())
	require.NoError(t, err)
	assert.Equal(t, migrations.CurrentVersion, state.Persist.Version)
	assert.True(t, state.Persist.Rehydrated)

	confirmed, found := state.Transactions.Get(1, "0xabc")
	require.True(t, found)
	assert.Equal(t, types.TxStatusSuccess, confirmed.Status)
	assert.Equal(t, "0xabc", confirmed.ID)
	assert.Equal(t, types.ChainID(1), confirmed.ChainID)
	assert.Equal(t, types.SwapInfo{InputCurrencyID: "1-0x1", OutputCurrencyID: "1-0x2"}, confirmed.Info)

	pending, found := state.Transactions.Get(1, "0xdef")
	require.True(t, found)
	assert.Equal(t, types.TxStatusPending, pending.Status)
	assert.Equal(t, types.ChainID(1), pending.ChainID)
	assert.NotNil(t, state.Signatures)

	// records are reachable by their own chain once loaded
	s := store.NewStore()
	s.Load(state.Transactions, state.Signatures)
	for _, tx := range s.PendingTransactions() {
		_, found := s.Transaction(tx.ChainID, tx.Hash)
		assert.True(t, found, tx.Hash)
	}
}

func TestRehydrateEmptyStorage(t *testing.T) {
	storage := NewFileStorage(afero.NewMemMapFs(), "/data/state.json")
	state, err := Rehydrate(context.Background(), storage, migrations.NewMigrator())
	require.NoError(t, err)
	assert.Equal(t, 0, state.Transactions.Len())
	assert.Empty(t, state.Signatures)
}

func TestSaverRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	storage := NewFileStorage(fs, "/data/state.json")
	saver := NewSaver(storage, migrations.CurrentVersion)
	s := store.NewStore(store.WithPersister(saver))

	require.NoError(t, s.AddTransaction(1, "0x1", types.TransactionDetails{Info: types.WrapInfo{}}))
	s.AddSignature(types.SignatureRecord{OrderHash: "0xaaa", Status: types.OrderStatusOpen})
	require.NoError(t, saver.Flush(context.Background()))

	exists, err := afero.Exists(fs, "/data/state.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	raw, err := storage.Load(context.Background())
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, float64(migrations.CurrentVersion), doc["_persist"].(map[string]interface{})["version"])

	state, err := Rehydrate(context.Background(), storage, migrations.NewMigrator())
	require.NoError(t, err)
	tx, found := state.Transactions.Get(1, "0x1")
	require.True(t, found)
	assert.Equal(t, types.WrapInfo{}, tx.Info)
	assert.Contains(t, state.Signatures, "0xaaa")

	// nothing pending, nothing written
	require.NoError(t, saver.Flush(context.Background()))
}
