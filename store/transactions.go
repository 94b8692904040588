package store

import (
	"fmt"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

// TransactionState maps chain and hash to the tracked transaction. A state
// value is never modified, reducers return a new state sharing the chains
// they did not touch.
type TransactionState map[types.ChainID]map[string]types.TransactionRecord

// Get returns the record at (chainID, hash)
func (s TransactionState) Get(chainID types.ChainID, hash string) (types.TransactionRecord, bool) {
	tx, ok := s[chainID][hash]
	return tx, ok
}

// Len returns the number of records across all chains
func (s TransactionState) Len() int {
	n := 0
	for _, txs := range s {
		n += len(txs)
	}
	return n
}

// withChain copies the state and the chain map so the caller can write into the latter
func (s TransactionState) withChain(chainID types.ChainID) (TransactionState, map[string]types.TransactionRecord) {
	next := make(TransactionState, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	txs := make(map[string]types.TransactionRecord, len(s[chainID])+1)
	for k, v := range s[chainID] {
		txs[k] = v
	}
	next[chainID] = txs
	return next, txs
}

// AddTransaction tracks a new pending transaction. Adding a hash already
// present is a caller bug and fails with ErrTransactionExists.
func AddTransaction(s TransactionState, chainID types.ChainID, hash string, details types.TransactionDetails, now time.Time) (TransactionState, error) {
	if _, found := s.Get(chainID, hash); found {
		return s, fmt.Errorf("%w: chain %d hash %s", ErrTransactionExists, chainID, hash)
	}
	id := details.ID
	if id == "" {
		id = hash
	}
	next, txs := s.withChain(chainID)
	txs[hash] = types.TransactionRecord{
		ID:                    id,
		ChainID:               chainID,
		Hash:                  hash,
		Status:                types.TxStatusPending,
		From:                  details.From,
		Nonce:                 details.Nonce,
		AddedTime:             types.NewTimestamp(now),
		Info:                  details.Info,
		BatchInfo:             details.BatchInfo,
		TransactionOriginType: details.TransactionOriginType,
		Options:               details.Options,
	}
	return next, nil
}

// AddReplacementTransaction tracks a fully built record, used for speed ups and cancellations
func AddReplacementTransaction(s TransactionState, tx types.TransactionRecord) (TransactionState, error) {
	if _, found := s.Get(tx.ChainID, tx.Hash); found {
		return s, fmt.Errorf("%w: chain %d hash %s", ErrTransactionExists, tx.ChainID, tx.Hash)
	}
	next, txs := s.withChain(tx.ChainID)
	txs[tx.Hash] = tx
	return next, nil
}

// FinalizeTransaction moves a transaction to a terminal status. The info
// payload is replaced only when a new one is provided.
func FinalizeTransaction(s TransactionState, chainID types.ChainID, hash string, status types.TransactionStatus, info types.TransactionInfo, now time.Time) TransactionState {
	tx, found := s.Get(chainID, hash)
	if !found {
		return s
	}
	confirmed := types.NewTimestamp(now)
	tx.Status = status
	tx.ConfirmedTime = &confirmed
	if info != nil {
		tx.Info = info
	}
	next, txs := s.withChain(chainID)
	txs[hash] = tx
	return next
}

// ConfirmBridgeDeposit marks the source leg of a bridge as settled, status is left untouched
func ConfirmBridgeDeposit(s TransactionState, chainID types.ChainID, hash string) TransactionState {
	tx, found := s.Get(chainID, hash)
	if !found {
		return s
	}
	bridge, ok := tx.Info.(types.BridgeInfo)
	if !ok {
		return s
	}
	bridge.DepositConfirmed = true
	tx.Info = bridge
	next, txs := s.withChain(chainID)
	txs[hash] = tx
	return next
}

// UpdateTransactionInfo replaces the payload when it keeps the same type
func UpdateTransactionInfo(s TransactionState, chainID types.ChainID, hash string, info types.TransactionInfo) TransactionState {
	tx, found := s.Get(chainID, hash)
	if !found || info == nil || types.InfoType(tx.Info) != info.Type() {
		return s
	}
	tx.Info = info
	next, txs := s.withChain(chainID)
	txs[hash] = tx
	return next
}

// CheckedTransaction records the latest block at which a pending transaction was looked up
func CheckedTransaction(s TransactionState, chainID types.ChainID, hash string, blockNumber uint64) TransactionState {
	tx, found := s.Get(chainID, hash)
	if !found || !tx.Status.IsPending() || tx.LastCheckedBlockNumber >= blockNumber {
		return s
	}
	tx.LastCheckedBlockNumber = blockNumber
	next, txs := s.withChain(chainID)
	txs[hash] = tx
	return next
}

// ApplyTransactionHashToBatch re-keys a batched transaction from its batch id to its hash
func ApplyTransactionHashToBatch(s TransactionState, batchID, hash string, chainID types.ChainID) TransactionState {
	tx, found := s.Get(chainID, batchID)
	if !found {
		return s
	}
	tx.Hash = hash
	next, txs := s.withChain(chainID)
	delete(txs, batchID)
	txs[hash] = tx
	return next
}

// CancelTransaction moves the record to the hash of its cancellation and flags it as cancelled
func CancelTransaction(s TransactionState, chainID types.ChainID, hash, cancelHash string) TransactionState {
	tx, found := s.Get(chainID, hash)
	if !found {
		return s
	}
	tx.Hash = cancelHash
	tx.Cancelled = true
	next, txs := s.withChain(chainID)
	delete(txs, hash)
	txs[cancelHash] = tx
	return next
}

// RemoveTransaction stops tracking (chainID, hash)
func RemoveTransaction(s TransactionState, chainID types.ChainID, hash string) TransactionState {
	if _, found := s.Get(chainID, hash); !found {
		return s
	}
	next, txs := s.withChain(chainID)
	delete(txs, hash)
	return next
}

// RemoveTransactionByID stops tracking every record of the chain carrying id
func RemoveTransactionByID(s TransactionState, chainID types.ChainID, id string) TransactionState {
	var hashes []string
	for hash, tx := range s[chainID] {
		if tx.ID == id {
			hashes = append(hashes, hash)
		}
	}
	if len(hashes) == 0 {
		return s
	}
	next, txs := s.withChain(chainID)
	for _, hash := range hashes {
		delete(txs, hash)
	}
	return next
}

// ClearAllTransactions drops every record of a chain
func ClearAllTransactions(s TransactionState, chainID types.ChainID) TransactionState {
	if _, found := s[chainID]; !found {
		return s
	}
	next := make(TransactionState, len(s))
	for k, v := range s {
		if k != chainID {
			next[k] = v
		}
	}
	return next
}
