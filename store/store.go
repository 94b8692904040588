package store

import (
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

// Store holds the current transaction and signature snapshots. Every write
// goes through a reducer under the write lock, readers get the snapshot
// that was current when they asked.
type Store struct {
	mu        sync.RWMutex
	txs       TransactionState
	sigs      SignatureState
	persister persisterInterface
	now       func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for added and confirmed timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPersister hands every new snapshot to p
func WithPersister(p persisterInterface) Option {
	return func(s *Store) { s.persister = p }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		txs:  TransactionState{},
		sigs: SignatureState{},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the snapshots, used once after rehydration
func (s *Store) Load(txs TransactionState, sigs SignatureState) {
	if txs == nil {
		txs = TransactionState{}
	}
	if sigs == nil {
		sigs = SignatureState{}
	}
	s.mu.Lock()
	s.txs, s.sigs = txs, sigs
	s.mu.Unlock()
}

func (s *Store) updateTransactions(reducer func(TransactionState) (TransactionState, error)) error {
	s.mu.Lock()
	next, err := reducer(s.txs)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.txs = next
	s.persist()
	s.mu.Unlock()
	return nil
}

func (s *Store) updateSignatures(reducer func(SignatureState) SignatureState) {
	s.mu.Lock()
	s.sigs = reducer(s.sigs)
	s.persist()
	s.mu.Unlock()
}

// persist runs under the write lock so snapshots reach the persister in
// commit order
func (s *Store) persist() {
	if s.persister != nil {
		s.persister.Persist(s.txs, s.sigs)
	}
}

func (s *Store) AddTransaction(chainID types.ChainID, hash string, details types.TransactionDetails) error {
	err := s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return AddTransaction(txs, chainID, hash, details, s.now())
	})
	if err != nil {
		log.Errorf("error adding transaction %s on chain %d: %v", hash, chainID, err)
	}
	return err
}

func (s *Store) AddReplacementTransaction(tx types.TransactionRecord) error {
	return s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return AddReplacementTransaction(txs, tx)
	})
}

func (s *Store) FinalizeTransaction(chainID types.ChainID, hash string, status types.TransactionStatus, info types.TransactionInfo) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return FinalizeTransaction(txs, chainID, hash, status, info, s.now()), nil
	})
}

func (s *Store) ConfirmBridgeDeposit(chainID types.ChainID, hash string) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return ConfirmBridgeDeposit(txs, chainID, hash), nil
	})
}

func (s *Store) UpdateTransactionInfo(chainID types.ChainID, hash string, info types.TransactionInfo) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return UpdateTransactionInfo(txs, chainID, hash, info), nil
	})
}

func (s *Store) CheckedTransaction(chainID types.ChainID, hash string, blockNumber uint64) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return CheckedTransaction(txs, chainID, hash, blockNumber), nil
	})
}

func (s *Store) ApplyTransactionHashToBatch(batchID, hash string, chainID types.ChainID) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return ApplyTransactionHashToBatch(txs, batchID, hash, chainID), nil
	})
}

func (s *Store) CancelTransaction(chainID types.ChainID, hash, cancelHash string) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return CancelTransaction(txs, chainID, hash, cancelHash), nil
	})
}

func (s *Store) RemoveTransaction(chainID types.ChainID, hash string) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return RemoveTransaction(txs, chainID, hash), nil
	})
}

func (s *Store) RemoveTransactionByID(chainID types.ChainID, id string) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return RemoveTransactionByID(txs, chainID, id), nil
	})
}

func (s *Store) ClearAllTransactions(chainID types.ChainID) {
	_ = s.updateTransactions(func(txs TransactionState) (TransactionState, error) {
		return ClearAllTransactions(txs, chainID), nil
	})
}

func (s *Store) AddSignature(sig types.SignatureRecord) {
	if sig.AddedTime.IsZero() {
		sig.AddedTime = types.NewTimestamp(s.now())
	}
	s.updateSignatures(func(sigs SignatureState) SignatureState {
		return AddSignature(sigs, sig)
	})
}

func (s *Store) UpdateSignature(sig types.SignatureRecord) {
	s.updateSignatures(func(sigs SignatureState) SignatureState {
		return UpdateSignature(sigs, sig)
	})
}

func (s *Store) RemoveSignature(orderHash string) {
	s.updateSignatures(func(sigs SignatureState) SignatureState {
		return RemoveSignature(sigs, orderHash)
	})
}

// Transactions returns the current transaction snapshot, it must not be modified
func (s *Store) Transactions() TransactionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.txs
}

func (s *Store) Transaction(chainID types.ChainID, hash string) (types.TransactionRecord, bool) {
	return s.Transactions().Get(chainID, hash)
}

// PendingTransactions returns the records still waiting to be mined, optionally filtered by chain
func (s *Store) PendingTransactions(chainIDs ...types.ChainID) []types.TransactionRecord {
	txs := s.Transactions()
	filter := map[types.ChainID]bool{}
	for _, chainID := range chainIDs {
		filter[chainID] = true
	}

	var pending []types.TransactionRecord
	for chainID, chainTxs := range txs {
		if len(filter) > 0 && !filter[chainID] {
			continue
		}
		for _, tx := range chainTxs {
			if tx.Status.IsPending() {
				pending = append(pending, tx)
			}
		}
	}
	return pending
}

// Signatures returns the current signature snapshot, it must not be modified
func (s *Store) Signatures() SignatureState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sigs
}

func (s *Store) Signature(orderHash string) (types.SignatureRecord, bool) {
	sig, found := s.Signatures()[orderHash]
	return sig, found
}

// OpenSignatures returns the orders that can still change status
func (s *Store) OpenSignatures() []types.SignatureRecord {
	var open []types.SignatureRecord
	for _, sig := range s.Signatures() {
		if sig.Status == types.OrderStatusOpen {
			open = append(open, sig)
		}
	}
	return open
}
