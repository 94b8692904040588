package store

// persisterInterface receives every committed snapshot while the store write
// lock is held, Persist must not block nor call back into the store
type persisterInterface interface {
	Persist(txs TransactionState, sigs SignatureState)
}
