package types

// ActivityUpdate is an externally observed change for a tracked transaction
// or signed order. Implementations are TransactionActivity and SignatureActivity.
type ActivityUpdate interface {
	Chain() ChainID
	isActivityUpdate()
}

// TransactionUpdate is the newly observed truth for an on-chain transaction
type TransactionUpdate struct {
	// Hash is set when the hash of a batched transaction becomes known
	Hash   string
	Status TransactionStatus
	// Info, when set, replaces the stored payload on finalization
	Info TransactionInfo
}

// TransactionActivity is an update for a TransactionRecord
type TransactionActivity struct {
	ChainID  ChainID
	Original TransactionRecord
	Update   TransactionUpdate
}

// SignatureActivity is an update for a SignatureRecord
type SignatureActivity struct {
	ChainID  ChainID
	Original SignatureRecord
	Update   SignatureUpdate
}

// Chain implements ActivityUpdate
func (a TransactionActivity) Chain() ChainID { return a.ChainID }

// Chain implements ActivityUpdate
func (a SignatureActivity) Chain() ChainID { return a.ChainID }

func (TransactionActivity) isActivityUpdate() {}
func (SignatureActivity) isActivityUpdate()   {}
