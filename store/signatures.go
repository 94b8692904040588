package store

import (
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

// SignatureState maps order hash to the signed order, with the same
// copy-on-write rules as TransactionState
type SignatureState map[string]types.SignatureRecord

func (s SignatureState) clone() SignatureState {
	next := make(SignatureState, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	return next
}

// AddSignature tracks a new signed order
func AddSignature(s SignatureState, sig types.SignatureRecord) SignatureState {
	next := s.clone()
	next[sig.OrderHash] = sig
	return next
}

// UpdateSignature writes the order, inserting it when it was not tracked yet
func UpdateSignature(s SignatureState, sig types.SignatureRecord) SignatureState {
	next := s.clone()
	next[sig.OrderHash] = sig
	return next
}

// RemoveSignature stops tracking an order
func RemoveSignature(s SignatureState, orderHash string) SignatureState {
	if _, found := s[orderHash]; !found {
		return s
	}
	next := s.clone()
	delete(next, orderHash)
	return next
}
