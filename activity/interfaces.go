package activity

import (
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

type storeInterface interface {
	AddTransaction(chainID types.ChainID, hash string, details types.TransactionDetails) error
	FinalizeTransaction(chainID types.ChainID, hash string, status types.TransactionStatus, info types.TransactionInfo)
	ConfirmBridgeDeposit(chainID types.ChainID, hash string)
	ApplyTransactionHashToBatch(batchID, hash string, chainID types.ChainID)
	UpdateSignature(sig types.SignatureRecord)
}

type popupsInterface interface {
	AddPopup(content notification.PopupContent, key string, dismissAfter time.Duration)
}

type chainsInterface interface {
	IsL2(chainID types.ChainID) bool
}
