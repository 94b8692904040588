package server

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/replacer"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/store"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

type storeInterface interface {
	AddTransaction(chainID types.ChainID, hash string, details types.TransactionDetails) error
	Transaction(chainID types.ChainID, hash string) (types.TransactionRecord, bool)
	Transactions() store.TransactionState
	CancelTransaction(chainID types.ChainID, hash, cancelHash string)
	RemoveTransaction(chainID types.ChainID, hash string)
	ClearAllTransactions(chainID types.ChainID)
	AddSignature(sig types.SignatureRecord)
	Signatures() store.SignatureState
}

type replacerInterface interface {
	SpeedUp(ctx context.Context, original types.TransactionRecord, fees replacer.Fees) error
	Cancel(ctx context.Context, original types.TransactionRecord, fees replacer.Fees) error
}

type popupsInterface interface {
	Popups() []notification.Popup
}

type notifierInterface interface {
	Notifications() []notification.AppNotification
	Dismiss(id string)
}
