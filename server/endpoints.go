package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"sort"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/hex"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/replacer"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/store"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
)

// Endpoints contains implementations for the activity endpoints
type Endpoints struct {
	cfg      Config
	store    storeInterface
	replacer replacerInterface
	popups   popupsInterface
	notifier notifierInterface
}

// NewEndpoints creates an new instance of endpoints
func NewEndpoints(cfg Config, store storeInterface, replacer replacerInterface, popups popupsInterface, notifier notifierInterface) *Endpoints {
	return &Endpoints{cfg: cfg, store: store, replacer: replacer, popups: popups, notifier: notifier}
}

// AddTransaction starts tracking a submitted transaction
func (e *Endpoints) AddTransaction(args TransactionArgs) (interface{}, Error) {
	if args.Hash == "" || args.ChainID == 0 {
		return RPCErrorResponse(InvalidParamsErrorCode, "chainId and hash are required", nil, false)
	}
	info, err := types.UnmarshalTransactionInfo(args.Info)
	if err != nil {
		return RPCErrorResponse(InvalidParamsErrorCode, "invalid transaction info", err, true)
	}

	details := types.TransactionDetails{
		From:                  args.From,
		Info:                  info,
		BatchInfo:             args.BatchInfo,
		Options:               args.Options,
		TransactionOriginType: args.TransactionOriginType,
	}
	if args.Nonce != nil {
		nonce := uint64(*args.Nonce)
		details.Nonce = &nonce
	}
	return e.addTransaction(args.ChainID, args.Hash, details)
}

// TrackRawTransaction starts tracking a signed transaction given as hex
func (e *Endpoints) TrackRawTransaction(chainID types.ChainID, input string, info json.RawMessage) (interface{}, Error) {
	tx, err := hexToTx(input)
	if err != nil {
		return RPCErrorResponse(InvalidParamsErrorCode, "invalid tx input", err, false)
	}
	if tx.ChainId().Sign() != 0 && tx.ChainId().Uint64() != uint64(chainID) {
		return RPCErrorResponse(InvalidParamsErrorCode, "tx chain id does not match", nil, false)
	}
	from, err := ethTypes.Sender(ethTypes.LatestSignerForChainID(new(big.Int).SetUint64(uint64(chainID))), tx)
	if err != nil {
		return RPCErrorResponse(InvalidParamsErrorCode, "invalid tx signature", err, false)
	}
	txInfo, err := types.UnmarshalTransactionInfo(info)
	if err != nil {
		return RPCErrorResponse(InvalidParamsErrorCode, "invalid transaction info", err, true)
	}

	nonce := tx.Nonce()
	n, gas := hexutil.Uint64(nonce), hexutil.Uint64(tx.Gas())
	request := &types.TransactionRequest{
		From:     from,
		To:       tx.To(),
		Nonce:    &n,
		GasLimit: &gas,
		Value:    (*hexutil.Big)(tx.Value()),
		Data:     tx.Data(),
		ChainID:  chainID,
	}
	if tx.Type() == ethTypes.LegacyTxType || tx.Type() == ethTypes.AccessListTxType {
		request.GasPrice = (*hexutil.Big)(tx.GasPrice())
	} else {
		request.MaxFeePerGas = (*hexutil.Big)(tx.GasFeeCap())
		request.MaxPriorityFeePerGas = (*hexutil.Big)(tx.GasTipCap())
	}

	return e.addTransaction(chainID, tx.Hash().Hex(), types.TransactionDetails{
		From:                  from,
		Nonce:                 &nonce,
		Info:                  txInfo,
		Options:               types.TransactionOptions{Request: request},
		TransactionOriginType: types.TransactionOriginInternal,
	})
}

func (e *Endpoints) addTransaction(chainID types.ChainID, hash string, details types.TransactionDetails) (interface{}, Error) {
	if details.Info == nil {
		details.Info = types.UnknownInfo{}
	}
	if err := e.store.AddTransaction(chainID, hash, details); err != nil {
		if errors.Is(err, store.ErrTransactionExists) {
			return RPCErrorResponse(InvalidParamsErrorCode, "transaction already tracked", err, false)
		}
		return RPCErrorResponse(DefaultErrorCode, err.Error(), err, true)
	}
	log.Infof("tracking tx %s on chain %d", hash, chainID)
	return hash, nil
}

// GetTransactions returns the tracked transactions, oldest first, optionally of a single chain
func (e *Endpoints) GetTransactions(chainID *types.ChainID) (interface{}, Error) {
	txs := []types.TransactionRecord{}
	for c, chainTxs := range e.store.Transactions() {
		if chainID != nil && *chainID != c {
			continue
		}
		for _, tx := range chainTxs {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].AddedTime.Equal(txs[j].AddedTime.Time) {
			return txs[i].AddedTime.Before(txs[j].AddedTime.Time)
		}
		return txs[i].Hash < txs[j].Hash
	})
	return txs, nil
}

// GetTransaction returns a tracked transaction
func (e *Endpoints) GetTransaction(chainID types.ChainID, hash string) (interface{}, Error) {
	tx, found := e.store.Transaction(chainID, hash)
	if !found {
		return RPCErrorResponse(UnknownTransactionErrorCode, "transaction not found", nil, false)
	}
	return tx, nil
}

// SpeedUpTransaction resubmits a pending transaction with higher fees
func (e *Endpoints) SpeedUpTransaction(httpRequest *http.Request, chainID types.ChainID, hash string, fees *FeeArgs) (interface{}, Error) {
	return e.replace(httpRequest, chainID, hash, fees, false)
}

// CancelTransaction replaces a pending transaction with a zero value self send
func (e *Endpoints) CancelTransaction(httpRequest *http.Request, chainID types.ChainID, hash string, fees *FeeArgs) (interface{}, Error) {
	return e.replace(httpRequest, chainID, hash, fees, true)
}

func (e *Endpoints) replace(httpRequest *http.Request, chainID types.ChainID, hash string, fees *FeeArgs, isCancellation bool) (interface{}, Error) {
	tx, found := e.store.Transaction(chainID, hash)
	if !found {
		return RPCErrorResponse(UnknownTransactionErrorCode, "transaction not found", nil, false)
	}
	if !tx.Status.IsPending() {
		return RPCErrorResponse(InvalidParamsErrorCode, "transaction is not pending", nil, false)
	}

	ctx, cancel := e.replacementContext(httpRequest)
	defer cancel()
	var err error
	if isCancellation {
		err = e.replacer.Cancel(ctx, tx, fees.toFees())
	} else {
		err = e.replacer.SpeedUp(ctx, tx, fees.toFees())
	}
	if err != nil {
		if errors.Is(err, replacer.ErrInvalidReplacement) || errors.Is(err, replacer.ErrUnknownAccount) {
			return RPCErrorResponse(InvalidParamsErrorCode, err.Error(), err, false)
		}
		return RPCErrorResponse(DefaultErrorCode, err.Error(), err, true)
	}
	return true, nil
}

// ApplyCancellation moves a transaction to the hash of the cancellation that replaced it
func (e *Endpoints) ApplyCancellation(chainID types.ChainID, hash string, cancelHash string) (interface{}, Error) {
	if cancelHash == "" {
		return RPCErrorResponse(InvalidParamsErrorCode, "cancelHash is required", nil, false)
	}
	e.store.CancelTransaction(chainID, hash, cancelHash)
	return true, nil
}

// RemoveTransaction stops tracking a transaction
func (e *Endpoints) RemoveTransaction(chainID types.ChainID, hash string) (interface{}, Error) {
	e.store.RemoveTransaction(chainID, hash)
	return true, nil
}

// ClearTransactions stops tracking every transaction of a chain
func (e *Endpoints) ClearTransactions(chainID types.ChainID) (interface{}, Error) {
	e.store.ClearAllTransactions(chainID)
	return true, nil
}

// AddSignature starts tracking a signed order
func (e *Endpoints) AddSignature(sig types.SignatureRecord) (interface{}, Error) {
	if sig.OrderHash == "" {
		return RPCErrorResponse(InvalidParamsErrorCode, "orderHash is required", nil, false)
	}
	if sig.Status == "" {
		sig.Status = types.OrderStatusOpen
	}
	if sig.ID == "" {
		sig.ID = sig.OrderHash
	}
	e.store.AddSignature(sig)
	log.Infof("tracking order %s on chain %d", sig.OrderHash, sig.ChainID)
	return sig.OrderHash, nil
}

// GetSignatures returns the tracked orders, oldest first
func (e *Endpoints) GetSignatures() (interface{}, Error) {
	sigs := []types.SignatureRecord{}
	for _, sig := range e.store.Signatures() {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool {
		if !sigs[i].AddedTime.Equal(sigs[j].AddedTime.Time) {
			return sigs[i].AddedTime.Before(sigs[j].AddedTime.Time)
		}
		return sigs[i].OrderHash < sigs[j].OrderHash
	})
	return sigs, nil
}

// GetPopups returns the visible popups
func (e *Endpoints) GetPopups() (interface{}, Error) {
	popups := e.popups.Popups()
	if popups == nil {
		popups = []notification.Popup{}
	}
	return popups, nil
}

// GetNotifications returns the pending app notifications
func (e *Endpoints) GetNotifications() (interface{}, Error) {
	notifications := e.notifier.Notifications()
	if notifications == nil {
		notifications = []notification.AppNotification{}
	}
	return notifications, nil
}

// DismissNotification removes an app notification
func (e *Endpoints) DismissNotification(id string) (interface{}, Error) {
	e.notifier.Dismiss(id)
	return true, nil
}

func (f *FeeArgs) toFees() replacer.Fees {
	if f == nil {
		return replacer.Fees{}
	}
	return replacer.Fees{
		GasPrice:             f.GasPrice.ToInt(),
		MaxFeePerGas:         f.MaxFeePerGas.ToInt(),
		MaxPriorityFeePerGas: f.MaxPriorityFeePerGas.ToInt(),
	}
}

func (e *Endpoints) replacementContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if r != nil {
		ctx = r.Context()
	}
	if e.cfg.ReplacementTimeout.Duration > 0 {
		return context.WithTimeout(ctx, e.cfg.ReplacementTimeout.Duration)
	}
	return context.WithCancel(ctx)
}

func hexToTx(str string) (*ethTypes.Transaction, error) {
	tx := new(ethTypes.Transaction)

	b, err := hex.DecodeHex(str)
	if err != nil {
		return nil, err
	}

	if err := tx.UnmarshalBinary(b); err != nil {
		return nil, err
	}

	return tx, nil
}
