package activity

import (
	"errors"
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/analytics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/store"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

// Reconciler merges observed activity into the tracked transactions and orders
type Reconciler struct {
	cfg       Config
	store     storeInterface
	popups    popupsInterface
	chains    chainsInterface
	analytics analytics.Sink
	now       func() time.Time

	// one reconciliation at a time, pollers fire concurrently
	mu sync.Mutex
}

func NewReconciler(cfg Config, store storeInterface, popups popupsInterface, chains chainsInterface, sink analytics.Sink) *Reconciler {
	return &Reconciler{
		cfg:       cfg,
		store:     store,
		popups:    popups,
		chains:    chains,
		analytics: sink,
		now:       time.Now,
	}
}

// OnActivityUpdate applies a single update. Updates may arrive out of order
// or more than once, terminal records make them no-ops.
func (r *Reconciler) OnActivityUpdate(update types.ActivityUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer metrics.ObserveDuration(reconcileDuration)()

	switch u := update.(type) {
	case types.TransactionActivity:
		r.onTransactionUpdate(u)
	case types.SignatureActivity:
		r.onSignatureUpdate(u)
	default:
		log.Warnf("unexpected activity update %T", update)
	}
}

func (r *Reconciler) onTransactionUpdate(u types.TransactionActivity) {
	original := u.Original

	// batched transactions are stored under the batch id until their hash is known
	if original.BatchInfo != nil && u.Update.Hash != "" {
		r.store.ApplyTransactionHashToBatch(original.BatchInfo.BatchID, u.Update.Hash, original.BatchInfo.ChainID)
	}

	hash := original.Hash
	if u.Update.Hash != "" {
		hash = u.Update.Hash
	}

	if bridge, ok := original.Info.(types.BridgeInfo); ok && !bridge.DepositConfirmed && u.Update.Status == types.TxStatusSuccess {
		log.Debugf("bridge deposit %s confirmed on chain %d", hash, u.ChainID)
		r.store.ConfirmBridgeDeposit(u.ChainID, hash)
		updatesReconciled.WithLabelValues("transaction", resultDeposit).Inc()
		return
	}

	r.store.FinalizeTransaction(u.ChainID, hash, u.Update.Status, u.Update.Info)
	updatesReconciled.WithLabelValues("transaction", resultFinalized).Inc()
	log.Infof("transaction %s finalized on chain %d with status %s", hash, u.ChainID, u.Update.Status)

	r.popups.AddPopup(notification.PopupContent{
		Type:    notification.PopupTypeTransaction,
		Hash:    hash,
		ChainID: u.ChainID,
	}, hash, r.dismissDelay(u.ChainID))

	if !original.IsSwapOrBridge() {
		return
	}
	chainIn, chainOut := u.ChainID, u.ChainID
	if bridge, ok := original.Info.(types.BridgeInfo); ok {
		if id, ok := types.CurrencyIDToChain(bridge.InputCurrencyID); ok {
			chainIn = id
		}
		if id, ok := types.CurrencyIDToChain(bridge.OutputCurrencyID); ok {
			chainOut = id
		}
	}
	var batchID string
	if original.BatchInfo != nil {
		batchID = original.BatchInfo.BatchID
	}
	r.analytics.Send(analytics.SwapFinalized{
		Hash:       hash,
		BatchID:    batchID,
		ChainInID:  chainIn,
		ChainOutID: chainOut,
		Status:     u.Update.Status,
		Type:       types.InfoType(original.Info),
		TimeToSwap: r.now().Sub(original.AddedTime.Time),
		OriginType: original.TransactionOriginType,
	}.Event())
}

func (r *Reconciler) onSignatureUpdate(u types.SignatureActivity) {
	original := u.Original
	if original.Status == types.OrderStatusFilled {
		updatesReconciled.WithLabelValues("signature", resultIgnored).Inc()
		return
	}

	updated := u.Update.Apply(original)
	r.store.UpdateSignature(updated)

	if updated.Status == types.OrderStatusFilled {
		r.onOrderFilled(u.ChainID, updated)
		return
	}

	if original.Status == updated.Status {
		updatesReconciled.WithLabelValues("signature", resultUpdated).Inc()
		return
	}
	updatesReconciled.WithLabelValues("signature", string(updated.Status)).Inc()
	log.Infof("order %s on chain %d moved from %s to %s", updated.OrderHash, u.ChainID, original.Status, updated.Status)

	r.popups.AddPopup(notification.PopupContent{
		Type:      notification.PopupTypeOrder,
		OrderHash: updated.OrderHash,
		ChainID:   u.ChainID,
	}, updated.OrderHash, r.dismissDelay(u.ChainID))

	if updated.Status == types.OrderStatusCancelled || updated.Status == types.OrderStatusExpired {
		r.analytics.Send(r.orderEvent(u.ChainID, updated, "").Event())
	}
}

// onOrderFilled tracks the settlement transaction of a filled order
func (r *Reconciler) onOrderFilled(chainID types.ChainID, order types.SignatureRecord) {
	if order.TxHash == "" {
		log.Warnf("order %s on chain %d filled without a settlement hash", order.OrderHash, chainID)
		updatesReconciled.WithLabelValues("signature", resultUpdated).Inc()
		return
	}

	err := r.store.AddTransaction(chainID, order.TxHash, types.TransactionDetails{
		From:                  order.Offerer,
		Info:                  order.SwapInfo,
		TransactionOriginType: types.TransactionOriginInternal,
	})
	if errors.Is(err, store.ErrTransactionExists) {
		log.Warnf("settlement %s of order %s already tracked", order.TxHash, order.OrderHash)
		updatesReconciled.WithLabelValues("signature", resultIgnored).Inc()
		return
	} else if err != nil {
		log.Errorf("error tracking settlement %s of order %s: %v", order.TxHash, order.OrderHash, err)
		return
	}
	updatesReconciled.WithLabelValues("signature", resultFilled).Inc()
	log.Infof("order %s filled by transaction %s on chain %d", order.OrderHash, order.TxHash, chainID)

	r.popups.AddPopup(notification.PopupContent{
		Type:    notification.PopupTypeTransaction,
		Hash:    order.TxHash,
		ChainID: chainID,
	}, order.TxHash, r.dismissDelay(chainID))

	// limit orders fill on market conditions, their latency is not tracked
	if !order.IsLimit() {
		r.analytics.Send(r.orderEvent(chainID, order, order.TxHash).Event())
	}
}

func (r *Reconciler) orderEvent(chainID types.ChainID, order types.SignatureRecord, hash string) analytics.OrderSwapFinalized {
	signatureType := order.Type
	if signatureType == "" {
		signatureType = types.SignatureTypeUniswapXV2Order
	}
	return analytics.OrderSwapFinalized{
		Hash:          hash,
		OrderHash:     order.OrderHash,
		ChainID:       chainID,
		SignatureType: signatureType,
		Status:        order.Status,
		TimeToSwap:    r.now().Sub(order.AddedTime.Time),
	}
}

func (r *Reconciler) dismissDelay(chainID types.ChainID) time.Duration {
	if r.chains.IsL2(chainID) {
		return r.cfg.L2DismissDelay.Duration
	}
	return r.cfg.DismissDelay.Duration
}
