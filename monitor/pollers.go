package monitor

import (
	"context"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

// OrderUpdate is the status of an order as reported by the orders API
type OrderUpdate struct {
	OrderHash string            `json:"orderHash"`
	Status    types.OrderStatus `json:"orderStatus"`
	TxHash    string            `json:"txHash,omitempty"`
}

// monitorBatches resolves call batches whose transaction hash is still unknown
func (m *Monitor) monitorBatches(ctx context.Context) {
	for _, tx := range m.store.PendingTransactions() {
		if tx.BatchInfo == nil || tx.Hash != tx.BatchInfo.BatchID {
			continue
		}
		batchID := tx.BatchInfo.BatchID

		provider, err := m.providers(ctx, tx.BatchInfo.ChainID)
		if err != nil {
			log.Errorf("error getting provider for chain %d: %v", tx.BatchInfo.ChainID, err)
			continue
		}
		status, err := provider.GetCallsStatus(ctx, batchID)
		if err != nil {
			log.Warnf("error getting status of batch %s on chain %d: %v", batchID, tx.ChainID, err)
			continue
		}
		if status.IsPending() {
			continue
		}

		update := types.TransactionUpdate{Status: types.TxStatusFailed}
		if status.IsSuccess() {
			update.Status = types.TxStatusSuccess
		}
		if hash, ok := status.TransactionHash(); ok {
			update.Hash = hash.Hex()
		}
		log.Infof("batch %s on chain %d settled with status %d", batchID, tx.ChainID, status.Status)

		updatesProduced.WithLabelValues("batches").Inc()
		m.reconciler.OnActivityUpdate(types.TransactionActivity{ChainID: tx.ChainID, Original: tx, Update: update})
	}
}

// monitorBridges finalizes bridges once the destination chain reports the fill
func (m *Monitor) monitorBridges(ctx context.Context) {
	for _, tx := range m.store.PendingTransactions() {
		bridge, ok := tx.Info.(types.BridgeInfo)
		if !ok || !bridge.DepositConfirmed {
			continue
		}

		status, err := m.bridges.BridgeStatus(ctx, tx)
		if err != nil {
			log.Warnf("error getting status of bridge %s on chain %d: %v", tx.Hash, tx.ChainID, err)
			continue
		}
		if status.IsPending() {
			continue
		}
		log.Infof("bridge %s on chain %d completed with status %s", tx.Hash, tx.ChainID, status)

		updatesProduced.WithLabelValues("bridges").Inc()
		m.reconciler.OnActivityUpdate(types.TransactionActivity{
			ChainID:  tx.ChainID,
			Original: tx,
			Update:   types.TransactionUpdate{Status: status},
		})
	}
}

// monitorOrders reports the orders whose status changed since the last poll
func (m *Monitor) monitorOrders(ctx context.Context) {
	open := m.store.OpenSignatures()
	if len(open) == 0 {
		return
	}

	byHash := make(map[string]types.SignatureRecord, len(open))
	hashes := make([]string, 0, len(open))
	for _, sig := range open {
		byHash[sig.OrderHash] = sig
		hashes = append(hashes, sig.OrderHash)
	}

	updates, err := m.orders.FetchOrders(ctx, hashes)
	if err != nil {
		log.Warnf("error fetching %d open orders: %v", len(hashes), err)
		return
	}

	reported := make(map[string]bool, len(updates))
	for _, u := range updates {
		sig, found := byHash[u.OrderHash]
		if !found {
			continue
		}
		reported[u.OrderHash] = true
		if u.Status == sig.Status && u.TxHash == sig.TxHash {
			continue
		}
		m.reconcileOrder(sig, types.SignatureUpdate{Status: u.Status, TxHash: u.TxHash})
	}

	// orders unknown to the API are expired locally once past their deadline
	now := m.now()
	for _, sig := range open {
		if reported[sig.OrderHash] || sig.ExpiryTime == nil || sig.ExpiryTime.After(now) {
			continue
		}
		m.reconcileOrder(sig, types.SignatureUpdate{Status: types.OrderStatusExpired})
	}
}

func (m *Monitor) reconcileOrder(sig types.SignatureRecord, update types.SignatureUpdate) {
	log.Debugf("order %s on chain %d reported as %s", sig.OrderHash, sig.ChainID, update.Status)
	updatesProduced.WithLabelValues("orders").Inc()
	m.reconciler.OnActivityUpdate(types.SignatureActivity{ChainID: sig.ChainID, Original: sig, Update: update})
}
