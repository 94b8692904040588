package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/sync/errgroup"
)

// Monitor polls the chains and the orders API and feeds every observed
// change to the reconciler
type Monitor struct {
	cfg        Config
	store      storeInterface
	providers  ProviderFunc
	reconciler reconcilerInterface
	bridges    BridgeStatusFetcher
	orders     OrderFetcher
	now        func() time.Time

	requestChan      chan *monitorRequest
	requestRetryList *monitorRequestList
	requestRetryCond *sync.Cond

	// keys of the txs owned by the workers, in the retry list or in flight
	trackedMutex sync.Mutex
	tracked      map[string]struct{}
}

type monitorRequest struct {
	chainID   types.ChainID
	hash      string
	addedAt   time.Time
	nextRetry time.Time
}

func (r *monitorRequest) key() string {
	return requestKey(r.chainID, r.hash)
}

func requestKey(chainID types.ChainID, hash string) string {
	return fmt.Sprintf("%d:%s", chainID, hash)
}

// NewMonitor creates the monitor, nil fetchers disable their pollers
func NewMonitor(cfg Config, store storeInterface, providers ProviderFunc, reconciler reconcilerInterface, bridges BridgeStatusFetcher, orders OrderFetcher) *Monitor {
	return &Monitor{
		cfg:              cfg,
		store:            store,
		providers:        providers,
		reconciler:       reconciler,
		bridges:          bridges,
		orders:           orders,
		now:              time.Now,
		requestChan:      make(chan *monitorRequest, cfg.QueueSize),
		requestRetryList: newMonitorRequestList(),
		requestRetryCond: sync.NewCond(&sync.Mutex{}),
		tracked:          map[string]struct{}{},
	}
}

// Run starts the workers and pollers and blocks until ctx is done
func (m *Monitor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	log.Infof("starting %d monitor workers", m.cfg.Workers)
	for i := 0; i < int(m.cfg.Workers); i++ {
		workerNum := i
		g.Go(func() error {
			m.startMonitorWorker(ctx, workerNum)
			return nil
		})
	}
	g.Go(func() error {
		m.checkMonitorRequestRetries(ctx)
		return nil
	})

	g.Go(func() error {
		return poll(ctx, "transactions", m.cfg.PollInterval.Duration, m.monitorPendingTransactions)
	})
	g.Go(func() error {
		return poll(ctx, "batches", m.cfg.BatchPollInterval.Duration, m.monitorBatches)
	})
	if m.bridges != nil {
		g.Go(func() error {
			return poll(ctx, "bridges", m.cfg.BridgePollInterval.Duration, m.monitorBridges)
		})
	}
	if m.orders != nil {
		g.Go(func() error {
			return poll(ctx, "orders", m.cfg.OrderPollInterval.Duration, m.monitorOrders)
		})
	}

	return g.Wait()
}

func poll(ctx context.Context, name string, interval time.Duration, fn func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("invalid %s poll interval %v", name, interval)
	}
	log.Infof("polling %s every %v", name, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		start := time.Now()
		fn(ctx)
		pollDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

		select {
		case <-ctx.Done():
			log.Infof("stopped polling %s", name)
			return nil
		case <-ticker.C:
		}
	}
}

// AddTransaction starts monitoring the receipt of a pending transaction
func (m *Monitor) AddTransaction(ctx context.Context, tx types.TransactionRecord) bool {
	request := &monitorRequest{
		chainID: tx.ChainID,
		hash:    tx.Hash,
		addedAt: tx.AddedTime.Time,
	}
	if !m.track(request.key()) {
		return false
	}

	if m.cfg.InitialWaitInterval.Duration > 0 {
		request.nextRetry = m.now().Add(m.cfg.InitialWaitInterval.Duration)
		m.addRequestToRetryList(request)
	} else {
		m.enqueueMonitorRequest(ctx, request)
	}
	return true
}

func (m *Monitor) track(key string) bool {
	m.trackedMutex.Lock()
	defer m.trackedMutex.Unlock()
	if _, found := m.tracked[key]; found {
		return false
	}
	m.tracked[key] = struct{}{}
	return true
}

func (m *Monitor) untrack(request *monitorRequest) {
	m.trackedMutex.Lock()
	defer m.trackedMutex.Unlock()
	delete(m.tracked, request.key())
}

func (m *Monitor) enqueueMonitorRequest(ctx context.Context, request *monitorRequest) {
	log.Debugf("monitor request for tx %s added to the queue channel", request.key())
	// Enqueue in a go func to avoid blocking in case the channel buffer is full
	go func() {
		select {
		case m.requestChan <- request:
		case <-ctx.Done():
		}
	}()
}

func (m *Monitor) startMonitorWorker(ctx context.Context, workerNum int) {
	log.Debugf("monitor-worker[%03d]: started", workerNum)
	for {
		select {
		case <-ctx.Done():
			log.Debugf("monitor-worker[%03d]: stopped", workerNum)
			return
		case request := <-m.requestChan:
			m.processMonitorRequest(ctx, request, workerNum)
		}
	}
}

func (m *Monitor) scheduleRequestRetry(request *monitorRequest, workerNum int) {
	request.nextRetry = m.now().Add(m.cfg.RetryWaitInterval.Duration)
	log.Debugf("monitor-worker[%03d]: scheduled retry monitor tx %s at %v", workerNum, request.key(), request.nextRetry)

	m.addRequestToRetryList(request)
}

func (m *Monitor) addRequestToRetryList(request *monitorRequest) {
	m.requestRetryList.add(request)

	m.requestRetryCond.L.Lock()
	m.requestRetryCond.Signal()
	m.requestRetryCond.L.Unlock()
}

// skipReceipt tells whether the receipt poller must leave tx to another poller
func skipReceipt(tx types.TransactionRecord) bool {
	if tx.BatchInfo != nil && tx.Hash == tx.BatchInfo.BatchID {
		return true
	}
	bridge, ok := tx.Info.(types.BridgeInfo)
	return ok && bridge.DepositConfirmed
}

func (m *Monitor) processMonitorRequest(ctx context.Context, request *monitorRequest, workerNum int) {
	tx, found := m.store.Transaction(request.chainID, request.hash)
	if !found || !tx.Status.IsPending() || skipReceipt(tx) {
		log.Debugf("monitor-worker[%03d]: tx %s no longer needs a receipt", workerNum, request.key())
		m.untrack(request)
		return
	}
	log.Debugf("monitor-worker[%03d]: monitoring tx %s", workerNum, request.key())

	provider, err := m.providers(ctx, request.chainID)
	if err != nil {
		log.Errorf("monitor-worker[%03d]: error getting provider for chain %d, error: %v", workerNum, request.chainID, err)
		m.scheduleRequestRetry(request, workerNum)
		return
	}

	receipt, err := provider.TransactionReceipt(ctx, common.HexToHash(request.hash))
	if err != nil {
		if !errors.Is(err, ethereum.NotFound) {
			log.Errorf("monitor-worker[%03d]: error getting receipt for tx %s, error: %v", workerNum, request.key(), err)
		} else {
			log.Debugf("monitor-worker[%03d]: receipt for tx %s still not available, schedule retry", workerNum, request.key())
			if blockNumber, err := provider.BlockNumber(ctx); err == nil {
				m.store.CheckedTransaction(request.chainID, request.hash, blockNumber)
			}
		}
		receiptsChecked.WithLabelValues(request.chainID.String(), "not_found").Inc()
		m.scheduleRequestRetry(request, workerNum)
		return
	}

	status := types.TxStatusSuccess
	if receipt.Status == ethtypes.ReceiptStatusFailed {
		status = types.TxStatusFailed
	}
	log.Infof("monitor-worker[%03d]: receipt for tx %s received, status: %d", workerNum, request.key(), receipt.Status)
	receiptsChecked.WithLabelValues(request.chainID.String(), string(status)).Inc()

	updatesProduced.WithLabelValues("transactions").Inc()
	m.reconciler.OnActivityUpdate(types.TransactionActivity{
		ChainID:  request.chainID,
		Original: tx,
		Update:   types.TransactionUpdate{Status: status},
	})
	m.untrack(request)
}

func (m *Monitor) checkMonitorRequestRetries(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() {
		m.requestRetryCond.L.Lock()
		m.requestRetryCond.Broadcast()
		m.requestRetryCond.L.Unlock()
	})
	defer stop()

	for ctx.Err() == nil {
		request, found := m.requestRetryList.first()
		if !found {
			// wait for new monitorRequest to retry
			m.requestRetryCond.L.Lock()
			for m.requestRetryList.len() == 0 && ctx.Err() == nil {
				m.requestRetryCond.Wait()
			}
			m.requestRetryCond.L.Unlock()
			continue
		}

		now := m.now()
		if m.cfg.TxLifeTimeMax.Duration > 0 && request.addedAt.Add(m.cfg.TxLifeTimeMax.Duration).Before(now) {
			// stays tracked so the scan does not pick it up again
			log.Warnf("monitor tx %s has expired, stop monitoring", request.key())
			m.requestRetryList.delete(request)
			continue
		}

		if request.nextRetry.After(now) {
			select {
			case <-ctx.Done():
			case <-time.After(request.nextRetry.Sub(now)):
			}
			continue
		}

		log.Debugf("retry monitor tx %s that was schedule to %v", request.key(), request.nextRetry)
		if m.requestRetryList.delete(request) {
			m.enqueueMonitorRequest(ctx, request)
		}
	}
}

func (m *Monitor) monitorPendingTransactions(ctx context.Context) {
	added := 0
	for _, tx := range m.store.PendingTransactions() {
		if skipReceipt(tx) {
			continue
		}
		if m.AddTransaction(ctx, tx) {
			added++
		}
	}
	if added > 0 {
		log.Debugf("monitoring %d new pending txs", added)
	}
}
