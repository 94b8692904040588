package persist

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/store"
)

// Saver writes store snapshots to storage in the background. Only the latest
// snapshot is kept, so a burst of mutations results in a single write.
type Saver struct {
	storage Storage
	version int

	mu      sync.Mutex
	pending *State
	notify  chan struct{}
}

func NewSaver(storage Storage, version int) *Saver {
	return &Saver{
		storage: storage,
		version: version,
		notify:  make(chan struct{}, 1),
	}
}

// Persist schedules a write of the snapshots, it never blocks
func (s *Saver) Persist(txs store.TransactionState, sigs store.SignatureState) {
	s.mu.Lock()
	s.pending = &State{
		Persist:      Meta{Version: s.version, Rehydrated: true},
		Transactions: txs,
		Signatures:   sigs,
	}
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Run writes scheduled snapshots until ctx is done, then flushes the last one
func (s *Saver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return s.Flush(context.Background())
		case <-s.notify:
			if err := s.Flush(ctx); err != nil {
				log.Errorf("error saving persisted state: %v", err)
			}
		}
	}
}

// Flush writes the pending snapshot if any
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	state := s.pending
	s.pending = nil
	s.mu.Unlock()

	if state == nil {
		return nil
	}
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, b)
}
