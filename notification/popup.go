package notification

import (
	"sort"
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PopupType is the kind of entity a popup is about
type PopupType string

const (
	// PopupTypeTransaction popup keyed by a transaction hash
	PopupTypeTransaction PopupType = "transaction"
	// PopupTypeOrder popup keyed by an order hash
	PopupTypeOrder PopupType = "order"
)

// PopupContent is what a popup shows
type PopupContent struct {
	Type      PopupType     `json:"type"`
	Hash      string        `json:"hash,omitempty"`
	OrderHash string        `json:"orderHash,omitempty"`
	ChainID   types.ChainID `json:"chainId"`
}

// Popup is a visible popup
type Popup struct {
	Key       string       `json:"key"`
	Content   PopupContent `json:"content"`
	AddedTime time.Time    `json:"addedTime"`
	DismissAt time.Time    `json:"dismissAt"`
}

var popupsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "notification",
	Name:      "popups_total",
}, []string{"type", "replaced"})

// Timer is a pending dismissal
type Timer interface {
	Stop() bool
}

type popupEntry struct {
	popup Popup
	timer Timer
}

// Registry keeps at most one popup per key and dismisses each one after its delay
type Registry struct {
	mu        sync.Mutex
	popups    map[string]*popupEntry
	now       func() time.Time
	afterFunc func(d time.Duration, f func()) Timer
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithTimers overrides the clock and timer source
func WithTimers(now func() time.Time, afterFunc func(d time.Duration, f func()) Timer) RegistryOption {
	return func(r *Registry) {
		r.now = now
		r.afterFunc = afterFunc
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		popups: map[string]*popupEntry{},
		now:    time.Now,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddPopup shows content under key, replacing the popup already shown for
// that key. A zero dismissAfter keeps the popup until removed.
func (r *Registry) AddPopup(content PopupContent, key string, dismissAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, replaced := r.popups[key]
	if replaced && previous.timer != nil {
		previous.timer.Stop()
	}

	now := r.now()
	entry := &popupEntry{popup: Popup{Key: key, Content: content, AddedTime: now}}
	if dismissAfter > 0 {
		entry.popup.DismissAt = now.Add(dismissAfter)
		entry.timer = r.afterFunc(dismissAfter, func() { r.dismiss(key, entry) })
	}
	r.popups[key] = entry

	popupsAdded.WithLabelValues(string(content.Type), boolLabel(replaced)).Inc()
}

// dismiss removes the popup of key unless it was replaced since the timer was armed
func (r *Registry) dismiss(key string, entry *popupEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.popups[key] == entry {
		delete(r.popups, key)
	}
}

// RemovePopup hides the popup of key
func (r *Registry) RemovePopup(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, found := r.popups[key]; found {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(r.popups, key)
	}
}

// Popups returns the visible popups, oldest first
func (r *Registry) Popups() []Popup {
	r.mu.Lock()
	defer r.mu.Unlock()
	popups := make([]Popup, 0, len(r.popups))
	for _, entry := range r.popups {
		popups = append(popups, entry.popup)
	}
	sort.Slice(popups, func(i, j int) bool {
		if popups[i].AddedTime.Equal(popups[j].AddedTime) {
			return popups[i].Key < popups[j].Key
		}
		return popups[i].AddedTime.Before(popups[j].AddedTime)
	})
	return popups
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
