package analytics

import (
	"sync"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sink receives analytics events
type Sink interface {
	Send(e Event)
}

// LogSink writes every event as a structured log line
type LogSink struct {
	logger *log.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{logger: log.WithFields("component", "analytics")}
}

func (s *LogSink) Send(e Event) {
	kv := make([]interface{}, 0, 2*len(e.Properties))
	for k, v := range e.Properties {
		kv = append(kv, k, v)
	}
	s.logger.Infow(e.Name, kv...)
}

var eventsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: metrics.Namespace,
	Subsystem: "analytics",
	Name:      "events_total",
}, []string{"event", "routing"})

// PrometheusSink counts events by name and routing
type PrometheusSink struct{}

func (PrometheusSink) Send(e Event) {
	routing, _ := e.Properties["routing"].(string)
	eventsSent.WithLabelValues(e.Name, routing).Inc()
}

// MultiSink forwards events to every sink
type MultiSink []Sink

func (m MultiSink) Send(e Event) {
	for _, s := range m {
		s.Send(e)
	}
}

// Recorder keeps the last events in memory, most recent last
type Recorder struct {
	mu     sync.Mutex
	max    int
	events []Event
}

func NewRecorder(max int) *Recorder {
	return &Recorder{max: max}
}

func (r *Recorder) Send(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if r.max > 0 && len(r.events) > r.max {
		r.events = r.events[len(r.events)-r.max:]
	}
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
