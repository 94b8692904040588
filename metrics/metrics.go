package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace is the prefix shared by every metric exported by the tracker
	Namespace = "zkevm_tx_tracker"
	// Endpoint the endpoint for exposing the metrics
	Endpoint = "/metrics"
	// ProfilingIndexEndpoint the endpoint for exposing the profiling metrics
	ProfilingIndexEndpoint = "/debug/pprof/"
	// ProfileEndpoint the endpoint for exposing the profile of the profiling metrics
	ProfileEndpoint = "/debug/pprof/profile"
	// ProfilingCmdEndpoint the endpoint for exposing the command-line of profiling metrics
	ProfilingCmdEndpoint = "/debug/pprof/cmdline"
	// ProfilingSymbolEndpoint the endpoint for exposing the symbol of profiling metrics
	ProfilingSymbolEndpoint = "/debug/pprof/symbol"
	// ProfilingTraceEndpoint the endpoint for exposing the trace of profiling metrics
	ProfilingTraceEndpoint = "/debug/pprof/trace"
)

// ObserveDuration starts a timer on the given histogram and returns the function that records the elapsed time
func ObserveDuration(o prometheus.Observer) func() time.Duration {
	return prometheus.NewTimer(o).ObserveDuration
}
