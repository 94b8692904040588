package analytics

// Config for the analytics sinks
type Config struct {
	// LogEvents writes every event to the log
	LogEvents bool `mapstructure:"LogEvents"`

	// RecorderSize keeps the last events in memory, 0 disables the recorder
	RecorderSize int `mapstructure:"RecorderSize"`
}

// NewSink builds the sink described by cfg, events are always counted
func NewSink(cfg Config) (Sink, *Recorder) {
	sinks := MultiSink{PrometheusSink{}}
	if cfg.LogEvents {
		sinks = append(sinks, NewLogSink())
	}
	var recorder *Recorder
	if cfg.RecorderSize > 0 {
		recorder = NewRecorder(cfg.RecorderSize)
		sinks = append(sinks, recorder)
	}
	return sinks, recorder
}
