package server

import "github.com/0xPolygonHermez/zkevm-tx-tracker/config/types"

// Config for the activity JSON-RPC server
type Config struct {
	// Host is the address the activity API listens on
	Host string `mapstructure:"Host"`

	// Port is the port the activity API listens on
	Port int `mapstructure:"Port"`

	// ReadTimeout bounds reading a request, headers included
	ReadTimeout types.Duration `mapstructure:"ReadTimeout"`

	// WriteTimeout bounds writing a response, it must cover ReplacementTimeout
	WriteTimeout types.Duration `mapstructure:"WriteTimeout"`

	// MaxRequestsPerIPAndSecond is the per client rate limit
	MaxRequestsPerIPAndSecond float64 `mapstructure:"MaxRequestsPerIPAndSecond"`

	// EnableHttpLog writes an access log line per HTTP request
	EnableHttpLog bool `mapstructure:"EnableHttpLog"`

	// BatchRequestsEnabled accepts JSON-RPC batches
	BatchRequestsEnabled bool `mapstructure:"BatchRequestsEnabled"`

	// BatchRequestsLimit is the maximum number of calls in a batch, 0 is unlimited
	BatchRequestsLimit uint `mapstructure:"BatchRequestsLimit"`

	// AllowedOrigins are the origins wallet frontends may call from, empty allows any
	AllowedOrigins []string `mapstructure:"AllowedOrigins"`

	// ReplacementTimeout bounds a speed up or cancel call including the
	// submitter lookup retries, 0 disables it
	ReplacementTimeout types.Duration `mapstructure:"ReplacementTimeout"`
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin,
// empty when the origin is not allowed
func (c Config) allowOrigin(origin string) string {
	if len(c.AllowedOrigins) == 0 {
		return "*"
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return origin
		}
	}
	return ""
}
