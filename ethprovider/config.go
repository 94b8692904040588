package ethprovider

import "github.com/0xPolygonHermez/zkevm-tx-tracker/config/types"

// Config for the JSON-RPC providers
type Config struct {
	// Timeout is applied to every RPC request
	Timeout types.Duration `mapstructure:"Timeout"`
}
