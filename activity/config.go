package activity

import "github.com/0xPolygonHermez/zkevm-tx-tracker/config/types"

// Config for the reconciler
type Config struct {
	// DismissDelay is how long popups of settlement chains stay visible
	DismissDelay types.Duration `mapstructure:"DismissDelay"`

	// L2DismissDelay is how long popups of low fee L2 chains stay visible
	L2DismissDelay types.Duration `mapstructure:"L2DismissDelay"`
}
