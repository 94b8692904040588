package monitor

import "github.com/0xPolygonHermez/zkevm-tx-tracker/config/types"

// Config for the activity monitor
type Config struct {
	// Workers is the number of monitor workers to query for txs receipts
	Workers uint16 `mapstructure:"Workers"`

	// QueueSize is the size of the queue for txs that need to be monitored to get the tx receipt
	QueueSize uint16 `mapstructure:"QueueSize"`

	// PollInterval is how often the store is scanned for pending transactions
	PollInterval types.Duration `mapstructure:"PollInterval"`

	// InitialWaitInterval is the time the monitor worker will wait before to try get the tx receipt for first time
	InitialWaitInterval types.Duration `mapstructure:"InitialWaitInterval"`

	// RetryWaitInterval is the time the monitor worker will wait before to retry to get the tx receipt if it still doesn't exists
	RetryWaitInterval types.Duration `mapstructure:"RetryWaitInterval"`

	// TxLifeTimeMax is the time a tx can be monitored waiting for the receipt, 0 monitors forever
	TxLifeTimeMax types.Duration `mapstructure:"TxLifeTimeMax"`

	// BatchPollInterval is how often pending call batches are queried
	BatchPollInterval types.Duration `mapstructure:"BatchPollInterval"`

	// BridgePollInterval is how often bridges with a confirmed deposit are queried
	BridgePollInterval types.Duration `mapstructure:"BridgePollInterval"`

	// OrderPollInterval is how often open orders are queried
	OrderPollInterval types.Duration `mapstructure:"OrderPollInterval"`

	// APIURL is the base URL of the orders and bridges API, empty disables both pollers
	APIURL string `mapstructure:"APIURL"`

	// APITimeout is the timeout of the requests to the orders and bridges API
	APITimeout types.Duration `mapstructure:"APITimeout"`
}
