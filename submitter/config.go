package submitter

import "github.com/0xPolygonHermez/zkevm-tx-tracker/config/types"

// Config for the transaction submitter
type Config struct {
	// TransactionLookupMaxRetries is how many times the lookup of a raw sent
	// transaction is retried before giving up, on top of the first attempt
	TransactionLookupMaxRetries uint64 `mapstructure:"TransactionLookupMaxRetries"`

	// TransactionLookupBackoff is the fixed wait between two lookups
	TransactionLookupBackoff types.Duration `mapstructure:"TransactionLookupBackoff"`
}
