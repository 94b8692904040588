package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ChainID identifies an EVM chain
type ChainID uint64

const (
	// ChainIDMainnet is the Ethereum mainnet chain id and the default when none is provided
	ChainIDMainnet ChainID = 1
)

// String returns the decimal representation of the chain id
func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ParseChainID parses a decimal chain id
func ParseChainID(s string) (ChainID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", s, err)
	}
	return ChainID(v), nil
}

// CurrencyIDToChain extracts the chain from a currency id with the form "<chainId>-<address>".
// The second return value is false when the id is malformed.
func CurrencyIDToChain(currencyID string) (ChainID, bool) {
	prefix, _, found := strings.Cut(currencyID, "-")
	if !found {
		return 0, false
	}
	chainID, err := ParseChainID(prefix)
	if err != nil {
		return 0, false
	}
	return chainID, true
}
