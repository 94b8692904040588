package types

import "github.com/ethereum/go-ethereum/common"

// SignatureRecord is an off-chain signed order
type SignatureRecord struct {
	ID           string         `json:"id"`
	Type         SignatureType  `json:"type"`
	ChainID      ChainID        `json:"chainId"`
	OrderHash    string         `json:"orderHash"`
	Status       OrderStatus    `json:"status"`
	Offerer      common.Address `json:"offerer"`
	SwapInfo     SwapInfo       `json:"swapInfo"`
	TxHash       string         `json:"txHash,omitempty"`
	AddedTime    Timestamp      `json:"addedTime"`
	ExpiryTime   *Timestamp     `json:"expiryTime,omitempty"`
	EncodedOrder string         `json:"encodedOrder,omitempty"`
}

// IsLimit returns true for limit orders
func (s SignatureRecord) IsLimit() bool {
	return s.Type == SignatureTypeLimit
}

// SignatureUpdate is a partial observation of an order, zero fields are not applied
type SignatureUpdate struct {
	Status     OrderStatus `json:"status,omitempty"`
	TxHash     string      `json:"txHash,omitempty"`
	ExpiryTime *Timestamp  `json:"expiryTime,omitempty"`
}

// Apply returns the record with the update merged in
func (u SignatureUpdate) Apply(s SignatureRecord) SignatureRecord {
	if u.Status != "" {
		s.Status = u.Status
	}
	if u.TxHash != "" {
		s.TxHash = u.TxHash
	}
	if u.ExpiryTime != nil {
		expiry := *u.ExpiryTime
		s.ExpiryTime = &expiry
	}
	return s
}
