package submitter

import (
	"errors"
	"math/big"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

var errIncompleteRequest = errors.New("request is missing nonce, gas limit or fees")

// newTransaction builds an unsigned dynamic fee or legacy transaction from a populated request
func newTransaction(req types.TransactionRequest) (*ethtypes.Transaction, error) {
	if req.Nonce == nil || req.GasLimit == nil {
		return nil, errIncompleteRequest
	}

	if req.IsDynamicFee() {
		tip, feeCap := dynamicFees(req)
		if tip == nil || feeCap == nil {
			return nil, errIncompleteRequest
		}
		return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
			ChainID:   new(big.Int).SetUint64(uint64(req.ChainID)),
			Nonce:     uint64(*req.Nonce),
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       uint64(*req.GasLimit),
			To:        req.To,
			Value:     req.ValueOrZero(),
			Data:      req.Data,
		}), nil
	}

	if req.GasPrice == nil {
		return nil, errIncompleteRequest
	}
	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    uint64(*req.Nonce),
		GasPrice: req.GasPrice.ToInt(),
		Gas:      uint64(*req.GasLimit),
		To:       req.To,
		Value:    req.ValueOrZero(),
		Data:     req.Data,
	}), nil
}

// newSetCodeTransaction converts a populated request into an EIP-7702 transaction carrying auths
func newSetCodeTransaction(req types.TransactionRequest, auths []ethtypes.SetCodeAuthorization) (*ethtypes.Transaction, error) {
	if req.Nonce == nil || req.GasLimit == nil || req.To == nil {
		return nil, errIncompleteRequest
	}
	tip, feeCap := dynamicFees(req)
	if tip == nil || feeCap == nil {
		return nil, errIncompleteRequest
	}

	return ethtypes.NewTx(&ethtypes.SetCodeTx{
		ChainID:   uint256.NewInt(uint64(req.ChainID)),
		Nonce:     uint64(*req.Nonce),
		GasTipCap: uint256.MustFromBig(tip),
		GasFeeCap: uint256.MustFromBig(feeCap),
		Gas:       uint64(*req.GasLimit),
		To:        *req.To,
		Value:     uint256.MustFromBig(req.ValueOrZero()),
		Data:      req.Data,
		AuthList:  auths,
	}), nil
}

// dynamicFees returns tip and fee caps, a legacy gas price is used for both when set
func dynamicFees(req types.TransactionRequest) (*big.Int, *big.Int) {
	var tip, feeCap *big.Int
	if req.GasPrice != nil {
		tip, feeCap = req.GasPrice.ToInt(), req.GasPrice.ToInt()
	}
	if req.MaxPriorityFeePerGas != nil {
		tip = req.MaxPriorityFeePerGas.ToInt()
	}
	if req.MaxFeePerGas != nil {
		feeCap = req.MaxFeePerGas.ToInt()
	}
	return tip, feeCap
}
