package submitter

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/wallet"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

var (
	// ErrDelegationLookup is returned when the delegation target of a self send can't be resolved
	ErrDelegationLookup = errors.New("delegation lookup failed")
	// ErrTransactionNotFound is returned when a raw sent transaction can't be found after every retry
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Params of a submission
type Params struct {
	Request  types.TransactionRequest
	Account  wallet.Account
	Provider Provider
	Signers  SignerProvider
	// IsCancellation skips the delegation check of self sends
	IsCancellation bool
	// IsRemoveDelegation delegates the account to the zero address
	IsRemoveDelegation bool
}

// Result of a submission
type Result struct {
	Transaction      *ethtypes.Transaction
	PopulatedRequest types.TransactionRequest
	// SignTimestamp is taken right before signing
	SignTimestamp time.Time
	// SendTimestamp is taken right before broadcasting
	SendTimestamp time.Time
}

// Hash returns the hash of the submitted transaction
func (r Result) Hash() common.Hash {
	return r.Transaction.Hash()
}

// RetryPolicy bounds the lookup of raw sent transactions
type RetryPolicy struct {
	MaxRetries uint64
	Backoff    time.Duration
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOffContext {
	return backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Backoff), p.MaxRetries), ctx)
}

// Submitter signs and broadcasts transactions, upgrading self sends with an
// EIP-7702 authorization when the account is not delegated yet
type Submitter struct {
	delegation delegationResolverInterface
	retry      RetryPolicy
	now        func() time.Time
}

func NewSubmitter(cfg Config, resolver delegationResolverInterface) *Submitter {
	return &Submitter{
		delegation: resolver,
		retry: RetryPolicy{
			MaxRetries: cfg.TransactionLookupMaxRetries,
			Backoff:    cfg.TransactionLookupBackoff.Duration,
		},
		now: time.Now,
	}
}

// Submit signs and sends p.Request
func (s *Submitter) Submit(ctx context.Context, p Params) (*Result, error) {
	kind := submissionKind(p)
	res, err := s.submit(ctx, p)
	observeSubmission(kind, err)
	return res, err
}

func (s *Submitter) submit(ctx context.Context, p Params) (*Result, error) {
	signer, err := p.Signers.Signer(p.Account)
	if err != nil {
		return nil, err
	}

	populated, err := p.Provider.PopulateTransaction(ctx, p.Request)
	if err != nil {
		return nil, fmt.Errorf("can't populate transaction: %w", err)
	}
	if populated.ChainID == 0 {
		populated.ChainID = types.ChainIDMainnet
	}

	// a self send signals the account may need a delegation upgrade
	if populated.IsSelfSend() && !p.IsCancellation {
		status, err := s.delegation.Status(ctx, p.Provider, populated.ChainID, p.Account.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDelegationLookup, err)
		}

		var target *common.Address
		if p.IsRemoveDelegation {
			target = &common.Address{}
			log.Debugf("removing delegation of %s on chain %d", p.Account.Address, populated.ChainID)
		} else if status.NeedsDelegation {
			target = &status.Contract
			log.Debugf("delegating %s to %s on chain %d", p.Account.Address, status.Contract, populated.ChainID)
		}

		if target != nil {
			return s.submitWithAuthorization(ctx, p, signer, populated, *target)
		}
	}

	tx, err := newTransaction(populated)
	if err != nil {
		return nil, err
	}

	signTimestamp := s.now()
	signed, err := signer.SignTransaction(tx, chainIDBig(populated.ChainID))
	if err != nil {
		return nil, fmt.Errorf("can't sign transaction: %w", err)
	}

	sendTimestamp := s.now()
	if err := p.Provider.SendTransaction(ctx, signed); err != nil {
		return nil, err
	}

	return &Result{
		Transaction:      signed,
		PopulatedRequest: populated,
		SignTimestamp:    signTimestamp,
		SendTimestamp:    sendTimestamp,
	}, nil
}

func (s *Submitter) submitWithAuthorization(ctx context.Context, p Params, signer wallet.Signer, populated types.TransactionRequest, target common.Address) (*Result, error) {
	signTimestamp := s.now()

	nonce, _ := populated.NonceValue()
	// the sender nonce is bumped by the transaction itself before authorizations apply
	auth, err := signer.SignAuthorization(ethtypes.SetCodeAuthorization{
		ChainID: *uint256.NewInt(uint64(populated.ChainID)),
		Address: target,
		Nonce:   nonce + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("can't sign authorization: %w", err)
	}

	tx, err := newSetCodeTransaction(populated, []ethtypes.SetCodeAuthorization{auth})
	if err != nil {
		return nil, err
	}
	signed, err := signer.SignTransaction(tx, chainIDBig(populated.ChainID))
	if err != nil {
		return nil, fmt.Errorf("can't sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("can't serialize transaction: %w", err)
	}

	sendTimestamp := s.now()
	hash, err := p.Provider.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, err
	}
	log.Debugf("raw transaction %s sent on chain %d", hash, populated.ChainID)

	found, err := s.waitForTransaction(ctx, p.Provider, hash)
	if err != nil {
		return nil, err
	}

	return &Result{
		Transaction:      found,
		PopulatedRequest: populated,
		SignTimestamp:    signTimestamp,
		SendTimestamp:    sendTimestamp,
	}, nil
}

// waitForTransaction looks hash up until the provider knows it, since a
// broadcast transaction may not be indexed yet by every node behind the RPC
func (s *Submitter) waitForTransaction(ctx context.Context, provider Provider, hash common.Hash) (*ethtypes.Transaction, error) {
	var (
		tx       *ethtypes.Transaction
		attempts int
	)
	lookup := func() error {
		attempts++
		var err error
		tx, err = provider.TransactionByHash(ctx, hash)
		if err == nil && tx == nil {
			err = ethereum.NotFound
		}
		if err != nil {
			log.Debugf("transaction %s not found, attempt %d: %v", hash, attempts, err)
		}
		return err
	}

	if err := backoff.Retry(lookup, s.retry.backOff(ctx)); err != nil {
		return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrTransactionNotFound, hash, attempts, err)
	}
	return tx, nil
}

func chainIDBig(chainID types.ChainID) *big.Int {
	return new(big.Int).SetUint64(uint64(chainID))
}
