package replacer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/analytics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/submitter"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

var (
	// ErrInvalidReplacement is returned when the original transaction has no sender or nonce
	ErrInvalidReplacement = errors.New("cannot replace invalid transaction")
	// ErrUnknownAccount is returned when the sender is not a wallet account
	ErrUnknownAccount = errors.New("cannot replace transaction, account missing")
)

// Fees overrides the fee fields of a replacement, nil fields are bumped from the original
type Fees struct {
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// Replacer speeds up and cancels pending transactions by resubmitting their nonce
type Replacer struct {
	store     storeInterface
	accounts  accountsInterface
	providers ProviderFunc
	submitter submitterInterface
	signers   submitter.SignerProvider
	notifier  notifierInterface
	analytics analytics.Sink
	newID     func() string
	now       func() time.Time
}

func NewReplacer(
	store storeInterface,
	accounts accountsInterface,
	providers ProviderFunc,
	sub submitterInterface,
	signers submitter.SignerProvider,
	notifier notifierInterface,
	sink analytics.Sink,
) *Replacer {
	return &Replacer{
		store:     store,
		accounts:  accounts,
		providers: providers,
		submitter: sub,
		signers:   signers,
		notifier:  notifier,
		analytics: sink,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Replace submits newRequest with the sender and nonce of original and tracks
// it as a new transaction. The original record is never modified here, it
// is resolved by reconciliation once one of both is mined. On failure the
// user is notified and the error returned; replacements are never retried.
func (r *Replacer) Replace(ctx context.Context, original types.TransactionRecord, newRequest types.TransactionRequest, isCancellation bool) error {
	replacementID := r.newID()
	log.Debugf("attempting replacement of tx %s on chain %d (cancel: %t)", original.Hash, original.ChainID, isCancellation)

	err := r.replace(ctx, original, newRequest, isCancellation, replacementID)
	observeReplacement(isCancellation, err)
	if err == nil {
		return nil
	}

	log.Errorf("error replacing tx %s on chain %d: %v", original.Hash, original.ChainID, err)
	// nothing is added before the submission succeeds, the removal only guards against a partial insert
	r.store.RemoveTransactionByID(original.ChainID, replacementID)

	key := notification.KeyReplaceError
	if isCancellation {
		key = notification.KeyCancelError
	}
	r.notifier.PushError(key, original.ChainID, original.Hash)
	return err
}

func (r *Replacer) replace(ctx context.Context, original types.TransactionRecord, newRequest types.TransactionRequest, isCancellation bool, replacementID string) error {
	from, nonce, err := senderAndNonce(original)
	if err != nil {
		return err
	}

	account, err := r.accounts.Account(from)
	if err != nil {
		if errors.Is(err, wallet.ErrUnknownAccount) {
			return fmt.Errorf("%w: %s", ErrUnknownAccount, original.Hash)
		}
		return err
	}

	provider, err := r.providers(ctx, original.ChainID, original.Options.IsPrivate())
	if err != nil {
		return fmt.Errorf("can't get provider for chain %d: %w", original.ChainID, err)
	}

	n := hexutil.Uint64(nonce)
	request := newRequest.Merge(types.TransactionRequest{From: from, Nonce: &n, ChainID: original.ChainID})

	res, err := r.submitter.Submit(ctx, submitter.Params{
		Request:        request,
		Account:        account,
		Provider:       provider,
		Signers:        r.signers,
		IsCancellation: isCancellation,
	})
	if err != nil {
		return err
	}
	hash := res.Hash().Hex()
	log.Infof("replacement of tx %s submitted, new hash %s", original.Hash, hash)

	if isCancellation {
		r.analytics.Send(analytics.CancelSubmitted{
			OriginalHash:    original.Hash,
			ReplacementHash: hash,
			ChainID:         original.ChainID,
			Nonce:           res.Transaction.Nonce(),
		}.Event())
	}

	status := types.TxStatusPending
	if isCancellation {
		status = types.TxStatusCancelling
	}
	populated := res.PopulatedRequest
	sign, send := types.NewTimestamp(res.SignTimestamp), types.NewTimestamp(res.SendTimestamp)

	replacement := original
	replacement.ID = replacementID
	replacement.Hash = hash
	replacement.Status = status
	replacement.AddedTime = types.NewTimestamp(r.now())
	replacement.ConfirmedTime = nil
	replacement.LastCheckedBlockNumber = 0
	replacement.Options.Request = &populated
	replacement.Options.ReplacedTransactionHash = original.Hash
	replacement.Options.SignTimestamp = &sign
	replacement.Options.SendTimestamp = &send

	return r.store.AddReplacementTransaction(replacement)
}

// SpeedUp resubmits the original request with higher fees
func (r *Replacer) SpeedUp(ctx context.Context, original types.TransactionRecord, fees Fees) error {
	if original.Options.Request == nil {
		err := fmt.Errorf("%w: %s has no request", ErrInvalidReplacement, original.Hash)
		r.notifier.PushError(notification.KeyReplaceError, original.ChainID, original.Hash)
		return err
	}
	request := original.Options.Request.Copy()
	applyFees(&request, fees)
	return r.Replace(ctx, original, request, false)
}

// Cancel replaces the original with a zero value self send
func (r *Replacer) Cancel(ctx context.Context, original types.TransactionRecord, fees Fees) error {
	from, _, _ := senderAndNonce(original)
	request := types.TransactionRequest{
		From:  from,
		To:    &from,
		Value: (*hexutil.Big)(new(big.Int)),
		Data:  hexutil.Bytes{},
	}
	if original.Options.Request != nil {
		request.GasPrice = original.Options.Request.GasPrice
		request.MaxFeePerGas = original.Options.Request.MaxFeePerGas
		request.MaxPriorityFeePerGas = original.Options.Request.MaxPriorityFeePerGas
		request = request.Copy()
	}
	applyFees(&request, fees)
	return r.Replace(ctx, original, request, true)
}

func senderAndNonce(tx types.TransactionRecord) (common.Address, uint64, error) {
	from, nonce := tx.From, tx.Nonce
	if req := tx.Options.Request; req != nil {
		if req.From != (common.Address{}) {
			from = req.From
		}
		if n, ok := req.NonceValue(); ok {
			nonce = &n
		}
	}
	if from == (common.Address{}) || nonce == nil {
		return common.Address{}, 0, fmt.Errorf("%w: %s", ErrInvalidReplacement, tx.Hash)
	}
	return from, *nonce, nil
}

// applyFees sets the given fees, bumping by 10% the ones left nil
func applyFees(req *types.TransactionRequest, fees Fees) {
	req.GasPrice = pickFee(fees.GasPrice, req.GasPrice)
	req.MaxFeePerGas = pickFee(fees.MaxFeePerGas, req.MaxFeePerGas)
	req.MaxPriorityFeePerGas = pickFee(fees.MaxPriorityFeePerGas, req.MaxPriorityFeePerGas)
	if req.IsDynamicFee() {
		req.GasPrice = nil
	}
}

func pickFee(override *big.Int, current *hexutil.Big) *hexutil.Big {
	if override != nil {
		return (*hexutil.Big)(new(big.Int).Set(override))
	}
	if current == nil {
		return nil
	}
	bumped := new(big.Int).Mul(current.ToInt(), big.NewInt(110))
	bumped.Div(bumped, big.NewInt(100))
	bumped.Add(bumped, big.NewInt(1))
	return (*hexutil.Big)(bumped)
}
