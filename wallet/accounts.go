package wallet

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnknownAccount is returned for addresses not registered in the wallet
	ErrUnknownAccount = errors.New("unknown account")
	// ErrReadOnlyAccount is returned when a signer is requested for a watched account
	ErrReadOnlyAccount = errors.New("account has no signer")
)

// AccountType tells whether the wallet can sign for an account
type AccountType string

const (
	// AccountTypeSigner accounts backed by a key
	AccountTypeSigner AccountType = "signer"
	// AccountTypeReadonly watched accounts
	AccountTypeReadonly AccountType = "readonly"
)

// Account is a wallet account
type Account struct {
	Address common.Address `json:"address"`
	Type    AccountType    `json:"type"`
}

// Wallet keeps the accounts and their signers
type Wallet struct {
	mu       sync.RWMutex
	accounts map[common.Address]Account
	signers  map[common.Address]Signer
}

// NewWallet builds the wallet described by cfg
func NewWallet(cfg Config) (*Wallet, error) {
	w := &Wallet{
		accounts: map[common.Address]Account{},
		signers:  map[common.Address]Signer{},
	}
	for i, key := range cfg.PrivateKeys {
		signer, err := NewKeySigner(key)
		if err != nil {
			return nil, fmt.Errorf("private key %d: %w", i, err)
		}
		w.AddSigner(signer)
	}
	for _, addr := range cfg.WatchAddresses {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid watch address %q", addr)
		}
		w.AddWatched(common.HexToAddress(addr))
	}
	return w, nil
}

// AddSigner registers a signing account
func (w *Wallet) AddSigner(signer Signer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	addr := signer.Address()
	w.accounts[addr] = Account{Address: addr, Type: AccountTypeSigner}
	w.signers[addr] = signer
}

// AddWatched registers a read only account, signing accounts are left as they are
func (w *Wallet) AddWatched(addr common.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, found := w.accounts[addr]; !found {
		w.accounts[addr] = Account{Address: addr, Type: AccountTypeReadonly}
	}
}

// Account returns the registered account of addr
func (w *Wallet) Account(addr common.Address) (Account, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	account, found := w.accounts[addr]
	if !found {
		return Account{}, fmt.Errorf("%w: %s", ErrUnknownAccount, addr)
	}
	return account, nil
}

// Accounts returns every account ordered by address
func (w *Wallet) Accounts() []Account {
	w.mu.RLock()
	defer w.mu.RUnlock()
	accounts := make([]Account, 0, len(w.accounts))
	for _, account := range w.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Address.Cmp(accounts[j].Address) < 0
	})
	return accounts
}

// Signer returns the signer bound to account
func (w *Wallet) Signer(account Account) (Signer, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	signer, found := w.signers[account.Address]
	if !found {
		if _, known := w.accounts[account.Address]; known {
			return nil, fmt.Errorf("%w: %s", ErrReadOnlyAccount, account.Address)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Address)
	}
	return signer, nil
}
