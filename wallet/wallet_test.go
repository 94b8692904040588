package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// well known development key
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var testAddress = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

func TestNewWallet(t *testing.T) {
	w, err := NewWallet(Config{
		PrivateKeys:    []string{testKey},
		WatchAddresses: []string{"0x0000000000000000000000000000000000000456", testAddress.Hex()},
	})
	require.NoError(t, err)

	account, err := w.Account(testAddress)
	require.NoError(t, err)
	assert.Equal(t, AccountTypeSigner, account.Type)

	watched, err := w.Account(common.HexToAddress("0x456"))
	require.NoError(t, err)
	assert.Equal(t, AccountTypeReadonly, watched.Type)
	_, err = w.Signer(watched)
	assert.ErrorIs(t, err, ErrReadOnlyAccount)

	_, err = w.Account(common.HexToAddress("0x789"))
	assert.ErrorIs(t, err, ErrUnknownAccount)
	_, err = w.Signer(Account{Address: common.HexToAddress("0x789")})
	assert.ErrorIs(t, err, ErrUnknownAccount)

	assert.Len(t, w.Accounts(), 2)

	_, err = NewWallet(Config{PrivateKeys: []string{"0x1234"}})
	assert.Error(t, err)
	_, err = NewWallet(Config{WatchAddresses: []string{"nope"}})
	assert.Error(t, err)
}

func TestKeySigner(t *testing.T) {
	signer, err := NewKeySigner(testKey)
	require.NoError(t, err)
	assert.Equal(t, testAddress, signer.Address())

	chainID := big.NewInt(1)
	to := common.HexToAddress("0x2")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     1,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(10),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(0),
	})
	signed, err := signer.SignTransaction(tx, chainID)
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, testAddress, sender)

	auth, err := signer.SignAuthorization(types.SetCodeAuthorization{
		ChainID: *uint256.NewInt(1),
		Address: common.HexToAddress("0x000000009B1D0aF20D8C6d0A44e162d11F9b8f00"),
		Nonce:   2,
	})
	require.NoError(t, err)
	authority, err := auth.Authority()
	require.NoError(t, err)
	assert.Equal(t, testAddress, authority)
}
