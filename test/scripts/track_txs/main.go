package main

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/hex"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Sends a transfer to a local node, registers it with the tracker and waits
// until the tracker reports it as final.
func main() {
	ctx := context.Background()

	nodeURL := "http://localhost:8123"
	trackerURL := "http://localhost:8545"
	privateKey := "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	chainID := uint64(1337)

	log.Infof("connecting to %s", nodeURL)
	client, err := ethclient.Dial(nodeURL)
	chkErr(err)
	tracker, err := rpc.DialContext(ctx, trackerURL)
	chkErr(err)
	log.Infof("connected")

	auth := GetAuth(privateKey, chainID)

	const receiverAddr = "0x617b3a3528F9cDd6630fd3301B9c8911F7Bf063D"
	to := common.HexToAddress(receiverAddr)

	nonce, err := client.PendingNonceAt(ctx, auth.From)
	chkErr(err)
	tx := ethTransfer(ctx, client, auth, to, big.NewInt(1), nonce)
	rlp, err := tx.MarshalBinary()
	chkErr(err)
	log.Infof("tx sent: %s", tx.Hash().Hex())

	info, err := json.Marshal(map[string]string{
		"type":              string(types.TransactionTypeSend),
		"tokenAddress":      common.Address{}.Hex(),
		"recipient":         to.Hex(),
		"currencyAmountRaw": "1",
	})
	chkErr(err)

	var hash string
	err = tracker.CallContext(ctx, &hash, "activity_trackRawTransaction", chainID, hex.EncodeToHex(rlp), json.RawMessage(info))
	chkErr(err)
	log.Infof("tx tracked: %s", hash)

	for {
		var record types.TransactionRecord
		err = tracker.CallContext(ctx, &record, "activity_getTransaction", chainID, hash)
		chkErr(err)
		if record.Status.IsFinal() {
			log.Infof("tx %s finished with status %s", hash, record.Status)
			return
		}
		time.Sleep(time.Second)
	}
}

func ethTransfer(ctx context.Context, client *ethclient.Client, auth *bind.TransactOpts, to common.Address, amount *big.Int, nonce uint64) *ethtypes.Transaction {
	gasPrice, err := client.SuggestGasPrice(ctx)
	chkErr(err)
	gasLimit := uint64(21000)

	tx := ethtypes.NewTransaction(nonce, to, amount, gasLimit, gasPrice, nil)

	signedTx, err := auth.Signer(auth.From, tx)
	chkErr(err)

	err = client.SendTransaction(ctx, signedTx)
	chkErr(err)

	return signedTx
}

// GetAuth configures and returns an auth object.
func GetAuth(privateKeyStr string, chainID uint64) *bind.TransactOpts {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyStr, "0x"))
	chkErr(err)

	txOpts, err := bind.NewKeyedTransactorWithChainID(privateKey, big.NewInt(0).SetUint64(chainID))
	chkErr(err)

	return txOpts
}

func chkErr(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
