package ethprovider

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	txtypes "github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrIncompatibleChainID is returned when the RPC url serves another chain
var ErrIncompatibleChainID = errors.New("rpc url returned incompatible chainID")

// Client is a JSON-RPC provider bound to one chain
type Client struct {
	chainID   txtypes.ChainID
	label     string
	url       string
	private   bool
	timeout   time.Duration
	rawClient *rpc.Client
	client    *ethclient.Client
}

// Dial connects to url and checks it serves chainID
func Dial(ctx context.Context, url string, chainID txtypes.ChainID, timeout time.Duration) (*Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rawClient, err := rpc.DialContext(dialCtx, url)
	if err != nil {
		return nil, fmt.Errorf("can't dial JSON rpc url: %w", err)
	}
	c := NewClient(rawClient, chainID, timeout)
	c.url = url

	rpcChainID, err := c.client.ChainID(dialCtx)
	if err != nil {
		rawClient.Close()
		return nil, fmt.Errorf("can't get chainID: %w", err)
	}
	if rpcChainID.Uint64() != uint64(chainID) {
		rawClient.Close()
		return nil, fmt.Errorf("received chainID %s != expected %d: %w", rpcChainID, chainID, ErrIncompatibleChainID)
	}
	return c, nil
}

// NewClient wraps an already connected rpc client
func NewClient(rawClient *rpc.Client, chainID txtypes.ChainID, timeout time.Duration) *Client {
	return &Client{
		chainID:   chainID,
		label:     chainID.String(),
		timeout:   timeout,
		rawClient: rawClient,
		client:    ethclient.NewClient(rawClient),
	}
}

func (c *Client) ChainID() txtypes.ChainID {
	return c.chainID
}

// IsPrivate tells whether the client sends through a private mempool
func (c *Client) IsPrivate() bool {
	return c.private
}

// URL returns the endpoint, empty for in process clients
func (c *Client) URL() string {
	return c.url
}

func (c *Client) Close() {
	c.rawClient.Close()
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	defer observeDuration(c.label, "eth_blockNumber")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.client.BlockNumber(ctx)
	observeError(c.label, "eth_blockNumber", err)
	return n, err
}

func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	defer observeDuration(c.label, "eth_getTransactionCount")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	nonce, err := c.client.PendingNonceAt(ctx, account)
	observeError(c.label, "eth_getTransactionCount", err)
	return nonce, err
}

func (c *Client) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	defer observeDuration(c.label, "eth_getCode")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	code, err := c.client.CodeAt(ctx, account, nil)
	observeError(c.label, "eth_getCode", err)
	return code, err
}

func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	defer observeDuration(c.label, "eth_getTransactionByHash")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tx, _, err := c.client.TransactionByHash(ctx, hash)
	observeError(c.label, "eth_getTransactionByHash", err)
	return tx, err
}

// TransactionReceipt returns ethereum.NotFound while the transaction is not mined
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	defer observeDuration(c.label, "eth_getTransactionReceipt")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	receipt, err := c.client.TransactionReceipt(ctx, hash)
	observeError(c.label, "eth_getTransactionReceipt", err)
	return receipt, err
}

// SendTransaction broadcasts a signed transaction
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	defer observeDuration(c.label, "eth_sendRawTransaction")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.client.SendTransaction(ctx, tx)
	observeError(c.label, "eth_sendRawTransaction", err)
	return err
}

// SendRawTransaction broadcasts an already serialized transaction
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	defer observeDuration(c.label, "eth_sendRawTransaction")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var hash common.Hash
	err := c.rawClient.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw))
	observeError(c.label, "eth_sendRawTransaction", err)
	return hash, err
}

// PopulateTransaction fills nonce, fees and gas limit left unset in req
func (c *Client) PopulateTransaction(ctx context.Context, req txtypes.TransactionRequest) (txtypes.TransactionRequest, error) {
	out := req.Copy()
	out.ChainID = c.chainID

	if out.Nonce == nil {
		nonce, err := c.PendingNonceAt(ctx, out.From)
		if err != nil {
			return out, fmt.Errorf("can't get nonce: %w", err)
		}
		n := hexutil.Uint64(nonce)
		out.Nonce = &n
	}

	if out.GasPrice == nil && (out.MaxFeePerGas == nil || out.MaxPriorityFeePerGas == nil) {
		if err := c.populateFees(ctx, &out); err != nil {
			return out, err
		}
	}

	if out.GasLimit == nil {
		gas, err := c.estimateGas(ctx, out)
		if err != nil {
			return out, fmt.Errorf("can't estimate gas: %w", err)
		}
		g := hexutil.Uint64(gas)
		out.GasLimit = &g
	}
	return out, nil
}

func (c *Client) populateFees(ctx context.Context, req *txtypes.TransactionRequest) error {
	defer observeDuration(c.label, "populate_fees")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	head, err := c.client.HeaderByNumber(ctx, nil)
	observeError(c.label, "eth_getBlockByNumber", err)
	if err != nil {
		return fmt.Errorf("can't get latest header: %w", err)
	}

	if head.BaseFee == nil {
		gasPrice, err := c.client.SuggestGasPrice(ctx)
		observeError(c.label, "eth_gasPrice", err)
		if err != nil {
			return fmt.Errorf("can't get gas price: %w", err)
		}
		req.GasPrice = (*hexutil.Big)(gasPrice)
		return nil
	}

	if req.MaxPriorityFeePerGas == nil {
		tip, err := c.client.SuggestGasTipCap(ctx)
		observeError(c.label, "eth_maxPriorityFeePerGas", err)
		if err != nil {
			return fmt.Errorf("can't get gas tip cap: %w", err)
		}
		req.MaxPriorityFeePerGas = (*hexutil.Big)(tip)
	}
	if req.MaxFeePerGas == nil {
		maxFee := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
		maxFee.Add(maxFee, req.MaxPriorityFeePerGas.ToInt())
		req.MaxFeePerGas = (*hexutil.Big)(maxFee)
	}
	return nil
}

func (c *Client) estimateGas(ctx context.Context, req txtypes.TransactionRequest) (uint64, error) {
	defer observeDuration(c.label, "eth_estimateGas")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	gas, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  req.From,
		To:    req.To,
		Value: req.ValueOrZero(),
		Data:  req.Data,
	})
	observeError(c.label, "eth_estimateGas", err)
	return gas, err
}
