package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

const (
	ordersPath = "/v2/orders"
	swapsPath  = "/v1/swaps"
)

// Bridge statuses reported by the swaps endpoint
const (
	swapStatusPending  = "PENDING"
	swapStatusSuccess  = "SUCCESS"
	swapStatusFailed   = "FAILED"
	swapStatusExpired  = "EXPIRED"
	swapStatusNotFound = "NOT_FOUND"
)

// APIClient queries the orders and swaps endpoints of the trading API
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a client for the API at baseURL
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type ordersResponse struct {
	Orders []OrderUpdate `json:"orders"`
}

// FetchOrders returns the status of the given orders, unknown orders are omitted
func (c *APIClient) FetchOrders(ctx context.Context, orderHashes []string) ([]OrderUpdate, error) {
	query := url.Values{"orderHashes": {strings.Join(orderHashes, ",")}}
	var res ordersResponse
	if err := c.get(ctx, ordersPath, query, &res); err != nil {
		return nil, err
	}
	return res.Orders, nil
}

type swapsResponse struct {
	Swaps []struct {
		TxHash string `json:"txHash"`
		Status string `json:"status"`
	} `json:"swaps"`
}

// BridgeStatus returns the status of the destination leg of a bridge
func (c *APIClient) BridgeStatus(ctx context.Context, tx types.TransactionRecord) (types.TransactionStatus, error) {
	query := url.Values{
		"txHashes": {tx.Hash},
		"chainId":  {tx.ChainID.String()},
	}
	var res swapsResponse
	if err := c.get(ctx, swapsPath, query, &res); err != nil {
		return types.TxStatusPending, err
	}
	for _, swap := range res.Swaps {
		if !strings.EqualFold(swap.TxHash, tx.Hash) {
			continue
		}
		switch swap.Status {
		case swapStatusSuccess:
			return types.TxStatusSuccess, nil
		case swapStatusFailed, swapStatusExpired:
			return types.TxStatusFailed, nil
		case swapStatusPending, swapStatusNotFound:
			return types.TxStatusPending, nil
		default:
			return types.TxStatusPending, fmt.Errorf("unexpected swap status %q", swap.Status)
		}
	}
	return types.TxStatusPending, nil
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
