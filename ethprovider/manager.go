package ethprovider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/chain"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

var (
	// ErrUnknownChain is returned for chains missing from the registry
	ErrUnknownChain = errors.New("unknown chain")
	// ErrNoPrivateRPC is returned when a chain has no private RPC configured
	ErrNoPrivateRPC = errors.New("chain has no private rpc")
)

type clientKey struct {
	chainID types.ChainID
	private bool
}

// Manager lazily dials and caches one client per chain and privacy channel
type Manager struct {
	cfg      Config
	registry *chain.Registry

	mu      sync.Mutex
	clients map[clientKey]*Client
}

func NewManager(cfg Config, registry *chain.Registry) *Manager {
	return &Manager{
		cfg:      cfg,
		registry: registry,
		clients:  map[clientKey]*Client{},
	}
}

// Provider returns the public provider of the chain
func (m *Manager) Provider(ctx context.Context, chainID types.ChainID) (*Client, error) {
	return m.get(ctx, clientKey{chainID: chainID})
}

// PrivateProvider returns the provider sending through the private mempool of the chain
func (m *Manager) PrivateProvider(ctx context.Context, chainID types.ChainID) (*Client, error) {
	return m.get(ctx, clientKey{chainID: chainID, private: true})
}

// Set registers an already built client, replacing any cached one
func (m *Manager) Set(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[clientKey{chainID: c.chainID, private: c.private}] = c
}

func (m *Manager) get(ctx context.Context, key clientKey) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, found := m.clients[key]; found {
		return c, nil
	}

	ch, found := m.registry.Chain(key.chainID)
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChain, key.chainID)
	}
	url := ch.RPCURL
	if key.private {
		if ch.PrivateRPCURL == "" {
			return nil, fmt.Errorf("%w: %d", ErrNoPrivateRPC, key.chainID)
		}
		url = ch.PrivateRPCURL
	}

	c, err := Dial(ctx, url, key.chainID, m.cfg.Timeout.Duration)
	if err != nil {
		return nil, err
	}
	c.private = key.private
	log.Infof("connected to %s rpc for chain %d (private: %t)", ch.Name, key.chainID, key.private)
	m.clients[key] = c
	return c, nil
}

// Close closes every cached client
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, c := range m.clients {
		c.Close()
		delete(m.clients, key)
	}
}
