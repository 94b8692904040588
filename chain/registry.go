package chain

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

//go:embed chains.yml
var defaultRegistry []byte

// Chain holds the per chain constants
type Chain struct {
	ID                 types.ChainID `yaml:"id"`
	Name               string        `yaml:"name"`
	L2                 bool          `yaml:"l2"`
	RPCURL             string        `yaml:"rpc_url"`
	PrivateRPCURL      string        `yaml:"private_rpc_url"`
	DelegationContract string        `yaml:"delegation_contract"`
}

type registryFile struct {
	Chains []Chain `yaml:"chains"`
}

// Registry is a read-only lookup of the supported chains
type Registry struct {
	chains map[types.ChainID]Chain
}

// NewRegistry loads the registry file of cfg, or the built in one
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.RegistryFile == "" {
		return ParseRegistry(defaultRegistry)
	}
	blob, err := os.ReadFile(cfg.RegistryFile)
	if err != nil {
		return nil, fmt.Errorf("can't read chain registry: %w", err)
	}
	return ParseRegistry(blob)
}

// ParseRegistry decodes a yaml registry
func ParseRegistry(blob []byte) (*Registry, error) {
	var file registryFile
	dec := yaml.NewDecoder(bytes.NewReader(blob))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("can't parse chain registry: %w", err)
	}

	r := &Registry{chains: make(map[types.ChainID]Chain, len(file.Chains))}
	for _, c := range file.Chains {
		if c.ID == 0 {
			return nil, fmt.Errorf("chain %q has no id", c.Name)
		}
		if _, found := r.chains[c.ID]; found {
			return nil, fmt.Errorf("chain %d declared twice", c.ID)
		}
		if c.DelegationContract != "" && !common.IsHexAddress(c.DelegationContract) {
			return nil, fmt.Errorf("chain %d has an invalid delegation contract %q", c.ID, c.DelegationContract)
		}
		r.chains[c.ID] = c
	}
	return r, nil
}

// Chain returns the constants of a chain
func (r *Registry) Chain(chainID types.ChainID) (Chain, bool) {
	c, found := r.chains[chainID]
	return c, found
}

// Chains returns every chain ordered by id
func (r *Registry) Chains() []Chain {
	chains := make([]Chain, 0, len(r.chains))
	for _, c := range r.chains {
		chains = append(chains, c)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].ID < chains[j].ID })
	return chains
}

// IsL2 tells whether the chain is a low fee L2, unknown chains are not
func (r *Registry) IsL2(chainID types.ChainID) bool {
	return r.chains[chainID].L2
}

// DelegationContract returns the contract accounts delegate to on the chain
func (r *Registry) DelegationContract(chainID types.ChainID) (common.Address, bool) {
	c, found := r.chains[chainID]
	if !found || c.DelegationContract == "" {
		return common.Address{}, false
	}
	return common.HexToAddress(c.DelegationContract), true
}
