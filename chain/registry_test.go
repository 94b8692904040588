package chain

import (
	"testing"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r, err := NewRegistry(Config{})
	require.NoError(t, err)

	for _, id := range []types.ChainID{10, 42161, 8453, 324, 7777777, 81457, 130, 480, 1101} {
		assert.True(t, r.IsL2(id), "chain %d", id)
	}
	assert.False(t, r.IsL2(1))
	assert.False(t, r.IsL2(137))
	assert.False(t, r.IsL2(999999))

	addr, ok := r.DelegationContract(1)
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress("0x000000009B1D0aF20D8C6d0A44e162d11F9b8f00"), addr)
	_, ok = r.DelegationContract(137)
	assert.False(t, ok)

	mainnet, ok := r.Chain(1)
	require.True(t, ok)
	assert.NotEmpty(t, mainnet.PrivateRPCURL)

	chains := r.Chains()
	assert.Equal(t, types.ChainID(1), chains[0].ID)
}

func TestParseRegistry(t *testing.T) {
	type testCase struct {
		Name          string
		Input         string
		ExpectedError bool
	}

	testCases := []testCase{
		{Name: "valid", Input: "chains:\n  - id: 5\n    name: test\n"},
		{Name: "unknown field", Input: "chains:\n  - id: 5\n    colour: red\n", ExpectedError: true},
		{Name: "missing id", Input: "chains:\n  - name: test\n", ExpectedError: true},
		{Name: "duplicated id", Input: "chains:\n  - id: 5\n  - id: 5\n", ExpectedError: true},
		{Name: "bad delegation contract", Input: "chains:\n  - id: 5\n    delegation_contract: nope\n", ExpectedError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tc.Input))
			if tc.ExpectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
