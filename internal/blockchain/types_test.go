package blockchain

import (
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCluster(t *testing.T) {
	price := uint64(5_000)
	fee := PriorityFee{UnitPrice: &price}

	c, err := NewCluster(ClusterDevnet, rpc.CommitmentFinalized, fee)
	require.NoError(t, err)
	assert.Equal(t, "https://api.devnet.solana.com", c.RPC.HTTP)
	assert.Equal(t, "wss://api.devnet.solana.com", c.RPC.WS)
	assert.Equal(t, rpc.CommitmentFinalized, c.Commitment)
	assert.Equal(t, &price, c.PriorityFee.UnitPrice)

	_, err = NewCluster("moonnet", rpc.CommitmentConfirmed, fee)
	assert.Error(t, err)

	assert.Equal(t, ClusterMainnet, Mainnet(rpc.CommitmentConfirmed, PriorityFee{}).Name)
	assert.Equal(t, "ws://localhost:8900", Localnet(rpc.CommitmentConfirmed, PriorityFee{}).RPC.WS)
}
