// internal/blockchain/types.go
package blockchain

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"
)

// Cluster names
const (
	ClusterMainnet  = "mainnet"
	ClusterDevnet   = "devnet"
	ClusterTestnet  = "testnet"
	ClusterLocalnet = "localnet"
	ClusterCustom   = "custom"
)

// Endpoints описывает HTTP и WebSocket адреса RPC ноды.
type Endpoints struct {
	HTTP string
	WS   string
}

// PriorityFee задаёт compute budget транзакции. Nil поля не добавляют инструкцию.
type PriorityFee struct {
	UnitLimit *uint32
	UnitPrice *uint64 // micro-lamports per compute unit
}

// Cluster описывает подключение к кластеру Solana.
type Cluster struct {
	Name        string
	RPC         Endpoints
	Commitment  rpc.CommitmentType
	PriorityFee PriorityFee
}

var presets = map[string]Endpoints{
	ClusterMainnet:  {HTTP: "https://api.mainnet-beta.solana.com", WS: "wss://api.mainnet-beta.solana.com"},
	ClusterDevnet:   {HTTP: "https://api.devnet.solana.com", WS: "wss://api.devnet.solana.com"},
	ClusterTestnet:  {HTTP: "https://api.testnet.solana.com", WS: "wss://api.testnet.solana.com"},
	ClusterLocalnet: {HTTP: "http://localhost:8899", WS: "ws://localhost:8900"},
}

// NewCluster возвращает пресет кластера по имени.
func NewCluster(name string, commitment rpc.CommitmentType, fee PriorityFee) (Cluster, error) {
	endpoints, ok := presets[name]
	if !ok {
		return Cluster{}, fmt.Errorf("unknown cluster %q", name)
	}
	return Cluster{Name: name, RPC: endpoints, Commitment: commitment, PriorityFee: fee}, nil
}

// Mainnet returns the mainnet-beta preset.
func Mainnet(commitment rpc.CommitmentType, fee PriorityFee) Cluster {
	c, _ := NewCluster(ClusterMainnet, commitment, fee)
	return c
}

// Devnet returns the devnet preset.
func Devnet(commitment rpc.CommitmentType, fee PriorityFee) Cluster {
	c, _ := NewCluster(ClusterDevnet, commitment, fee)
	return c
}

// Testnet returns the testnet preset.
func Testnet(commitment rpc.CommitmentType, fee PriorityFee) Cluster {
	c, _ := NewCluster(ClusterTestnet, commitment, fee)
	return c
}

// Localnet returns a local validator preset.
func Localnet(commitment rpc.CommitmentType, fee PriorityFee) Cluster {
	c, _ := NewCluster(ClusterLocalnet, commitment, fee)
	return c
}

// TransactionOptions определяет опции для отправки транзакций.
type TransactionOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
}
