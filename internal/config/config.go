// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain/computebudget"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PUMPFUN_RPC_URL.
const EnvPrefix = "PUMPFUN"

type Config struct {
	ClusterName string            `mapstructure:"cluster" validate:"required,oneof=mainnet devnet testnet localnet custom"`
	RPCURL      string            `mapstructure:"rpc_url" validate:"required_if=ClusterName custom,omitempty,url"`
	WSURL       string            `mapstructure:"ws_url" validate:"required_if=ClusterName custom,omitempty,url"`
	Commitment  string            `mapstructure:"commitment" validate:"oneof=processed confirmed finalized"`
	PriorityFee PriorityFeeConfig `mapstructure:"priority_fee"`
	SlippageBps uint64            `mapstructure:"slippage_bps" validate:"lte=10000"`
	QueueSize   int               `mapstructure:"queue_size" validate:"gte=1"`
	Mentions    string            `mapstructure:"mentions"`
	Keypair     string            `mapstructure:"keypair"`
	CreateATA   bool              `mapstructure:"create_ata"`
	CloseATA    bool              `mapstructure:"close_ata"`
	Log         LogConfig         `mapstructure:"log"`
	Sink        SinkConfig        `mapstructure:"sink"`
	MetricsAddr string            `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
}

// PriorityFeeConfig: нулевые значения не добавляют compute budget инструкций.
type PriorityFeeConfig struct {
	UnitLimit uint32 `mapstructure:"unit_limit"`
	UnitPrice uint64 `mapstructure:"unit_price"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
}

type SinkConfig struct {
	JSONL       string `mapstructure:"jsonl"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

const (
	DefaultCluster     = blockchain.ClusterMainnet
	DefaultCommitment  = "confirmed"
	DefaultSlippageBps = 500
	DefaultQueueSize   = 1000
	DefaultLogLevel    = "info"
)

// flagKeys maps config keys to CLI flag names.
var flagKeys = map[string]string{
	"cluster":                 "cluster",
	"rpc_url":                 "rpc-url",
	"ws_url":                  "ws-url",
	"commitment":              "commitment",
	"slippage_bps":            "slippage-bps",
	"queue_size":              "queue-size",
	"mentions":                "mentions",
	"keypair":                 "keypair",
	"create_ata":              "create-ata",
	"close_ata":               "close-ata",
	"priority_fee.unit_limit": "unit-limit",
	"priority_fee.unit_price": "unit-price",
	"log.level":               "log-level",
	"log.file":                "log-file",
	"sink.jsonl":              "jsonl",
	"sink.postgres_dsn":       "postgres",
	"metrics_addr":            "metrics-addr",
}

var validate = validator.New()

// Load reads configuration in increasing precedence: defaults, the config
// file at path (optional), .env and the environment, then flags that were set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	defaults := map[string]interface{}{
		"cluster":                 DefaultCluster,
		"rpc_url":                 "",
		"ws_url":                  "",
		"commitment":              DefaultCommitment,
		"slippage_bps":            DefaultSlippageBps,
		"queue_size":              DefaultQueueSize,
		"mentions":                "",
		"keypair":                 "",
		"create_ata":              true,
		"close_ata":               false,
		"priority_fee.unit_limit": 0,
		"priority_fee.unit_price": 0,
		"log.level":               DefaultLogLevel,
		"log.file":                "",
		"log.development":         false,
		"sink.jsonl":              "",
		"sink.postgres_dsn":       "",
		"metrics_addr":            "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the mentions address.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.MentionsKey(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Cluster resolves the cluster preset, overriding its endpoints with
// rpc_url and ws_url when set. A unit price without a unit limit gets
// computebudget.DefaultUnits as its limit.
func (c *Config) Cluster() (blockchain.Cluster, error) {
	fee := blockchain.PriorityFee{}
	if c.PriorityFee.UnitLimit > 0 {
		limit := c.PriorityFee.UnitLimit
		fee.UnitLimit = &limit
	}
	if c.PriorityFee.UnitPrice > 0 {
		price := c.PriorityFee.UnitPrice
		fee.UnitPrice = &price
		if fee.UnitLimit == nil {
			limit := computebudget.DefaultUnits
			fee.UnitLimit = &limit
		}
	}
	commitment := rpc.CommitmentType(c.Commitment)

	var cluster blockchain.Cluster
	if c.ClusterName == blockchain.ClusterCustom {
		cluster = blockchain.Cluster{Name: blockchain.ClusterCustom, Commitment: commitment, PriorityFee: fee}
	} else {
		var err error
		cluster, err = blockchain.NewCluster(c.ClusterName, commitment, fee)
		if err != nil {
			return blockchain.Cluster{}, err
		}
	}
	if c.RPCURL != "" {
		cluster.RPC.HTTP = c.RPCURL
	}
	if c.WSURL != "" {
		cluster.RPC.WS = c.WSURL
	}
	return cluster, nil
}

// MentionsKey returns the subscription filter, zero when unset.
func (c *Config) MentionsKey() (solana.PublicKey, error) {
	if c.Mentions == "" {
		return solana.PublicKey{}, nil
	}
	key, err := solana.PublicKeyFromBase58(c.Mentions)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("mentions: %w", err)
	}
	return key, nil
}
