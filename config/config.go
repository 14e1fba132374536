// Package config loads service configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/baselock/baselock-go/validation"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Chain  ChainConfig  `yaml:"chain"`
	Locks  LocksConfig  `yaml:"locks"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StoreConfig struct {
	Type  string      `yaml:"type"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ChainConfig is the static chain-side configuration: it is injected into
// the gate at construction and never read at verification time.
type ChainConfig struct {
	RPCURL          string        `yaml:"rpc_url"`
	ContractAddress string        `yaml:"contract_address"`
	StableToken     string        `yaml:"stable_token"`
	StableDecimals  int           `yaml:"stable_decimals"`
	NativeRate      string        `yaml:"native_rate"` // native units per stable reference unit
	FromBlock       uint64        `yaml:"from_block"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

type LocksConfig struct {
	MinPrice string `yaml:"min_price"`
	MaxPrice string `yaml:"max_price"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: StoreConfig{
			Type: "memory",
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				Password: "",
				DB:       0,
			},
		},
		Chain: ChainConfig{
			RPCURL:          "https://mainnet.base.org",
			ContractAddress: "0x5CB532D8799b36a6E5dfa1663b6cFDDdDB431405",
			StableToken:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
			StableDecimals:  6,
			NativeRate:      "0.0003",
			FromBlock:       0,
			RequestTimeout:  10 * time.Second,
		},
		Locks: LocksConfig{
			MinPrice: "1",
			MaxPrice: "10000",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is OK, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	if v := os.Getenv("STORE_TYPE"); v != "" {
		c.Store.Type = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Store.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.Redis.DB = db
		}
	}

	if v := os.Getenv("RPC_URL"); v != "" {
		c.Chain.RPCURL = v
	}
	if v := os.Getenv("CONTRACT_ADDRESS"); v != "" {
		c.Chain.ContractAddress = v
	}
	if v := os.Getenv("STABLE_TOKEN"); v != "" {
		c.Chain.StableToken = v
	}
	if v := os.Getenv("NATIVE_RATE"); v != "" {
		c.Chain.NativeRate = v
	}
	if v := os.Getenv("FROM_BLOCK"); v != "" {
		if block, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Chain.FromBlock = block
		}
	}
	if v := os.Getenv("CHAIN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Chain.RequestTimeout = d
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Store.Type != "memory" && c.Store.Type != "redis" {
		return fmt.Errorf("invalid store type: %s (must be 'memory' or 'redis')", c.Store.Type)
	}
	if c.Store.Type == "redis" && c.Store.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when store type is 'redis'")
	}

	if c.Chain.RPCURL == "" {
		return fmt.Errorf("rpc_url is required")
	}
	if err := validation.ValidateAddress(c.Chain.ContractAddress); err != nil {
		return fmt.Errorf("contract_address: %w", err)
	}
	if err := validation.ValidateAddress(c.Chain.StableToken); err != nil {
		return fmt.Errorf("stable_token: %w", err)
	}
	if c.Chain.StableDecimals < 0 || c.Chain.StableDecimals > 18 {
		return fmt.Errorf("invalid stable_decimals: %d", c.Chain.StableDecimals)
	}
	if rate, ok := new(big.Rat).SetString(c.Chain.NativeRate); !ok || rate.Sign() <= 0 {
		return fmt.Errorf("invalid native_rate: %s", c.Chain.NativeRate)
	}
	if c.Chain.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	min, max, err := c.PriceBounds()
	if err != nil {
		return err
	}
	if max.Cmp(min) < 0 {
		return fmt.Errorf("max_price must be >= min_price")
	}

	return nil
}

// PriceBounds returns the inclusive lock price bounds.
func (c *Config) PriceBounds() (min, max *big.Rat, err error) {
	min, ok := new(big.Rat).SetString(c.Locks.MinPrice)
	if !ok || min.Sign() <= 0 {
		return nil, nil, fmt.Errorf("invalid min_price: %s", c.Locks.MinPrice)
	}
	max, ok = new(big.Rat).SetString(c.Locks.MaxPrice)
	if !ok || max.Sign() <= 0 {
		return nil, nil, fmt.Errorf("invalid max_price: %s", c.Locks.MaxPrice)
	}
	return min, max, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
