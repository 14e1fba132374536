package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	baselock "github.com/baselock/baselock-go"
)

// DefaultTimeout bounds each RPC call when no timeout option is given.
const DefaultTimeout = 10 * time.Second

// Client is a baselock.EventSource backed by an Ethereum JSON-RPC endpoint.
// All log searches are scoped to the configured payment contract.
type Client struct {
	eth       *ethclient.Client
	contract  common.Address
	fromBlock *big.Int
	timeout   time.Duration
}

var _ baselock.EventSource = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithFromBlock bounds log searches to blocks at or after start. Without it
// searches start from the genesis block.
func WithFromBlock(start uint64) ClientOption {
	return func(c *Client) {
		c.fromBlock = new(big.Int).SetUint64(start)
	}
}

// WithTimeout bounds each RPC call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Dial connects to an RPC endpoint and returns a client scoped to the given
// payment contract.
func Dial(rpcURL string, contract common.Address, opts ...ClientOption) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", baselock.ErrChainQuery, rpcURL, err)
	}

	c := &Client{
		eth:      eth,
		contract: contract,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PaidEvents implements baselock.EventSource. It filters the contract's Paid
// logs by payer and link-id commitment; an empty result is not an error.
func (c *Client) PaidEvents(ctx context.Context, payer common.Address, linkID common.Hash) ([]baselock.LogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := ethereum.FilterQuery{
		FromBlock: c.fromBlock,
		Addresses: []common.Address{c.contract},
		Topics: [][]common.Hash{
			{PaidEventID},
			{common.BytesToHash(payer.Bytes())},
			nil, // any receiver; the matcher checks it against the lock
			{linkID},
		},
	}

	logs, err := c.eth.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: filter logs: %v", baselock.ErrChainQuery, err)
	}

	entries := make([]baselock.LogEntry, 0, len(logs))
	for _, log := range logs {
		if log.Removed {
			continue
		}
		entries = append(entries, toLogEntry(log))
	}
	return entries, nil
}

// Receipt implements baselock.EventSource. An unknown or unmined hash maps
// to baselock.ErrReceiptNotFound; RPC failures wrap baselock.ErrChainQuery.
func (c *Client) Receipt(ctx context.Context, txHash common.Hash) (*baselock.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	receipt, err := c.eth.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, baselock.ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: transaction receipt: %v", baselock.ErrChainQuery, err)
	}

	entries := make([]baselock.LogEntry, 0, len(receipt.Logs))
	for _, log := range receipt.Logs {
		entries = append(entries, toLogEntry(*log))
	}
	return &baselock.Receipt{Status: receipt.Status, Logs: entries}, nil
}

// Close tears down the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

func toLogEntry(log types.Log) baselock.LogEntry {
	return baselock.LogEntry{
		Address: log.Address,
		Topics:  log.Topics,
		Data:    log.Data,
	}
}
