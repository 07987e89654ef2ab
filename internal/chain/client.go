package chain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Client wraps one or more ethclient connections with failover. A URL that
// fails to dial at construction is retried on use; operations rotate to
// the next URL when the current connection errors.
type Client struct {
	urls    []string
	clients []*ethclient.Client
	mu      sync.Mutex
	current int
}

// NewClient dials the given RPC URLs. At least one must be reachable.
func NewClient(urls []string) (*Client, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	clients := make([]*ethclient.Client, len(urls))
	connected := 0
	for i, url := range urls {
		client, err := ethclient.Dial(url)
		if err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			continue
		}
		clients[i] = client
		connected++
	}

	if connected == 0 {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &Client{
		urls:    urls,
		clients: clients,
	}, nil
}

// Close closes all underlying connections.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, client := range c.clients {
		if client != nil {
			client.Close()
		}
	}
}

// NonceAt returns the account nonce at the latest block, matching the
// get-transaction-count(address, "latest") collaborator contract.
func (c *Client) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce uint64
	err := c.do(ctx, func(client *ethclient.Client) error {
		var err error
		nonce, err = client.NonceAt(ctx, account, nil)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get nonce")
	}
	return nonce, nil
}

// SuggestGasPrice returns the node's current gas price.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var gasPrice *big.Int
	err := c.do(ctx, func(client *ethclient.Client) error {
		var err error
		gasPrice, err = client.SuggestGasPrice(ctx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas price")
	}
	return gasPrice, nil
}

// SendTransaction broadcasts a signed transaction. Node-side rejections
// are returned verbatim so callers can classify them.
func (c *Client) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	return c.do(ctx, func(client *ethclient.Client) error {
		return client.SendTransaction(ctx, tx)
	})
}

// TransactionReceipt returns the receipt for a mined transaction.
// A pending transaction yields ethereum.NotFound, passed through
// unwrapped so pollers can distinguish "not yet" from real failures.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	var receipt *ethtypes.Receipt
	err := c.do(ctx, func(client *ethclient.Client) error {
		var err error
		receipt, err = client.TransactionReceipt(ctx, txHash)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ChainID returns the chain id of the connected network.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int
	err := c.do(ctx, func(client *ethclient.Client) error {
		var err error
		chainID, err = client.ChainID(ctx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}
	return chainID, nil
}

// do runs op against the current connection, rotating through the
// configured URLs until one succeeds. SendTransaction errors are not
// grounds for failover: the node answered, it just said no.
func (c *Client) do(ctx context.Context, op func(*ethclient.Client) error) error {
	var lastErr error

	for i := 0; i < len(c.urls); i++ {
		client, idx, err := c.acquire()
		if err != nil {
			return err
		}

		if err := op(client); err != nil {
			lastErr = err
			if !isConnectionError(err) {
				return err
			}
			log.Warn().
				Str("url", c.urls[idx]).
				Err(err).
				Msg("RPC node unavailable, rotating to next URL")
			c.rotate(idx)
			continue
		}
		return nil
	}

	return errors.Wrap(lastErr, "all RPC nodes are unavailable")
}

// acquire returns the current connection, redialing its URL if the
// initial dial failed.
func (c *Client) acquire() (*ethclient.Client, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < len(c.clients); i++ {
		idx := (c.current + i) % len(c.clients)
		if c.clients[idx] == nil {
			client, err := ethclient.Dial(c.urls[idx])
			if err != nil {
				continue
			}
			c.clients[idx] = client
		}
		c.current = idx
		return c.clients[idx], idx, nil
	}

	return nil, 0, errors.New("all RPC clients are unavailable")
}

// rotate advances past a failed connection.
func (c *Client) rotate(failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == failed {
		c.current = (failed + 1) % len(c.clients)
	}
}

// isConnectionError distinguishes transport failures (worth a failover)
// from answers the node actually gave.
func isConnectionError(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return false
	}
	if errors.Is(err, ethereum.NotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
