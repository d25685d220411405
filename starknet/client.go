package starknet

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/omni/timeout-syncer/felt"
)

var (
	ErrIncompatibleChainID = errors.New("rpc url returned incompatible chainID")
	ErrInvalidURL          = errors.New("invalid rpc url")
)

type Client interface {
	ChainID(ctx context.Context) (string, error)
	BlockNumber(ctx context.Context) (uint64, error)
	GetEvents(ctx context.Context, filter *EventFilter) (*EventsChunk, error)
}

type rpcClient struct {
	url       string
	timeout   time.Duration
	rawClient *rpc.Client
}

func NewClient(rawURL string, timeout time.Duration, chainID string) (Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: empty host in %q", ErrInvalidURL, rawURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rawClient, err := rpc.DialContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("can't dial JSON rpc url: %w", err)
	}
	client := &rpcClient{
		url:       u.Host,
		timeout:   timeout,
		rawClient: rawClient,
	}
	if chainID == "" {
		return client, nil
	}
	rpcChainID, err := client.ChainID(context.Background())
	if err != nil {
		rawClient.Close()
		return nil, fmt.Errorf("can't get chainID: %w", err)
	}
	if rpcChainID != chainID {
		rawClient.Close()
		return nil, fmt.Errorf("received chainID %s != expected %s: %w", rpcChainID, chainID, ErrIncompatibleChainID)
	}
	return client, nil
}

func (c *rpcClient) ChainID(ctx context.Context) (string, error) {
	defer ObserveDuration(c.url, "starknet_chainId")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var res felt.Felt
	err := c.rawClient.CallContext(ctx, &res, "starknet_chainId")
	ObserveError(c.url, "starknet_chainId", err)
	if err != nil {
		return "", err
	}
	return res.ShortString()
}

func (c *rpcClient) BlockNumber(ctx context.Context) (uint64, error) {
	defer ObserveDuration(c.url, "starknet_blockNumber")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var n uint64
	err := c.rawClient.CallContext(ctx, &n, "starknet_blockNumber")
	ObserveError(c.url, "starknet_blockNumber", err)
	return n, err
}

func (c *rpcClient) GetEvents(ctx context.Context, filter *EventFilter) (*EventsChunk, error) {
	defer ObserveDuration(c.url, "starknet_getEvents")()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chunk := new(EventsChunk)
	err := c.rawClient.CallContext(ctx, chunk, "starknet_getEvents", filter)
	ObserveError(c.url, "starknet_getEvents", err)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}
