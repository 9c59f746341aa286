package monerorpc

import (
	"context"
	"fmt"
)

// DaemonRPC exposes the monerod methods served on their own path, outside the JSON-RPC envelope.
type DaemonRPC struct {
	c *Client
}

// GetTransactions looks up transactions by hash. Hashes the daemon doesn't know are listed in MissedTx.
func (d DaemonRPC) GetTransactions(ctx context.Context, hashes []Hash, opts TransactionsOptions) (*TransactionsResult, error) {
	if len(hashes) == 0 {
		return nil, fmt.Errorf("%w: at least one transaction hash is required", ErrInvalidArgument)
	}

	params := struct {
		TxsHashes    []Hash `json:"txs_hashes"`
		DecodeAsJSON bool   `json:"decode_as_json"`
		Prune        bool   `json:"prune"`
	}{
		TxsHashes:    hashes,
		DecodeAsJSON: opts.DecodeAsJSON,
		Prune:        opts.Prune,
	}
	return call[TransactionsResult](ctx, d.c, endpointRaw, "get_transactions", params)
}

// GetHeight returns the current chain height and the hash of the top block.
func (d DaemonRPC) GetHeight(ctx context.Context) (*DaemonHeight, error) {
	return call[DaemonHeight](ctx, d.c, endpointRaw, "get_height", nil)
}
