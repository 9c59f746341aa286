package monerorpc

import (
	"context"
	"fmt"
)

// Regtest is a Daemon connected to a regtest network, where blocks can be mined on demand.
type Regtest struct {
	Daemon
}

// GenerateBlocks mines amount blocks paying their rewards to address.
func (r Regtest) GenerateBlocks(ctx context.Context, amount uint64, address Address) (*GeneratedBlocks, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount of blocks must be positive", ErrInvalidArgument)
	}

	params := struct {
		AmountOfBlocks uint64  `json:"amount_of_blocks"`
		WalletAddress  Address `json:"wallet_address"`
	}{
		AmountOfBlocks: amount,
		WalletAddress:  address,
	}
	return call[GeneratedBlocks](ctx, r.c, endpointJSONRPC, "generateblocks", params)
}
