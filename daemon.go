package monerorpc

import (
	"context"
	"fmt"
)

// codeTooBigHeight is what monerod reports for a height past its chain tip.
const codeTooBigHeight = -2

// Daemon exposes the monerod methods served behind /json_rpc.
type Daemon struct {
	c *Client
}

// Regtest returns the daemon view extended with regtest-only methods.
func (d Daemon) Regtest() Regtest {
	return Regtest{Daemon: d}
}

// GetBlockCount returns the number of blocks in the longest chain.
func (d Daemon) GetBlockCount(ctx context.Context) (uint64, error) {
	type result struct {
		Count uint64 `json:"count"`
	}
	res, err := call[result](ctx, d.c, endpointJSONRPC, "get_block_count", nil)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// OnGetBlockHash returns the hash of the block at height.
// Heights past the chain tip fail with ErrInvalidHeight.
func (d Daemon) OnGetBlockHash(ctx context.Context, height uint64) (Hash, error) {
	res, err := callChecked[Hash](ctx, d.c, endpointJSONRPC, "on_get_block_hash", []uint64{height}, func(h *Hash) error {
		// older daemons answer an out of range height with a zero hash
		if h.IsZero() {
			return fmt.Errorf("%w %d supplied", ErrInvalidHeight, height)
		}
		return nil
	})
	if err != nil {
		if code, ok := remoteCode(err); ok && code == codeTooBigHeight {
			return Hash{}, fmt.Errorf("%w %d supplied: %w", ErrInvalidHeight, height, err)
		}
		return Hash{}, err
	}
	return *res, nil
}

// GetBlockTemplate returns a block template mining to address with reserveSize bytes reserved for the miner.
func (d Daemon) GetBlockTemplate(ctx context.Context, address Address, reserveSize uint64) (*BlockTemplate, error) {
	params := struct {
		WalletAddress Address `json:"wallet_address"`
		ReserveSize   uint64  `json:"reserve_size"`
	}{
		WalletAddress: address,
		ReserveSize:   reserveSize,
	}
	return call[BlockTemplate](ctx, d.c, endpointJSONRPC, "get_block_template", params)
}

// SubmitBlock submits a mined block blob to the network.
func (d Daemon) SubmitBlock(ctx context.Context, blob HexBytes) error {
	if len(blob) == 0 {
		return fmt.Errorf("%w: empty block blob", ErrInvalidArgument)
	}
	_, err := call[struct{}](ctx, d.c, endpointJSONRPC, "submit_block", []HexBytes{blob})
	return err
}

type headerSelectorKind int

const (
	headerLast headerSelectorKind = iota
	headerByHash
	headerByHeight
)

// BlockHeaderSelector picks which block header GetBlockHeader fetches.
type BlockHeaderSelector struct {
	kind   headerSelectorKind
	hash   Hash
	height uint64
}

// Last selects the header of the chain tip.
func Last() BlockHeaderSelector {
	return BlockHeaderSelector{kind: headerLast}
}

func ByHash(hash Hash) BlockHeaderSelector {
	return BlockHeaderSelector{kind: headerByHash, hash: hash}
}

func ByHeight(height uint64) BlockHeaderSelector {
	return BlockHeaderSelector{kind: headerByHeight, height: height}
}

func (s BlockHeaderSelector) String() string {
	switch s.kind {
	case headerByHash:
		return "hash " + s.hash.String()
	case headerByHeight:
		return fmt.Sprintf("height %d", s.height)
	default:
		return "last"
	}
}

type blockHeaderResult struct {
	BlockHeader BlockHeader `json:"block_header"`
}

// GetBlockHeader fetches one block header. A height past the chain tip fails with ErrInvalidHeight.
func (d Daemon) GetBlockHeader(ctx context.Context, selector BlockHeaderSelector) (*BlockHeader, error) {
	var (
		res *blockHeaderResult
		err error
	)
	switch selector.kind {
	case headerByHash:
		params := struct {
			Hash Hash `json:"hash"`
		}{Hash: selector.hash}
		res, err = call[blockHeaderResult](ctx, d.c, endpointJSONRPC, "get_block_header_by_hash", params)
	case headerByHeight:
		params := struct {
			Height uint64 `json:"height"`
		}{Height: selector.height}
		res, err = call[blockHeaderResult](ctx, d.c, endpointJSONRPC, "get_block_header_by_height", params)
		if code, ok := remoteCode(err); ok && code == codeTooBigHeight {
			return nil, fmt.Errorf("%w %d supplied: %w", ErrInvalidHeight, selector.height, err)
		}
	default:
		res, err = call[blockHeaderResult](ctx, d.c, endpointJSONRPC, "get_last_block_header", nil)
	}
	if err != nil {
		return nil, err
	}

	return &res.BlockHeader, nil
}

// GetBlockHeadersRange returns the headers from start to end, both inclusive.
func (d Daemon) GetBlockHeadersRange(ctx context.Context, start, end uint64) (*BlockHeadersRange, error) {
	if start > end {
		return nil, fmt.Errorf("%w: start height %d is after end height %d", ErrInvalidArgument, start, end)
	}

	params := struct {
		StartHeight uint64 `json:"start_height"`
		EndHeight   uint64 `json:"end_height"`
	}{
		StartHeight: start,
		EndHeight:   end,
	}
	res, err := call[BlockHeadersRange](ctx, d.c, endpointJSONRPC, "get_block_headers_range", params)
	if err != nil {
		if code, ok := remoteCode(err); ok && code == codeTooBigHeight {
			return nil, fmt.Errorf("%w %d supplied: %w", ErrInvalidHeight, end, err)
		}
		return nil, err
	}

	return res, nil
}
