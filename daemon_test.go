package monerorpc_test

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/monerorpc"
)

const blockHeaderJSON = `{
	"block_size": 5500,
	"block_weight": 5500,
	"cumulative_difficulty": 86164894009456483,
	"cumulative_difficulty_top64": 2,
	"wide_cumulative_difficulty": "0x201321e83bb8af763",
	"depth": 0,
	"difficulty": 227026389695,
	"difficulty_top64": 0,
	"wide_difficulty": "0x34dbd3cabf",
	"hash": "` + hashA + `",
	"height": 1545999,
	"long_term_weight": 5500,
	"major_version": 6,
	"minor_version": 6,
	"miner_tx_hash": "` + hashC + `",
	"nonce": 3246403956,
	"num_txes": 5,
	"orphan_status": false,
	"pow_hash": "",
	"prev_hash": "` + hashB + `",
	"reward": 5357470176137,
	"timestamp": 1522098255
}`

func expectedBlockHeader(t *testing.T) *monerorpc.BlockHeader {
	wideCumulative, ok := new(big.Int).SetString("201321e83bb8af763", 16)
	require.True(t, ok)

	return &monerorpc.BlockHeader{
		BlockSize:                 5500,
		BlockWeight:               5500,
		CumulativeDifficulty:      86164894009456483,
		CumulativeDifficultyTop64: 2,
		WideCumulativeDifficulty:  wideCumulative,
		Difficulty:                227026389695,
		WideDifficulty:            big.NewInt(227026389695),
		Hash:                      mustHash(t, hashA),
		Height:                    1545999,
		LongTermWeight:            5500,
		MajorVersion:              6,
		MinorVersion:              6,
		MinerTxHash:               mustHash(t, hashC),
		Nonce:                     3246403956,
		NumTxes:                   5,
		PrevHash:                  mustHash(t, hashB),
		Reward:                    5357470176137,
		Timestamp:                 time.Date(2018, time.March, 26, 21, 4, 15, 0, time.UTC),
	}
}

func TestGetBlockCount(t *testing.T) {
	client, _ := newTestClient(t, respondWith(result(`{"count":993163,"status":"OK","untrusted":false}`)))

	count, err := client.Daemon().GetBlockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(993163), count)
}

func TestOnGetBlockHash(t *testing.T) {
	tests := map[string]struct {
		body                 string
		expectedHash         string
		expectedInvalid      bool
		expectedRemoteInWrap bool
	}{
		"known height": {
			body:         result(`"` + hashA + `"`),
			expectedHash: hashA,
		},
		"zero hash": {
			body:            result(`"0000000000000000000000000000000000000000000000000000000000000000"`),
			expectedInvalid: true,
		},
		"too big height": {
			body:                 rpcError(-2, "Requested block height: 100 greater than current top block height: 10"),
			expectedInvalid:      true,
			expectedRemoteInWrap: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client, remote := newTestClient(t, respondWith(test.body))

			h, err := client.Daemon().OnGetBlockHash(context.Background(), 100)

			requests := remote.recorded()
			require.Len(t, requests, 1)
			assert.Equal(t, "on_get_block_hash", requests[0].Method)
			assert.JSONEq(t, `[100]`, string(requests[0].Params))

			if test.expectedInvalid {
				assert.ErrorIs(t, err, monerorpc.ErrInvalidHeight)
				assert.ErrorContains(t, err, "invalid height 100 supplied")
				var remoteErr *monerorpc.RemoteError
				assert.Equal(t, test.expectedRemoteInWrap, errors.As(err, &remoteErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedHash, h.String())
		})
	}
}

func TestGetBlockHeader(t *testing.T) {
	tests := map[string]struct {
		selector       monerorpc.BlockHeaderSelector
		expectedMethod string
		expectedParams string
	}{
		"last": {
			selector:       monerorpc.Last(),
			expectedMethod: "get_last_block_header",
		},
		"by hash": {
			selector:       monerorpc.ByHash(mustHash(t, hashA)),
			expectedMethod: "get_block_header_by_hash",
			expectedParams: `{"hash":"` + hashA + `"}`,
		},
		"by height": {
			selector:       monerorpc.ByHeight(1545999),
			expectedMethod: "get_block_header_by_height",
			expectedParams: `{"height":1545999}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client, remote := newTestClient(t, respondWith(result(`{"block_header":`+blockHeaderJSON+`,"status":"OK","untrusted":false}`)))

			header, err := client.Daemon().GetBlockHeader(context.Background(), test.selector)
			require.NoError(t, err)
			assert.Equal(t, expectedBlockHeader(t), header)

			requests := remote.recorded()
			require.Len(t, requests, 1)
			assert.Equal(t, test.expectedMethod, requests[0].Method)
			if test.expectedParams == "" {
				assert.Empty(t, requests[0].Params)
				return
			}
			assert.JSONEq(t, test.expectedParams, string(requests[0].Params))
		})
	}
}

func TestGetBlockHeaderBeyondTip(t *testing.T) {
	client, _ := newTestClient(t, respondWith(rpcError(-2, "Requested block height: 20 greater than current top block height: 10")))

	_, err := client.Daemon().GetBlockHeader(context.Background(), monerorpc.ByHeight(20))
	assert.ErrorIs(t, err, monerorpc.ErrInvalidHeight)

	var remoteErr *monerorpc.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, -2, remoteErr.Code)
}

func TestGetBlockHeaderMalformedHash(t *testing.T) {
	client, _ := newTestClient(t, respondWith(result(`{"block_header":{"hash":"abcd","timestamp":0},"status":"OK"}`)))

	_, err := client.Daemon().GetBlockHeader(context.Background(), monerorpc.Last())
	assert.ErrorIs(t, err, monerorpc.ErrMalformedHash)

	var decodingErr *monerorpc.DecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.Equal(t, "get_last_block_header", decodingErr.Method)
}

func TestBlockHeaderWideDifficulty(t *testing.T) {
	t.Run("cumulative difficulty beyond 64 bits", func(t *testing.T) {
		client, _ := newTestClient(t, respondWith(result(`{"block_header":`+blockHeaderJSON+`,"status":"OK"}`)))

		header, err := client.Daemon().GetBlockHeader(context.Background(), monerorpc.Last())
		require.NoError(t, err)
		require.NotNil(t, header.WideCumulativeDifficulty)
		assert.False(t, header.WideCumulativeDifficulty.IsUint64())

		// the low 64 bits match the truncated field
		low := new(big.Int).And(header.WideCumulativeDifficulty, new(big.Int).SetUint64(^uint64(0)))
		assert.Equal(t, header.CumulativeDifficulty, low.Uint64())
		top := new(big.Int).Rsh(header.WideCumulativeDifficulty, 64)
		assert.Equal(t, header.CumulativeDifficultyTop64, top.Uint64())
	})

	t.Run("absent on older daemons", func(t *testing.T) {
		client, _ := newTestClient(t, respondWith(result(`{"block_header":{"hash":"`+hashA+`","difficulty":5,"timestamp":0},"status":"OK"}`)))

		header, err := client.Daemon().GetBlockHeader(context.Background(), monerorpc.Last())
		require.NoError(t, err)
		assert.Nil(t, header.WideDifficulty)
		assert.Nil(t, header.WideCumulativeDifficulty)
		assert.Equal(t, uint64(5), header.Difficulty)
	})

	tests := map[string]string{
		"not hex":       `"0xzz"`,
		"negative":      `"-0x10"`,
		"over 128 bits": `"0x1` + strings.Repeat("0", 32) + `"`,
	}
	for name, wide := range tests {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, respondWith(result(`{"block_header":{"hash":"`+hashA+`","wide_difficulty":`+wide+`,"timestamp":0},"status":"OK"}`)))

			_, err := client.Daemon().GetBlockHeader(context.Background(), monerorpc.Last())
			require.Error(t, err)
			assert.ErrorContains(t, err, "wide_difficulty")

			var decodingErr *monerorpc.DecodingError
			assert.ErrorAs(t, err, &decodingErr)
		})
	}
}

func TestGetBlockHeadersRange(t *testing.T) {
	t.Run("range", func(t *testing.T) {
		client, remote := newTestClient(t, respondWith(result(`{"headers":[`+blockHeaderJSON+`,`+blockHeaderJSON+`],"status":"OK","untrusted":true}`)))

		res, err := client.Daemon().GetBlockHeadersRange(context.Background(), 1545998, 1545999)
		require.NoError(t, err)
		assert.True(t, res.Untrusted)
		require.Len(t, res.Headers, 2)
		assert.Equal(t, *expectedBlockHeader(t), res.Headers[1])

		requests := remote.recorded()
		require.Len(t, requests, 1)
		assert.JSONEq(t, `{"start_height":1545998,"end_height":1545999}`, string(requests[0].Params))
	})

	t.Run("start after end", func(t *testing.T) {
		client, remote := newTestClient(t, respondWith(result(`{}`)))

		_, err := client.Daemon().GetBlockHeadersRange(context.Background(), 10, 9)
		assert.ErrorIs(t, err, monerorpc.ErrInvalidArgument)
		assert.Empty(t, remote.recorded())
	})
}

func TestGetBlockTemplate(t *testing.T) {
	client, remote := newTestClient(t, respondWith(result(`{
		"blockhashing_blob": "0707e6bdfedc053771512f1bc27c62731ae9e8f2443db64ce742f4e57f5cf8d393de28551e441a0000000002fb830a5e7700000000000000000000000000000000000000000000000000000000000000",
		"blocktemplate_blob": "0707e6bdfedc05",
		"difficulty": 61043624293,
		"expected_reward": 4771949057248,
		"height": 1561970,
		"prev_hash": "`+hashB+`",
		"reserved_offset": 129,
		"seed_hash": "`+hashC+`",
		"seed_height": 1561920,
		"next_seed_hash": "",
		"wide_difficulty": "0xe367bc965",
		"difficulty_top64": 0,
		"status": "OK",
		"untrusted": false
	}`)))

	template, err := client.Daemon().GetBlockTemplate(context.Background(), "44GBHzv6ZyQdJkjqZje6KLZ3xSyN1hBSFAnLP6EAqJtCRVzMzZmeXTC2AHKDS9aEDTRKmo6a6o9r9j86pYfhCWDkKjbtcns", 60)
	require.NoError(t, err)
	assert.Equal(t, uint64(61043624293), template.Difficulty)
	assert.Equal(t, monerorpc.Amount(4771949057248), template.ExpectedReward)
	assert.Equal(t, uint64(1561970), template.Height)
	assert.Equal(t, mustHash(t, hashB), template.PrevHash)
	assert.Equal(t, uint64(129), template.ReservedOffset)
	assert.Equal(t, monerorpc.HexBytes{0x07, 0x07, 0xe6, 0xbd, 0xfe, 0xdc, 0x05}, template.BlocktemplateBlob)
	assert.Len(t, template.BlockhashingBlob, 80)
	assert.Equal(t, big.NewInt(61043624293), template.WideDifficulty)
	assert.Zero(t, template.DifficultyTop64)
	assert.Equal(t, uint64(1561920), template.SeedHeight)
	assert.Len(t, template.SeedHash, 32)
	assert.Empty(t, template.NextSeedHash)

	requests := remote.recorded()
	require.Len(t, requests, 1)
	assert.JSONEq(t, `{"wallet_address":"44GBHzv6ZyQdJkjqZje6KLZ3xSyN1hBSFAnLP6EAqJtCRVzMzZmeXTC2AHKDS9aEDTRKmo6a6o9r9j86pYfhCWDkKjbtcns","reserve_size":60}`, string(requests[0].Params))
}

func TestSubmitBlock(t *testing.T) {
	tests := map[string]struct {
		blob              monerorpc.HexBytes
		body              string
		expectedStatusErr bool
		expectedArgErr    bool
		expectedRequests  int
	}{
		"accepted": {
			blob:             monerorpc.HexBytes{0x07, 0x07},
			body:             result(`{"status":"OK"}`),
			expectedRequests: 1,
		},
		"rejected by status": {
			blob:              monerorpc.HexBytes{0x07, 0x07},
			body:              result(`{"status":"Block not accepted"}`),
			expectedStatusErr: true,
			expectedRequests:  1,
		},
		"empty blob": {
			blob:           nil,
			body:           result(`{"status":"OK"}`),
			expectedArgErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client, remote := newTestClient(t, respondWith(test.body))

			err := client.Daemon().SubmitBlock(context.Background(), test.blob)

			requests := remote.recorded()
			require.Len(t, requests, test.expectedRequests)
			switch {
			case test.expectedArgErr:
				assert.ErrorIs(t, err, monerorpc.ErrInvalidArgument)
			case test.expectedStatusErr:
				var statusErr *monerorpc.StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, "Block not accepted", statusErr.Status)
			default:
				require.NoError(t, err)
				assert.JSONEq(t, `["0707"]`, string(requests[0].Params))
			}
		})
	}
}

func TestGenerateBlocks(t *testing.T) {
	client, remote := newTestClient(t, respondWith(result(`{"blocks":["`+hashA+`","`+hashB+`"],"height":11,"status":"OK"}`)))

	for _, regtest := range []monerorpc.Regtest{client.Regtest(), client.Daemon().Regtest()} {
		res, err := regtest.GenerateBlocks(context.Background(), 2, "addr")
		require.NoError(t, err)
		assert.Equal(t, uint64(11), res.Height)
		assert.Equal(t, []monerorpc.Hash{mustHash(t, hashA), mustHash(t, hashB)}, res.Blocks)
	}

	requests := remote.recorded()
	require.Len(t, requests, 2)
	assert.Equal(t, "generateblocks", requests[0].Method)
	assert.JSONEq(t, `{"amount_of_blocks":2,"wallet_address":"addr"}`, string(requests[0].Params))

	_, err := client.Regtest().GenerateBlocks(context.Background(), 0, "addr")
	assert.ErrorIs(t, err, monerorpc.ErrInvalidArgument)
	assert.Len(t, remote.recorded(), 2)
}
