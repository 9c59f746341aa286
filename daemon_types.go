package monerorpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Address is a standard, integrated or subaddress in its base58 form.
type Address string

func (a Address) String() string {
	return string(a)
}

// BlockHeader is the header monerod returns from get_block_header* and get_block_headers_range.
// Difficulty and CumulativeDifficulty hold the low 64 bits of 128 bit values; the Wide fields carry them whole.
type BlockHeader struct {
	BlockSize                 uint64    `json:"block_size"`
	BlockWeight               uint64    `json:"block_weight"`
	CumulativeDifficulty      uint64    `json:"cumulative_difficulty"`
	CumulativeDifficultyTop64 uint64    `json:"cumulative_difficulty_top64"`
	WideCumulativeDifficulty  *big.Int  `json:"-"`
	Depth                     uint64    `json:"depth"`
	Difficulty                uint64    `json:"difficulty"`
	DifficultyTop64           uint64    `json:"difficulty_top64"`
	WideDifficulty            *big.Int  `json:"-"`
	Hash                      Hash      `json:"hash"`
	Height                    uint64    `json:"height"`
	LongTermWeight            uint64    `json:"long_term_weight"`
	MajorVersion              uint64    `json:"major_version"`
	MinorVersion              uint64    `json:"minor_version"`
	MinerTxHash               Hash      `json:"miner_tx_hash"`
	Nonce                     uint32    `json:"nonce"`
	NumTxes                   uint64    `json:"num_txes"`
	OrphanStatus              bool      `json:"orphan_status"`
	PowHash                   HexBytes  `json:"pow_hash"`
	PrevHash                  Hash      `json:"prev_hash"`
	Reward                    Amount    `json:"reward"`
	Timestamp                 time.Time `json:"timestamp"`
}

// UnmarshalJSON converts the unix timestamp into a UTC time and parses the wide difficulties.
func (h *BlockHeader) UnmarshalJSON(data []byte) error {
	// alias to avoid infinite recursion
	type blockHeaderAlias BlockHeader
	aux := &struct {
		*blockHeaderAlias
		Timestamp                int64  `json:"timestamp"`
		WideDifficulty           string `json:"wide_difficulty"`
		WideCumulativeDifficulty string `json:"wide_cumulative_difficulty"`
	}{
		blockHeaderAlias: (*blockHeaderAlias)(h),
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}
	h.Timestamp = time.Unix(aux.Timestamp, 0).UTC()

	h.WideDifficulty, err = parseWideDifficulty(aux.WideDifficulty)
	if err != nil {
		return fmt.Errorf("wide_difficulty: %w", err)
	}
	h.WideCumulativeDifficulty, err = parseWideDifficulty(aux.WideCumulativeDifficulty)
	if err != nil {
		return fmt.Errorf("wide_cumulative_difficulty: %w", err)
	}

	return nil
}

// parseWideDifficulty parses the 0x prefixed hex form monerod uses for 128 bit difficulties.
// An absent value, as sent by daemons predating it, gives nil.
func parseWideDifficulty(s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	if !ok || n.Sign() < 0 || n.BitLen() > 128 {
		return nil, fmt.Errorf("%q is not a 128 bit hex number", s)
	}
	return n, nil
}

// BlockTemplate is the result of get_block_template.
type BlockTemplate struct {
	BlockhashingBlob  HexBytes `json:"blockhashing_blob"`
	BlocktemplateBlob HexBytes `json:"blocktemplate_blob"`
	Difficulty        uint64   `json:"difficulty"`
	DifficultyTop64   uint64   `json:"difficulty_top64"`
	WideDifficulty    *big.Int `json:"-"`
	ExpectedReward    Amount   `json:"expected_reward"`
	Height            uint64   `json:"height"`
	PrevHash          Hash     `json:"prev_hash"`
	ReservedOffset    uint64   `json:"reserved_offset"`
	// SeedHash is the RandomX key block hash; NextSeedHash is empty until the key is about to change.
	SeedHash     HexBytes `json:"seed_hash"`
	SeedHeight   uint64   `json:"seed_height"`
	NextSeedHash HexBytes `json:"next_seed_hash"`
	Untrusted    bool     `json:"untrusted"`
}

func (t *BlockTemplate) UnmarshalJSON(data []byte) error {
	type blockTemplateAlias BlockTemplate
	aux := &struct {
		*blockTemplateAlias
		WideDifficulty string `json:"wide_difficulty"`
	}{
		blockTemplateAlias: (*blockTemplateAlias)(t),
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}

	t.WideDifficulty, err = parseWideDifficulty(aux.WideDifficulty)
	if err != nil {
		return fmt.Errorf("wide_difficulty: %w", err)
	}

	return nil
}

// BlockHeadersRange is the result of get_block_headers_range.
type BlockHeadersRange struct {
	Headers   []BlockHeader `json:"headers"`
	Untrusted bool          `json:"untrusted"`
}

// GeneratedBlocks is the result of generateblocks on a regtest daemon.
type GeneratedBlocks struct {
	Height uint64 `json:"height"`
	Blocks []Hash `json:"blocks"`
}

// TransactionsOptions tunes get_transactions.
type TransactionsOptions struct {
	// DecodeAsJSON asks the daemon to also return every transaction as a JSON document.
	DecodeAsJSON bool
	// Prune drops the prunable part of each transaction.
	Prune bool
}

// TransactionsResult is the result of the raw /get_transactions endpoint.
type TransactionsResult struct {
	Credits   uint64            `json:"credits"`
	TopHash   string            `json:"top_hash"`
	MissedTx  []Hash            `json:"missed_tx"`
	Txs       []Transaction     `json:"txs"`
	TxsAsHex  []HexBytes        `json:"txs_as_hex"`
	TxsAsJSON []JSONTransaction `json:"-"`
	Untrusted bool              `json:"untrusted"`
}

// UnmarshalJSON parses the transactions the daemon embeds as JSON strings.
func (r *TransactionsResult) UnmarshalJSON(data []byte) error {
	type transactionsResultAlias TransactionsResult
	aux := &struct {
		*transactionsResultAlias
		TxsAsJSON []string `json:"txs_as_json"`
	}{
		transactionsResultAlias: (*transactionsResultAlias)(r),
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}

	r.TxsAsJSON = nil
	for i, doc := range aux.TxsAsJSON {
		tx, err := parseEmbeddedTransaction(doc)
		if err != nil {
			return fmt.Errorf("txs_as_json[%d]: %w", i, err)
		}
		r.TxsAsJSON = append(r.TxsAsJSON, *tx)
	}

	return nil
}

// Transaction is one entry of TransactionsResult.Txs.
type Transaction struct {
	AsHex           HexBytes         `json:"as_hex"`
	PrunedAsHex     HexBytes         `json:"pruned_as_hex"`
	PrunableAsHex   HexBytes         `json:"prunable_as_hex"`
	AsJSON          *JSONTransaction `json:"-"`
	BlockHeight     uint64           `json:"block_height"`
	BlockTimestamp  uint64           `json:"block_timestamp"`
	DoubleSpendSeen bool             `json:"double_spend_seen"`
	InPool          bool             `json:"in_pool"`
	OutputIndices   []uint64         `json:"output_indices"`
	TxHash          Hash             `json:"tx_hash"`
}

// UnmarshalJSON parses the as_json string, when present, into AsJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type transactionAlias Transaction
	aux := &struct {
		*transactionAlias
		AsJSON string `json:"as_json"`
	}{
		transactionAlias: (*transactionAlias)(t),
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}

	t.AsJSON = nil
	if aux.AsJSON != "" {
		t.AsJSON, err = parseEmbeddedTransaction(aux.AsJSON)
		if err != nil {
			return fmt.Errorf("as_json: %w", err)
		}
	}

	return nil
}

// JSONTransaction is the decoded form of a transaction the daemon returned as JSON.
// Only the fields that are stable across hard forks are typed; Raw keeps the whole document.
type JSONTransaction struct {
	Version    uint64          `json:"version"`
	UnlockTime uint64          `json:"unlock_time"`
	Raw        json.RawMessage `json:"-"`
}

func (t *JSONTransaction) UnmarshalJSON(data []byte) error {
	var aux struct {
		Version    uint64 `json:"version"`
		UnlockTime uint64 `json:"unlock_time"`
	}
	err := json.Unmarshal(data, &aux)
	if err != nil {
		return fmt.Errorf("unmarshal into aux json transaction: %w", err)
	}

	t.Version = aux.Version
	t.UnlockTime = aux.UnlockTime
	t.Raw = append(json.RawMessage(nil), data...) // copy; data belongs to the decoder

	return nil
}

func parseEmbeddedTransaction(doc string) (*JSONTransaction, error) {
	var tx JSONTransaction
	err := json.Unmarshal([]byte(doc), &tx)
	if err != nil {
		return nil, fmt.Errorf("parse embedded transaction: %w", err)
	}
	return &tx, nil
}

// DaemonHeight is the result of the raw /get_height endpoint.
type DaemonHeight struct {
	Height    uint64 `json:"height"`
	Hash      Hash   `json:"hash"`
	Untrusted bool   `json:"untrusted"`
}
