package monerorpc

import (
	"encoding/json"
	"fmt"
	"time"
)

// Version is the wallet RPC protocol version.
type Version struct {
	Major uint16
	Minor uint16
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// SubaddressIndex locates a subaddress: Major is the account, Minor the address within it.
type SubaddressIndex struct {
	Major uint32 `json:"major"`
	Minor uint32 `json:"minor"`
}

// TransferPriority sets the fee level of a transaction.
type TransferPriority uint8

const (
	PriorityDefault TransferPriority = iota
	PriorityUnimportant
	PriorityElevated
	PriorityPriority
)

func (p TransferPriority) valid() bool {
	return p <= PriorityPriority
}

// PrivateKeyType selects which secret key QueryKey returns.
type PrivateKeyType int

const (
	ViewKey PrivateKeyType = iota
	SpendKey
)

func (k PrivateKeyType) wireName() (string, bool) {
	switch k {
	case ViewKey:
		return "view_key", true
	case SpendKey:
		return "spend_key", true
	default:
		return "", false
	}
}

type SubaddressBalance struct {
	AccountIndex      uint32  `json:"account_index"`
	AddressIndex      uint32  `json:"address_index"`
	Address           Address `json:"address"`
	Balance           Amount  `json:"balance"`
	UnlockedBalance   Amount  `json:"unlocked_balance"`
	Label             string  `json:"label"`
	NumUnspentOutputs uint64  `json:"num_unspent_outputs"`
	BlocksToUnlock    uint64  `json:"blocks_to_unlock"`
}

// BalanceData is the result of get_balance.
type BalanceData struct {
	Balance              Amount              `json:"balance"`
	UnlockedBalance      Amount              `json:"unlocked_balance"`
	MultisigImportNeeded bool                `json:"multisig_import_needed"`
	PerSubaddress        []SubaddressBalance `json:"per_subaddress"`
	BlocksToUnlock       uint64              `json:"blocks_to_unlock"`
}

type SubaddressData struct {
	Address      Address `json:"address"`
	AddressIndex uint32  `json:"address_index"`
	Label        string  `json:"label"`
	Used         bool    `json:"used"`
}

// AddressData is the result of get_address.
type AddressData struct {
	Address   Address          `json:"address"`
	Addresses []SubaddressData `json:"addresses"`
}

// CreatedAddress is the result of create_address.
type CreatedAddress struct {
	Address      Address `json:"address"`
	AddressIndex uint32  `json:"address_index"`
}

type Account struct {
	AccountIndex    uint32  `json:"account_index"`
	Balance         Amount  `json:"balance"`
	BaseAddress     Address `json:"base_address"`
	Label           string  `json:"label"`
	Tag             string  `json:"tag"`
	UnlockedBalance Amount  `json:"unlocked_balance"`
}

// AccountsData is the result of get_accounts.
type AccountsData struct {
	SubaddressAccounts   []Account `json:"subaddress_accounts"`
	TotalBalance         Amount    `json:"total_balance"`
	TotalUnlockedBalance Amount    `json:"total_unlocked_balance"`
}

// RefreshData is the result of refresh.
type RefreshData struct {
	BlocksFetched uint64 `json:"blocks_fetched"`
	ReceivedMoney bool   `json:"received_money"`
}

// GenerateFromKeysArgs restores a wallet from its keys. A nil SpendKey restores a view-only wallet.
type GenerateFromKeysArgs struct {
	RestoreHeight   *uint64     `json:"restore_height,omitempty"`
	Filename        string      `json:"filename"`
	Address         Address     `json:"address"`
	SpendKey        *PrivateKey `json:"spendkey,omitempty"`
	ViewKey         PrivateKey  `json:"viewkey"`
	Password        string      `json:"password"`
	AutosaveCurrent *bool       `json:"autosave_current,omitempty"`
}

// WalletCreation is the result of generate_from_keys.
type WalletCreation struct {
	Address Address `json:"address"`
	Info    string  `json:"info"`
}

type Destination struct {
	Address Address `json:"address"`
	Amount  Amount  `json:"amount"`
}

// TransferOptions are the optional knobs of transfer. The zero value spends from account 0.
type TransferOptions struct {
	AccountIndex   uint32
	SubaddrIndices []uint32
	RingSize       uint64
	UnlockTime     uint64
	PaymentID      *PaymentID
	DoNotRelay     bool
}

// TransferData is the result of transfer.
type TransferData struct {
	Amount        Amount   `json:"amount"`
	Fee           Amount   `json:"fee"`
	TxBlob        HexBytes `json:"tx_blob"`
	TxHash        Hash     `json:"tx_hash"`
	TxKey         HexBytes `json:"tx_key"`
	TxMetadata    HexBytes `json:"tx_metadata"`
	MultisigTxset HexBytes `json:"multisig_txset"`
	UnsignedTxset HexBytes `json:"unsigned_txset"`
}

// SweepAllArgs describes a sweep of every unlocked output of an account to Address.
type SweepAllArgs struct {
	Address        Address
	AccountIndex   uint32
	SubaddrIndices []uint32
	Priority       TransferPriority
	RingSize       uint64
	UnlockTime     uint64
	// BelowAmount restricts the sweep to outputs smaller than this amount.
	BelowAmount *Amount
	DoNotRelay  bool
}

// SweepAllData is the result of sweep_all.
type SweepAllData struct {
	TxHashList     []Hash     `json:"tx_hash_list"`
	TxKeyList      []HexBytes `json:"tx_key_list"`
	AmountList     []Amount   `json:"amount_list"`
	FeeList        []Amount   `json:"fee_list"`
	TxBlobList     []HexBytes `json:"tx_blob_list"`
	TxMetadataList []HexBytes `json:"tx_metadata_list"`
	MultisigTxset  HexBytes   `json:"multisig_txset"`
	UnsignedTxset  HexBytes   `json:"unsigned_txset"`
}

// TransferCategory is the direction or state of a wallet transfer.
type TransferCategory string

const (
	CategoryIn      TransferCategory = "in"
	CategoryOut     TransferCategory = "out"
	CategoryPending TransferCategory = "pending"
	CategoryFailed  TransferCategory = "failed"
	CategoryPool    TransferCategory = "pool"
	CategoryBlock   TransferCategory = "block"
)

// TransfersSelector filters get_transfers.
type TransfersSelector struct {
	// Categories to include. Empty means all of in, out, pending, failed and pool.
	Categories     []TransferCategory
	AccountIndex   uint32
	SubaddrIndices []uint32
	// MinHeight is exclusive, MaxHeight inclusive. Either enables height filtering.
	MinHeight *uint64
	MaxHeight *uint64
}

// TransferHeight is the height of the block that confirmed a transfer, zero while it is still in the pool.
type TransferHeight uint64

func (h TransferHeight) IsInPool() bool {
	return h == 0
}

// Transfer is one entry of get_transfer_by_txid and get_transfers.
type Transfer struct {
	Address                         Address          `json:"address"`
	Amount                          Amount           `json:"amount"`
	Confirmations                   uint64           `json:"confirmations"`
	Destinations                    []Destination    `json:"destinations"`
	DoubleSpendSeen                 bool             `json:"double_spend_seen"`
	Fee                             Amount           `json:"fee"`
	Height                          TransferHeight   `json:"height"`
	Note                            string           `json:"note"`
	PaymentID                       PaymentID        `json:"payment_id"`
	SubaddrIndex                    SubaddressIndex  `json:"subaddr_index"`
	SuggestedConfirmationsThreshold uint64           `json:"suggested_confirmations_threshold"`
	Timestamp                       time.Time        `json:"timestamp"`
	TxID                            Hash             `json:"txid"`
	Type                            TransferCategory `json:"type"`
	UnlockTime                      uint64           `json:"unlock_time"`
}

// UnmarshalJSON converts the unix timestamp into a UTC time.
func (t *Transfer) UnmarshalJSON(data []byte) error {
	type transferAlias Transfer
	aux := &struct {
		*transferAlias
		Timestamp int64 `json:"timestamp"`
	}{
		transferAlias: (*transferAlias)(t),
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return err
	}
	t.Timestamp = time.Unix(aux.Timestamp, 0).UTC()

	return nil
}

// TransferType filters incoming_transfers.
type TransferType string

const (
	TransferAll         TransferType = "all"
	TransferAvailable   TransferType = "available"
	TransferUnavailable TransferType = "unavailable"
)

type IncomingTransfer struct {
	Amount       Amount          `json:"amount"`
	GlobalIndex  uint64          `json:"global_index"`
	KeyImage     HexBytes        `json:"key_image"`
	Spent        bool            `json:"spent"`
	Frozen       bool            `json:"frozen"`
	Unlocked     bool            `json:"unlocked"`
	SubaddrIndex SubaddressIndex `json:"subaddr_index"`
	TxHash       Hash            `json:"tx_hash"`
	TxSize       uint64          `json:"tx_size"`
}

type Payment struct {
	PaymentID    PaymentID       `json:"payment_id"`
	TxHash       Hash            `json:"tx_hash"`
	Amount       Amount          `json:"amount"`
	BlockHeight  uint64          `json:"block_height"`
	UnlockTime   uint64          `json:"unlock_time"`
	SubaddrIndex SubaddressIndex `json:"subaddr_index"`
	Address      Address         `json:"address"`
}

// TxKeyCheck is the result of check_tx_key.
type TxKeyCheck struct {
	Confirmations uint64 `json:"confirmations"`
	InPool        bool   `json:"in_pool"`
	Received      Amount `json:"received"`
}

// SignedKeyImage is exported by ExportKeyImages and accepted by ImportKeyImages.
type SignedKeyImage struct {
	KeyImage  HexBytes `json:"key_image"`
	Signature HexBytes `json:"signature"`
}

// KeyImageImport is the result of import_key_images.
type KeyImageImport struct {
	Height  uint64 `json:"height"`
	Spent   Amount `json:"spent"`
	Unspent Amount `json:"unspent"`
}

// SignedTransfer is the result of sign_transfer.
type SignedTransfer struct {
	SignedTxset HexBytes   `json:"signed_txset"`
	TxHashList  []Hash     `json:"tx_hash_list"`
	TxRawList   []HexBytes `json:"tx_raw_list"`
}
