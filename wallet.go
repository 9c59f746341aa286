package monerorpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// codeWrongTxID is what monero-wallet-rpc reports for a txid it doesn't know.
const codeWrongTxID = -8

// Wallet exposes the monero-wallet-rpc methods.
type Wallet struct {
	c *Client
}

// GetVersion returns the wallet RPC protocol version.
func (w Wallet) GetVersion(ctx context.Context) (Version, error) {
	type result struct {
		Version uint32 `json:"version"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "get_version", nil)
	if err != nil {
		return Version{}, err
	}
	return Version{
		Major: uint16(res.Version >> 16),
		Minor: uint16(res.Version & 0xffff),
	}, nil
}

// CreateWallet creates and opens a new wallet file. An empty language means English.
func (w Wallet) CreateWallet(ctx context.Context, filename, password, language string) error {
	if language == "" {
		language = "English"
	}
	params := struct {
		Filename string `json:"filename"`
		Password string `json:"password,omitempty"`
		Language string `json:"language"`
	}{
		Filename: filename,
		Password: password,
		Language: language,
	}
	_, err := call[struct{}](ctx, w.c, endpointJSONRPC, "create_wallet", params)
	return err
}

func (w Wallet) OpenWallet(ctx context.Context, filename, password string) error {
	params := struct {
		Filename string `json:"filename"`
		Password string `json:"password,omitempty"`
	}{
		Filename: filename,
		Password: password,
	}
	_, err := call[struct{}](ctx, w.c, endpointJSONRPC, "open_wallet", params)
	return err
}

// CloseWallet saves and closes the currently open wallet.
func (w Wallet) CloseWallet(ctx context.Context) error {
	_, err := call[struct{}](ctx, w.c, endpointJSONRPC, "close_wallet", nil)
	return err
}

// GenerateFromKeys restores a wallet from its address and keys.
func (w Wallet) GenerateFromKeys(ctx context.Context, args GenerateFromKeysArgs) (*WalletCreation, error) {
	return call[WalletCreation](ctx, w.c, endpointJSONRPC, "generate_from_keys", args)
}

// GetBalance returns the balance of account. addressIndices restricts the per subaddress breakdown.
func (w Wallet) GetBalance(ctx context.Context, account uint32, addressIndices []uint32) (*BalanceData, error) {
	params := struct {
		AccountIndex   uint32   `json:"account_index"`
		AddressIndices []uint32 `json:"address_indices,omitempty"`
	}{
		AccountIndex:   account,
		AddressIndices: addressIndices,
	}
	return call[BalanceData](ctx, w.c, endpointJSONRPC, "get_balance", params)
}

// GetAddress returns the addresses of account, all of them when addressIndices is empty.
func (w Wallet) GetAddress(ctx context.Context, account uint32, addressIndices []uint32) (*AddressData, error) {
	params := struct {
		AccountIndex uint32   `json:"account_index"`
		AddressIndex []uint32 `json:"address_index,omitempty"`
	}{
		AccountIndex: account,
		AddressIndex: addressIndices,
	}
	return call[AddressData](ctx, w.c, endpointJSONRPC, "get_address", params)
}

// GetAddressIndex returns where address lives in the wallet.
func (w Wallet) GetAddressIndex(ctx context.Context, address Address) (SubaddressIndex, error) {
	params := struct {
		Address Address `json:"address"`
	}{Address: address}
	type result struct {
		Index SubaddressIndex `json:"index"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "get_address_index", params)
	if err != nil {
		return SubaddressIndex{}, err
	}
	return res.Index, nil
}

func (w Wallet) CreateAddress(ctx context.Context, account uint32, label string) (*CreatedAddress, error) {
	params := struct {
		AccountIndex uint32 `json:"account_index"`
		Label        string `json:"label,omitempty"`
	}{
		AccountIndex: account,
		Label:        label,
	}
	return call[CreatedAddress](ctx, w.c, endpointJSONRPC, "create_address", params)
}

func (w Wallet) LabelAddress(ctx context.Context, index SubaddressIndex, label string) error {
	params := struct {
		Index SubaddressIndex `json:"index"`
		Label string          `json:"label"`
	}{
		Index: index,
		Label: label,
	}
	_, err := call[struct{}](ctx, w.c, endpointJSONRPC, "label_address", params)
	return err
}

// GetAccounts lists the wallet accounts, only those carrying tag when it is not empty.
func (w Wallet) GetAccounts(ctx context.Context, tag string) (*AccountsData, error) {
	params := struct {
		Tag string `json:"tag,omitempty"`
	}{Tag: tag}
	return call[AccountsData](ctx, w.c, endpointJSONRPC, "get_accounts", params)
}

// GetHeight returns the height the wallet has synced to.
func (w Wallet) GetHeight(ctx context.Context) (uint64, error) {
	type result struct {
		Height uint64 `json:"height"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "get_height", nil)
	if err != nil {
		return 0, err
	}
	return res.Height, nil
}

// Refresh rescans the chain for wallet outputs, from startHeight when it is not nil.
func (w Wallet) Refresh(ctx context.Context, startHeight *uint64) (*RefreshData, error) {
	params := struct {
		StartHeight *uint64 `json:"start_height,omitempty"`
	}{StartHeight: startHeight}
	return call[RefreshData](ctx, w.c, endpointJSONRPC, "refresh", params)
}

// QueryKey returns the wallet's private view or spend key.
func (w Wallet) QueryKey(ctx context.Context, keyType PrivateKeyType) (PrivateKey, error) {
	name, ok := keyType.wireName()
	if !ok {
		return PrivateKey{}, fmt.Errorf("%w: unknown key type %d", ErrInvalidArgument, keyType)
	}

	params := struct {
		KeyType string `json:"key_type"`
	}{KeyType: name}
	type result struct {
		Key PrivateKey `json:"key"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "query_key", params)
	if err != nil {
		return PrivateKey{}, err
	}
	return res.Key, nil
}

// Transfer sends to destinations in a single transaction. The tx key, blob and metadata are always requested.
func (w Wallet) Transfer(ctx context.Context, destinations []Destination, priority TransferPriority, opts TransferOptions) (*TransferData, error) {
	if len(destinations) == 0 {
		return nil, fmt.Errorf("%w: at least one destination is required", ErrInvalidArgument)
	}
	if !priority.valid() {
		return nil, fmt.Errorf("%w: unknown transfer priority %d", ErrInvalidArgument, priority)
	}

	params := struct {
		Destinations   []Destination    `json:"destinations"`
		AccountIndex   uint32           `json:"account_index"`
		SubaddrIndices []uint32         `json:"subaddr_indices,omitempty"`
		Priority       TransferPriority `json:"priority"`
		RingSize       uint64           `json:"ring_size,omitempty"`
		UnlockTime     uint64           `json:"unlock_time"`
		PaymentID      *PaymentID       `json:"payment_id,omitempty"`
		DoNotRelay     bool             `json:"do_not_relay"`
		GetTxKey       bool             `json:"get_tx_key"`
		GetTxHex       bool             `json:"get_tx_hex"`
		GetTxMetadata  bool             `json:"get_tx_metadata"`
	}{
		Destinations:   destinations,
		AccountIndex:   opts.AccountIndex,
		SubaddrIndices: opts.SubaddrIndices,
		Priority:       priority,
		RingSize:       opts.RingSize,
		UnlockTime:     opts.UnlockTime,
		PaymentID:      opts.PaymentID,
		DoNotRelay:     opts.DoNotRelay,
		GetTxKey:       true,
		GetTxHex:       true,
		GetTxMetadata:  true,
	}
	return call[TransferData](ctx, w.c, endpointJSONRPC, "transfer", params)
}

// SweepAll sends every unlocked output of an account to one address.
func (w Wallet) SweepAll(ctx context.Context, args SweepAllArgs) (*SweepAllData, error) {
	if !args.Priority.valid() {
		return nil, fmt.Errorf("%w: unknown transfer priority %d", ErrInvalidArgument, args.Priority)
	}

	params := struct {
		Address        Address          `json:"address"`
		AccountIndex   uint32           `json:"account_index"`
		SubaddrIndices []uint32         `json:"subaddr_indices,omitempty"`
		Priority       TransferPriority `json:"priority"`
		RingSize       uint64           `json:"ring_size,omitempty"`
		UnlockTime     uint64           `json:"unlock_time"`
		BelowAmount    *Amount          `json:"below_amount,omitempty"`
		DoNotRelay     bool             `json:"do_not_relay"`
		GetTxKeys      bool             `json:"get_tx_keys"`
		GetTxHex       bool             `json:"get_tx_hex"`
		GetTxMetadata  bool             `json:"get_tx_metadata"`
	}{
		Address:        args.Address,
		AccountIndex:   args.AccountIndex,
		SubaddrIndices: args.SubaddrIndices,
		Priority:       args.Priority,
		RingSize:       args.RingSize,
		UnlockTime:     args.UnlockTime,
		BelowAmount:    args.BelowAmount,
		DoNotRelay:     args.DoNotRelay,
		GetTxKeys:      true,
		GetTxHex:       true,
		GetTxMetadata:  true,
	}
	return call[SweepAllData](ctx, w.c, endpointJSONRPC, "sweep_all", params)
}

// RelayTx broadcasts a transaction previously created with DoNotRelay, given its metadata.
func (w Wallet) RelayTx(ctx context.Context, txMetadata HexBytes) (Hash, error) {
	params := struct {
		Hex HexBytes `json:"hex"`
	}{Hex: txMetadata}
	type result struct {
		TxHash Hash `json:"tx_hash"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "relay_tx", params)
	if err != nil {
		return Hash{}, err
	}
	return res.TxHash, nil
}

// GetTransfer returns the transfer with txid in account. Unknown txids fail with ErrTransferNotFound.
func (w Wallet) GetTransfer(ctx context.Context, txid Hash, account uint32) (*Transfer, error) {
	params := struct {
		TxID         Hash   `json:"txid"`
		AccountIndex uint32 `json:"account_index"`
	}{
		TxID:         txid,
		AccountIndex: account,
	}
	type result struct {
		Transfer Transfer `json:"transfer"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "get_transfer_by_txid", params)
	if err != nil {
		if code, ok := remoteCode(err); ok && code == codeWrongTxID {
			return nil, fmt.Errorf("%w: %s: %w", ErrTransferNotFound, txid, err)
		}
		return nil, err
	}
	return &res.Transfer, nil
}

// GetTransfers returns the wallet transfers grouped by category.
func (w Wallet) GetTransfers(ctx context.Context, selector TransfersSelector) (map[TransferCategory][]Transfer, error) {
	categories := selector.Categories
	if len(categories) == 0 {
		categories = []TransferCategory{CategoryIn, CategoryOut, CategoryPending, CategoryFailed, CategoryPool}
	}

	params := struct {
		In             bool     `json:"in"`
		Out            bool     `json:"out"`
		Pending        bool     `json:"pending"`
		Failed         bool     `json:"failed"`
		Pool           bool     `json:"pool"`
		FilterByHeight bool     `json:"filter_by_height"`
		MinHeight      *uint64  `json:"min_height,omitempty"`
		MaxHeight      *uint64  `json:"max_height,omitempty"`
		AccountIndex   uint32   `json:"account_index"`
		SubaddrIndices []uint32 `json:"subaddr_indices,omitempty"`
	}{
		FilterByHeight: selector.MinHeight != nil || selector.MaxHeight != nil,
		MinHeight:      selector.MinHeight,
		MaxHeight:      selector.MaxHeight,
		AccountIndex:   selector.AccountIndex,
		SubaddrIndices: selector.SubaddrIndices,
	}
	for _, category := range categories {
		switch category {
		case CategoryIn:
			params.In = true
		case CategoryOut:
			params.Out = true
		case CategoryPending:
			params.Pending = true
		case CategoryFailed:
			params.Failed = true
		case CategoryPool:
			params.Pool = true
		default:
			return nil, fmt.Errorf("%w: transfer category %q can't be selected", ErrInvalidArgument, category)
		}
	}

	type result struct {
		In      []Transfer `json:"in"`
		Out     []Transfer `json:"out"`
		Pending []Transfer `json:"pending"`
		Failed  []Transfer `json:"failed"`
		Pool    []Transfer `json:"pool"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "get_transfers", params)
	if err != nil {
		return nil, err
	}

	transfers := make(map[TransferCategory][]Transfer)
	for category, list := range map[TransferCategory][]Transfer{
		CategoryIn:      res.In,
		CategoryOut:     res.Out,
		CategoryPending: res.Pending,
		CategoryFailed:  res.Failed,
		CategoryPool:    res.Pool,
	} {
		if len(list) > 0 {
			transfers[category] = list
		}
	}

	return transfers, nil
}

// IncomingTransfers lists the outputs received by account.
func (w Wallet) IncomingTransfers(ctx context.Context, transferType TransferType, account uint32, subaddrIndices []uint32) ([]IncomingTransfer, error) {
	switch transferType {
	case TransferAll, TransferAvailable, TransferUnavailable:
	default:
		return nil, fmt.Errorf("%w: unknown transfer type %q", ErrInvalidArgument, transferType)
	}

	params := struct {
		TransferType   TransferType `json:"transfer_type"`
		AccountIndex   uint32       `json:"account_index"`
		SubaddrIndices []uint32     `json:"subaddr_indices,omitempty"`
	}{
		TransferType:   transferType,
		AccountIndex:   account,
		SubaddrIndices: subaddrIndices,
	}
	type result struct {
		Transfers []IncomingTransfer `json:"transfers"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "incoming_transfers", params)
	if err != nil {
		return nil, err
	}
	return res.Transfers, nil
}

func (w Wallet) GetPayments(ctx context.Context, paymentID PaymentID) ([]Payment, error) {
	params := struct {
		PaymentID PaymentID `json:"payment_id"`
	}{PaymentID: paymentID}
	type result struct {
		Payments []Payment `json:"payments"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "get_payments", params)
	if err != nil {
		return nil, err
	}
	return res.Payments, nil
}

// GetBulkPayments returns the payments for any of paymentIDs seen above minBlockHeight.
func (w Wallet) GetBulkPayments(ctx context.Context, paymentIDs []PaymentID, minBlockHeight uint64) ([]Payment, error) {
	params := struct {
		PaymentIDs     []PaymentID `json:"payment_ids"`
		MinBlockHeight uint64      `json:"min_block_height"`
	}{
		PaymentIDs:     paymentIDs,
		MinBlockHeight: minBlockHeight,
	}
	type result struct {
		Payments []Payment `json:"payments"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "get_bulk_payments", params)
	if err != nil {
		return nil, err
	}
	return res.Payments, nil
}

// CheckTxKey proves a payment to address using the transaction's secret key.
func (w Wallet) CheckTxKey(ctx context.Context, txid Hash, txKey HexBytes, address Address) (*TxKeyCheck, error) {
	params := struct {
		TxID    Hash     `json:"txid"`
		TxKey   HexBytes `json:"tx_key"`
		Address Address  `json:"address"`
	}{
		TxID:    txid,
		TxKey:   txKey,
		Address: address,
	}
	return call[TxKeyCheck](ctx, w.c, endpointJSONRPC, "check_tx_key", params)
}

// ExportKeyImages returns the signed key images of the wallet outputs, all of them when all is set.
func (w Wallet) ExportKeyImages(ctx context.Context, all bool) ([]SignedKeyImage, error) {
	params := struct {
		All bool `json:"all"`
	}{All: all}
	type result struct {
		SignedKeyImages []SignedKeyImage `json:"signed_key_images"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "export_key_images", params)
	if err != nil {
		return nil, err
	}
	return res.SignedKeyImages, nil
}

func (w Wallet) ImportKeyImages(ctx context.Context, images []SignedKeyImage) (*KeyImageImport, error) {
	params := struct {
		SignedKeyImages []SignedKeyImage `json:"signed_key_images"`
	}{SignedKeyImages: images}
	return call[KeyImageImport](ctx, w.c, endpointJSONRPC, "import_key_images", params)
}

// SignTransfer signs an unsigned transaction set produced by a view-only wallet.
func (w Wallet) SignTransfer(ctx context.Context, unsignedTxset HexBytes) (*SignedTransfer, error) {
	params := struct {
		UnsignedTxset HexBytes `json:"unsigned_txset"`
		ExportRaw     bool     `json:"export_raw"`
	}{
		UnsignedTxset: unsignedTxset,
		ExportRaw:     true,
	}
	return call[SignedTransfer](ctx, w.c, endpointJSONRPC, "sign_transfer", params)
}

// SubmitTransfer broadcasts a signed transaction set and returns the hashes of its transactions.
func (w Wallet) SubmitTransfer(ctx context.Context, signedTxset HexBytes) ([]Hash, error) {
	params := struct {
		TxDataHex HexBytes `json:"tx_data_hex"`
	}{TxDataHex: signedTxset}
	type result struct {
		TxHashList []Hash `json:"tx_hash_list"`
	}
	res, err := call[result](ctx, w.c, endpointJSONRPC, "submit_transfer", params)
	if err != nil {
		return nil, err
	}
	return res.TxHashList, nil
}

var errHeightNotReached = errors.New("wallet height not reached")

// AwaitHeight polls the wallet until it has synced to at least height, calling refresh between polls.
// It returns the height the wallet reported last, zero if it never answered. Any rpc failure ends the wait.
func (w Wallet) AwaitHeight(ctx context.Context, height uint64) (uint64, error) {
	logger := w.c.logger.WithField("target_height", height)

	var reported uint64
	err := backoff.Retry(func() error {
		current, err := w.GetHeight(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("get wallet height: %w", err))
		}
		reported = current
		if current >= height {
			return nil
		}

		logger.WithField("height", current).Debug("Wallet behind target height, refreshing")
		_, err = w.Refresh(ctx, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("refresh wallet: %w", err))
		}
		return errHeightNotReached
	}, backoff.WithContext(newAwaitBackoff(), ctx))
	if err != nil {
		logger.WithFields(logrus.Fields{"height": reported}).WithError(err).Debug("Stopped waiting for wallet height")
		return reported, fmt.Errorf("await wallet height %d: %w", height, err)
	}

	return reported, nil
}

func newAwaitBackoff() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(0),
		backoff.WithMaxInterval(2*time.Second),
		backoff.WithInitialInterval(50*time.Millisecond),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0.2),
	)
}
