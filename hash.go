package monerorpc

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HashSize is the size of block hashes, transaction hashes and keys.
	HashSize = 32
	// PaymentIDSize is the size of a short payment id.
	PaymentIDSize = 8
)

// Hash is a block or transaction hash. It travels as a hex string.
type Hash [HashSize]byte

// ParseHash decodes a 64 character hex string, with or without a 0x prefix.
func ParseHash(s string) (Hash, error) {
	var h Hash
	err := decodeFixedHex(h[:], s)
	return h, err
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	return decodeFixedHex(h[:], string(text))
}

// PaymentID is the legacy 8 byte payment id.
type PaymentID [PaymentIDSize]byte

func ParsePaymentID(s string) (PaymentID, error) {
	var id PaymentID
	err := decodeFixedHex(id[:], s)
	return id, err
}

func (id PaymentID) String() string {
	return hex.EncodeToString(id[:])
}

func (id PaymentID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *PaymentID) UnmarshalText(text []byte) error {
	return decodeFixedHex(id[:], string(text))
}

// PrivateKey is a view or spend secret key as returned by query_key.
type PrivateKey [HashSize]byte

func ParsePrivateKey(s string) (PrivateKey, error) {
	var k PrivateKey
	err := decodeFixedHex(k[:], s)
	return k, err
}

func (k PrivateKey) String() string {
	return hex.EncodeToString(k[:])
}

func (k PrivateKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PrivateKey) UnmarshalText(text []byte) error {
	return decodeFixedHex(k[:], string(text))
}

// HexBytes is a blob of any length that travels as a hex string (tx blobs, metadata, txsets).
type HexBytes []byte

func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *HexBytes) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(string(text), "0x")
	if s == "" {
		*b = nil
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	*b = decoded
	return nil
}

// decodeFixedHex fills dst from s. The decoded length must match len(dst) exactly.
func decodeFixedHex(dst []byte, s string) error {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != hex.EncodedLen(len(dst)) {
		return fmt.Errorf("%w: expected %d hex characters, got %d", ErrMalformedHash, hex.EncodedLen(len(dst)), len(s))
	}

	var buf [HashSize]byte
	_, err := hex.Decode(buf[:len(dst)], []byte(s))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	copy(dst, buf[:len(dst)])

	return nil
}
