package types

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	// AddressLen is the byte length of a contract address.
	AddressLen = 20
	// HashLen is the byte length of a keccak256 digest.
	HashLen = 32
)

// Address is a 20-byte contract or account address. Value type, never
// mutated after computation.
type Address [AddressLen]byte

// Hash is a 32-byte keccak256 digest.
type Hash [HashLen]byte

// Salt is the byte buffer searched over during mining. 32 bytes for the
// CREATE2 scheme, 52 bytes for CREATE3.
type Salt []byte

// Result represents a completed mining run.
type Result struct {
	Address  Address
	Salt     Salt
	Attempts int64
	Duration time.Duration
}

// ParseAddress decodes a 40-hex-digit address, with or without a 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	h := trimHexPrefix(s)
	if len(h) != AddressLen*2 {
		return a, fmt.Errorf("invalid address length: got %d hex chars, want %d", len(h), AddressLen*2)
	}
	if _, err := hex.Decode(a[:], []byte(h)); err != nil {
		return a, fmt.Errorf("invalid address hex: %w", err)
	}
	return a, nil
}

// ParseHash decodes a 64-hex-digit hash, with or without a 0x prefix.
func ParseHash(s string) (Hash, error) {
	var h Hash
	c := trimHexPrefix(s)
	if len(c) != HashLen*2 {
		return h, fmt.Errorf("invalid hash length: got %d hex chars, want %d", len(c), HashLen*2)
	}
	if _, err := hex.Decode(h[:], []byte(c)); err != nil {
		return h, fmt.Errorf("invalid hash hex: %w", err)
	}
	return h, nil
}

// Hex returns the lowercase hex encoding with a 0x prefix.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Hex returns the lowercase hex encoding with a 0x prefix.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Hex returns the lowercase hex encoding with a 0x prefix.
func (s Salt) Hex() string {
	return "0x" + hex.EncodeToString(s)
}

func trimHexPrefix(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	return s
}
