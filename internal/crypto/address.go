package crypto

import (
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/sha3"

	"github.com/hookmine/hookmine/pkg/types"
)

const (
	// CREATE2 input layout: 0xff (1) + factory (20) + salt (32) + initcodeHash (32) = 85
	Create2PrefixLen = 1 + types.AddressLen
	Create2SaltOff   = Create2PrefixLen
	Create2HashOff   = Create2SaltOff + types.HashLen
	Create2InputLen  = Create2HashOff + types.HashLen

	// CREATE (nonce 1) input layout: RLP of [account, 1] =
	// 0xd6 (list, 22 bytes) + 0x94 (string, 20 bytes) + account (20) + 0x01 = 23
	Nonce1AccountOff = 2
	Nonce1InputLen   = Nonce1AccountOff + types.AddressLen + 1
)

// NewKeccak returns a keccak256 hasher (the pre-standard variant used for
// all Ethereum address derivation). Callers on the hot path keep one per
// worker and reset it between candidates.
func NewKeccak() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

// Keccak256 hashes data in one shot. Allocates; not for the hot path.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// PrimeCreate2Input builds the constant portion of a CREATE2 input buffer:
// 0xff + factory at the front, init-code hash at the back. The caller fills
// the 32-byte salt segment at Create2SaltOff before each hash.
func PrimeCreate2Input(factory types.Address, initCodeHash types.Hash) [Create2InputLen]byte {
	var in [Create2InputLen]byte
	in[0] = 0xff
	copy(in[1:Create2SaltOff], factory[:])
	copy(in[Create2HashOff:], initCodeHash[:])
	return in
}

// Create2AddressInto hashes a primed CREATE2 input buffer and writes the
// low 20 bytes of the digest into addr. hashBuf must have capacity for 32
// bytes; it is reused to keep the hot path allocation-free.
func Create2AddressInto(hasher hash.Hash, input, hashBuf []byte, addr *types.Address) {
	hasher.Reset()
	hasher.Write(input)
	sum := hasher.Sum(hashBuf[:0])
	copy(addr[:], sum[types.HashLen-types.AddressLen:])
}

// PrimeNonce1Input builds the constant portion of a CREATE input buffer for
// nonce 1. The caller fills the 20-byte account segment at Nonce1AccountOff.
func PrimeNonce1Input() [Nonce1InputLen]byte {
	var in [Nonce1InputLen]byte
	in[0] = 0xd6
	in[1] = 0x94
	in[Nonce1InputLen-1] = 0x01
	return in
}

// Nonce1AddressInto hashes a primed CREATE input buffer and writes the low
// 20 bytes of the digest into addr. Same buffer discipline as
// Create2AddressInto.
func Nonce1AddressInto(hasher hash.Hash, input, hashBuf []byte, addr *types.Address) {
	hasher.Reset()
	hasher.Write(input)
	sum := hasher.Sum(hashBuf[:0])
	copy(addr[:], sum[types.HashLen-types.AddressLen:])
}

// ChecksumHex renders an address as an EIP-55 checksummed hex string.
// Only called for result output.
func ChecksumHex(addr types.Address) string {
	hexLower := hex.EncodeToString(addr[:])
	sum := Keccak256([]byte(hexLower))

	out := make([]byte, 2+2*types.AddressLen)
	out[0] = '0'
	out[1] = 'x'
	for i := 0; i < len(hexLower); i++ {
		c := hexLower[i]
		// each nibble of the digest decides the case of the matching hex char
		n := (sum[i/2] >> uint(4*(1-i%2))) & 0xf
		if c >= 'a' && n >= 8 {
			c -= 'a' - 'A'
		}
		out[2+i] = c
	}
	return string(out)
}
