// Package pattern expresses and tests the target bit pattern of a mined
// address: an exact-match constraint on the low 14 bits (the flags, a
// convention for encoding hook permissions in the least-significant bits)
// and a vanity prefix constraint on the high bits.
package pattern

import (
	"errors"
	"fmt"

	"github.com/hookmine/hookmine/pkg/types"
)

// ErrPatternTooLong reports a flags or prefix string wider than an address.
var ErrPatternTooLong = errors.New("pattern exceeds address width (40 hex digits)")

// FlagsMask isolates the low 14 bits of an address.
var FlagsMask = types.Address{18: 0x3f, 19: 0xff}

// Pattern is a compiled target: a candidate address matches when
// candidate&FlagsMask == Flags and candidate&PrefixMask == Prefix.
// Masks are built once per run, not per candidate.
type Pattern struct {
	Flags      types.Address
	FlagsMask  types.Address
	Prefix     types.Address
	PrefixMask types.Address
}

// Compile builds a Pattern from hex strings. The flags string is padded
// with leading zeros to the address width, the prefix with trailing zeros.
// An empty flags string leaves the flags constraint vacuous; an empty
// prefix likewise.
func Compile(flags, prefix string) (Pattern, error) {
	var p Pattern

	if flags != "" {
		target, err := padHexToAddress(flags, true)
		if err != nil {
			return p, fmt.Errorf("flags: %w", err)
		}
		p.Flags = target
		p.FlagsMask = FlagsMask
	}

	if prefix != "" {
		target, err := padHexToAddress(prefix, false)
		if err != nil {
			return p, fmt.Errorf("prefix: %w", err)
		}
		p.Prefix = target
		p.PrefixMask = PrefixMask(len(prefix))
	}

	return p, nil
}

// Matches reports whether candidate satisfies both constraints.
func (p *Pattern) Matches(candidate types.Address) bool {
	for i := 0; i < types.AddressLen; i++ {
		if candidate[i]&p.FlagsMask[i] != p.Flags[i] {
			return false
		}
		if candidate[i]&p.PrefixMask[i] != p.Prefix[i] {
			return false
		}
	}
	return true
}

// PrefixMask builds the mask covering the top n hex digits of an address.
// An odd n covers the extra high nibble of the trailing half byte, so an
// odd number of digits still gives an exact high-bit match. n is clamped
// to the address width by the validation boundary; n = 0 yields the zero
// mask (vacuously true).
func PrefixMask(n int) types.Address {
	var mask types.Address
	for i := 0; i < n/2; i++ {
		mask[i] = 0xff
	}
	if n%2 == 1 {
		mask[n/2] = 0xf0
	}
	return mask
}

// padHexToAddress pads a hex string to 40 digits, with leading zeros for
// low-bit targets (flags) or trailing zeros for high-bit targets (prefix),
// and decodes it as an address.
func padHexToAddress(s string, padLeading bool) (types.Address, error) {
	var a types.Address
	if len(s) > 2*types.AddressLen {
		return a, ErrPatternTooLong
	}
	for _, c := range []byte(s) {
		if !isHexDigit(c) {
			return a, fmt.Errorf("invalid hex character %q", c)
		}
	}

	padded := make([]byte, 2*types.AddressLen)
	for i := range padded {
		padded[i] = '0'
	}
	if padLeading {
		copy(padded[len(padded)-len(s):], s)
	} else {
		copy(padded, s)
	}

	for i := 0; i < types.AddressLen; i++ {
		a[i] = hexNibble(padded[2*i])<<4 | hexNibble(padded[2*i+1])
	}
	return a, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
