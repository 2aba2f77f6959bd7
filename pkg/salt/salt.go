// Package salt defines the layout of the mined salt buffer and the
// operations that enumerate it. A salt is partitioned into three
// fixed-offset segments:
//
//	bytes 0..20             deployer address, constant per run
//	bytes 20..size-6        entropy, re-randomized per exhausted batch
//	trailing 6 bytes        counter, enumerated 0..2^48-1 within a batch
//
// The deployer segment binds the salt to one caller so a found salt cannot
// be front-run; the entropy segment keeps independent mining runs from
// colliding.
package salt

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hookmine/hookmine/pkg/types"
)

const (
	// DeployerLen is the size of the leading deployer segment.
	DeployerLen = types.AddressLen
	// CounterLen is the size of the trailing counter segment.
	CounterLen = 6
	// MaxCounter is the number of counter values in one entropy batch.
	MaxCounter = uint64(1) << (8 * CounterLen)
)

// Layout describes the salt buffer of one deployment scheme.
type Layout struct {
	// Size is the total salt length in bytes.
	Size int
}

// EntropyLen returns the size of the middle entropy segment.
func (l Layout) EntropyLen() int {
	return l.Size - DeployerLen - CounterLen
}

// Base returns a zero-filled salt with the deployer copied into the
// leading segment. Called once per run; the deployer segment is never
// written again.
func (l Layout) Base(deployer types.Address) types.Salt {
	s := make(types.Salt, l.Size)
	copy(s[:DeployerLen], deployer[:])
	return s
}

// RefreshEntropy overwrites the entropy segment with fresh bytes from rng.
// The randomness source is injected so batch behavior is reproducible
// under test with a seeded reader.
func (l Layout) RefreshEntropy(s types.Salt, rng io.Reader) error {
	if _, err := io.ReadFull(rng, s[DeployerLen:l.Size-CounterLen]); err != nil {
		return fmt.Errorf("refresh entropy: %w", err)
	}
	return nil
}

// PutCounter writes the low 48 bits of counter big-endian into the
// trailing counter segment.
func PutCounter(s types.Salt, counter uint64) {
	off := len(s) - CounterLen
	binary.BigEndian.PutUint16(s[off:], uint16(counter>>32))
	binary.BigEndian.PutUint32(s[off+2:], uint32(counter))
}
