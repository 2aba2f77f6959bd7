// Package scheme selects the address derivation for one deployment
// mechanism. The search loop depends only on the Scheme/Deriver interfaces
// and stays agnostic of how a salt becomes an address.
package scheme

import (
	"hash"

	"github.com/hookmine/hookmine/internal/crypto"
	"github.com/hookmine/hookmine/pkg/salt"
	"github.com/hookmine/hookmine/pkg/types"
)

// Well-known factory addresses, used when the caller does not supply one.
var (
	// Arachnid's deterministic deployment proxy.
	Create2DefaultFactory = types.Address{
		0x4e, 0x59, 0xb4, 0x48, 0x47, 0xb3, 0x79, 0x57, 0x85, 0x88,
		0x92, 0x0c, 0xa7, 0x8f, 0xbf, 0x26, 0xc0, 0xb4, 0x95, 0x6c,
	}

	// LayerZero's CREATE3 factory.
	Create3DefaultFactory = types.Address{
		0x8c, 0xad, 0x6a, 0x96, 0xb0, 0xa2, 0x87, 0xe2, 0x9b, 0xa7,
		0x19, 0x25, 0x7d, 0x0e, 0xf4, 0x31, 0xea, 0x6d, 0x88, 0x8b,
	}

	// ProxyInitCodeHash is the keccak256 of the CREATE3 proxy contract's
	// init code, fixed by the factory implementation.
	ProxyInitCodeHash = types.Hash{
		0x21, 0xc3, 0x5d, 0xbe, 0x1b, 0x34, 0x4a, 0x24, 0x88, 0xcf,
		0x33, 0x21, 0xd6, 0xce, 0x54, 0x2f, 0x8e, 0x9f, 0x30, 0x55,
		0x44, 0xff, 0x09, 0xe4, 0x99, 0x3a, 0x62, 0x31, 0x9a, 0x49,
		0x7c, 0x1f,
	}
)

// Deriver maps a full candidate salt to its contract address. A Deriver
// owns mutable scratch state (hasher, input buffers) and must be private
// to one worker; Derive is not safe for concurrent use.
type Deriver interface {
	Derive(s types.Salt) types.Address
}

// Scheme captures the per-run parameters of one deployment mechanism.
// Implementations are immutable after construction and safe to share
// across workers; each worker gets its own Deriver.
type Scheme interface {
	Name() string
	Layout() salt.Layout
	NewDeriver() Deriver
	// ResultSalt copies out the user-facing portion of a winning salt.
	ResultSalt(s types.Salt) types.Salt
}

// Create2 derives addresses in a single step:
// keccak256(0xff ++ factory ++ salt ++ initCodeHash)[12:].
type Create2 struct {
	factory      types.Address
	initCodeHash types.Hash
}

// NewCreate2 returns the single-step scheme for the given factory and
// init-code hash.
func NewCreate2(factory types.Address, initCodeHash types.Hash) *Create2 {
	return &Create2{factory: factory, initCodeHash: initCodeHash}
}

func (c *Create2) Name() string { return "create2" }

func (c *Create2) Layout() salt.Layout { return salt.Layout{Size: 32} }

func (c *Create2) NewDeriver() Deriver {
	d := &create2Deriver{
		hasher: crypto.NewKeccak(),
		input:  crypto.PrimeCreate2Input(c.factory, c.initCodeHash),
	}
	return d
}

// ResultSalt returns a copy of the full 32-byte salt; it is what the
// caller passes to the CREATE2 factory verbatim.
func (c *Create2) ResultSalt(s types.Salt) types.Salt {
	return append(types.Salt(nil), s...)
}

type create2Deriver struct {
	hasher  hash.Hash
	input   [crypto.Create2InputLen]byte
	hashBuf [types.HashLen]byte
}

func (d *create2Deriver) Derive(s types.Salt) types.Address {
	var addr types.Address
	copy(d.input[crypto.Create2SaltOff:crypto.Create2HashOff], s)
	crypto.Create2AddressInto(d.hasher, d.input[:], d.hashBuf[:], &addr)
	return addr
}

// Create3 derives addresses in two steps: the 52-byte salt is hashed into
// a guarded 32-byte salt, a proxy address is derived from it via the
// CREATE2 rule with the fixed proxy init-code hash, and the final address
// is the one the proxy deploys with its first CREATE (account nonce 1).
type Create3 struct {
	factory types.Address
}

// NewCreate3 returns the two-step scheme for the given factory.
func NewCreate3(factory types.Address) *Create3 {
	return &Create3{factory: factory}
}

func (c *Create3) Name() string { return "create3" }

func (c *Create3) Layout() salt.Layout { return salt.Layout{Size: 52} }

func (c *Create3) NewDeriver() Deriver {
	d := &create3Deriver{
		hasher:    crypto.NewKeccak(),
		create2In: crypto.PrimeCreate2Input(c.factory, ProxyInitCodeHash),
		nonce1In:  crypto.PrimeNonce1Input(),
	}
	return d
}

// ResultSalt returns a copy of the entropy+counter tail (32 bytes): the
// CREATE3 factory re-derives the guarded salt from the caller address, so
// the deployer segment is implicit.
func (c *Create3) ResultSalt(s types.Salt) types.Salt {
	return append(types.Salt(nil), s[salt.DeployerLen:]...)
}

type create3Deriver struct {
	hasher    hash.Hash
	create2In [crypto.Create2InputLen]byte
	nonce1In  [crypto.Nonce1InputLen]byte
	hashBuf   [types.HashLen]byte
}

func (d *create3Deriver) Derive(s types.Salt) types.Address {
	var proxy, addr types.Address

	// guarded salt: keccak256 of the full 52-byte salt
	d.hasher.Reset()
	d.hasher.Write(s)
	guard := d.hasher.Sum(d.hashBuf[:0])
	copy(d.create2In[crypto.Create2SaltOff:crypto.Create2HashOff], guard)

	crypto.Create2AddressInto(d.hasher, d.create2In[:], d.hashBuf[:], &proxy)

	copy(d.nonce1In[crypto.Nonce1AccountOff:crypto.Nonce1AccountOff+types.AddressLen], proxy[:])
	crypto.Nonce1AddressInto(d.hasher, d.nonce1In[:], d.hashBuf[:], &addr)
	return addr
}
