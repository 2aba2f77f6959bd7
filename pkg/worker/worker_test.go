package worker

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/hookmine/hookmine/pkg/pattern"
	"github.com/hookmine/hookmine/pkg/salt"
	"github.com/hookmine/hookmine/pkg/scheme"
	"github.com/hookmine/hookmine/pkg/types"
)

// recordScheme captures every salt handed to its deriver, so tests can
// inspect exactly which candidates a worker built.
type recordScheme struct {
	deriver *recordDeriver
}

func (r *recordScheme) Name() string               { return "record" }
func (r *recordScheme) Layout() salt.Layout        { return salt.Layout{Size: 32} }
func (r *recordScheme) NewDeriver() scheme.Deriver { return r.deriver }

func (r *recordScheme) ResultSalt(s types.Salt) types.Salt {
	return append(types.Salt(nil), s...)
}

type recordDeriver struct {
	salts []types.Salt
}

func (d *recordDeriver) Derive(s types.Salt) types.Address {
	d.salts = append(d.salts, append(types.Salt(nil), s...))
	return types.Address{}
}

// neverMatch is a pattern no zero-valued candidate address can satisfy.
var neverMatch = pattern.Pattern{
	FlagsMask: pattern.FlagsMask,
	Flags:     types.Address{19: 0x01},
}

func TestSearchWalksCounterRange(t *testing.T) {
	deployer, _ := types.ParseAddress("0x9fC3dc011b461664c835F2527fffb1169b3C213e")
	rs := &recordScheme{deriver: &recordDeriver{}}
	base := rs.Layout().Base(deployer)

	var attempts int64
	w := New(rs, &neverMatch, &attempts)
	stop := make(chan struct{})

	_, _, ok := w.Search(base, 3, 7, stop)
	if ok {
		t.Fatal("Search reported a match for an unsatisfiable pattern")
	}
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4", attempts)
	}
	if len(rs.deriver.salts) != 4 {
		t.Fatalf("derived %d candidates, want 4", len(rs.deriver.salts))
	}

	for i, s := range rs.deriver.salts {
		if !bytes.Equal(s[:salt.DeployerLen], deployer[:]) {
			t.Errorf("candidate %d: deployer segment mutated", i)
		}
		var buf [8]byte
		copy(buf[2:], s[len(s)-salt.CounterLen:])
		if got, want := binary.BigEndian.Uint64(buf[:]), uint64(3+i); got != want {
			t.Errorf("candidate %d: counter = %d, want %d", i, got, want)
		}
	}
}

func TestSearchReturnsSaltCopy(t *testing.T) {
	deployer, _ := types.ParseAddress("0x9fC3dc011b461664c835F2527fffb1169b3C213e")
	rs := &recordScheme{deriver: &recordDeriver{}}
	base := rs.Layout().Base(deployer)

	var attempts int64
	matchAll := pattern.Pattern{}
	w := New(rs, &matchAll, &attempts)
	stop := make(chan struct{})

	_, first, ok := w.Search(base, 5, 10, stop)
	if !ok {
		t.Fatal("trivial pattern must match the first candidate")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (first candidate matches)", attempts)
	}

	snapshot := append(types.Salt(nil), first...)
	if _, _, ok := w.Search(base, 11, 20, stop); !ok {
		t.Fatal("second Search must also match")
	}
	if !bytes.Equal(first, snapshot) {
		t.Error("returned salt aliases the worker's scratch buffer")
	}
}

func TestSearchHonorsStop(t *testing.T) {
	deployer, _ := types.ParseAddress("0x9fC3dc011b461664c835F2527fffb1169b3C213e")
	rs := &recordScheme{deriver: &recordDeriver{}}
	base := rs.Layout().Base(deployer)

	var attempts int64
	w := New(rs, &neverMatch, &attempts)
	stop := make(chan struct{})
	close(stop)

	if _, _, ok := w.Search(base, 0, 1<<30, stop); ok {
		t.Fatal("Search matched after stop")
	}
	if attempts != 0 {
		t.Errorf("attempts = %d, want 0 with a pre-closed stop channel", attempts)
	}
}
