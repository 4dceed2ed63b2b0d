// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package votes

import (
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/builtin/token"
	"github.com/vechain/mineauction/lvldb"
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/test/datagen"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

type fixture struct {
	blk   *xenv.BlockContext
	tok   *token.Token
	store *Store
	owner thor.Address
	dflt  thor.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	addr := thor.BytesToAddress([]byte("mine"))
	f := &fixture{
		blk:   &xenv.BlockContext{Number: 1, Time: 1000},
		owner: datagen.RandAddress(),
		dflt:  datagen.RandAddress(),
	}
	env := xenv.New(state.New(db), f.blk, thor.Address{})
	f.tok = token.New(addr, env, token.Config{Name: "Mine", Symbol: "MINE", Decimals: 18}, nil)
	f.store = New(addr, env, f.tok)
	f.tok.SetVotingHook(f.store)

	require.NoError(t, Genesis(f.store, f.dflt))
	require.NoError(t, token.Genesis(f.tok, &token.GenesisConfig{
		Owner:   f.owner,
		Minters: []thor.Address{f.owner},
		Burners: []thor.Address{f.owner},
	}))
	return f
}

func (f *fixture) votes(t *testing.T, acc thor.Address) int64 {
	v, err := f.store.GetCurrentVotes(acc)
	require.NoError(t, err)
	return v.Int64()
}

func (f *fixture) prior(t *testing.T, acc thor.Address, seq uint32) int64 {
	v, err := f.store.GetPriorVotes(acc, seq)
	require.NoError(t, err)
	return v.Int64()
}

func TestDefaultDelegation(t *testing.T) {
	f := newFixture(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(100)))
	assert.Equal(t, int64(100), f.votes(t, f.dflt))

	d, err := f.store.Delegates(alice)
	require.NoError(t, err)
	assert.Equal(t, f.dflt, d)

	f.blk.Number++
	require.NoError(t, f.store.SetDelegatee(alice, bob))
	assert.Zero(t, f.votes(t, f.dflt))
	assert.Equal(t, int64(100), f.votes(t, bob))

	d, err = f.store.Delegates(alice)
	require.NoError(t, err)
	assert.Equal(t, bob, d)
}

func TestSetDelegateeErrors(t *testing.T) {
	f := newFixture(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	assert.True(t, reverts.Is(f.store.SetDelegatee(alice, f.dflt), ErrDelegateToDefaultDelegatee))
	assert.True(t, reverts.Is(f.store.SetDelegatee(alice, thor.Address{}), ErrInvalidDelegatee))

	require.NoError(t, f.store.SetDelegatee(alice, bob))
	assert.True(t, reverts.Is(f.store.SetDelegatee(alice, bob), ErrSameValueAlreadySet))
}

func TestTransferMovesVotes(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol, dave := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(100)))
	require.NoError(t, f.store.SetDelegatee(alice, carol))
	require.NoError(t, f.store.SetDelegatee(bob, dave))

	f.blk.Number++
	require.NoError(t, f.tok.Transfer(alice, bob, big.NewInt(40)))
	assert.Equal(t, int64(60), f.votes(t, carol))
	assert.Equal(t, int64(40), f.votes(t, dave))

	// burn reduces the delegatee of the holder
	require.NoError(t, f.tok.Transfer(bob, f.owner, big.NewInt(10)))
	require.NoError(t, f.tok.Burn(f.owner, big.NewInt(10)))
	assert.Equal(t, int64(30), f.votes(t, dave))
	assert.Zero(t, f.votes(t, f.dflt))
}

func TestSameSequenceOverwrites(t *testing.T) {
	f := newFixture(t)
	alice := datagen.RandAddress()

	require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(1)))
	require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(2)))
	n, err := f.store.NumCheckpoints(f.dflt)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	f.blk.Number = 5
	require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(3)))
	n, err = f.store.NumCheckpoints(f.dflt)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	cp, err := f.store.Checkpoint(f.dflt, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cp.FromSequence)
	assert.Equal(t, int64(6), cp.Votes.Int64())
}

func TestGetPriorVotes(t *testing.T) {
	f := newFixture(t)
	alice := datagen.RandAddress()

	_, err := f.store.GetPriorVotes(f.dflt, 1)
	assert.True(t, reverts.Is(err, ErrSequenceTooHigh))

	// votes at sequence s: 10*s for s in 2,4,...,40
	for seq := uint32(2); seq <= 40; seq += 2 {
		f.blk.Number = seq
		require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(20)))
	}
	f.blk.Number = 100

	assert.Zero(t, f.prior(t, f.dflt, 0))
	assert.Zero(t, f.prior(t, f.dflt, 1))
	for seq := uint32(2); seq <= 40; seq++ {
		want := int64(seq/2) * 20
		assert.Equal(t, want, f.prior(t, f.dflt, seq), "sequence %d", seq)
	}
	assert.Equal(t, int64(400), f.prior(t, f.dflt, 99))
}

func TestPriorVotesStable(t *testing.T) {
	f := newFixture(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(100)))
	f.blk.Number = 2
	before := f.prior(t, f.dflt, 1)

	require.NoError(t, f.store.SetDelegatee(alice, bob))
	require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(5)))
	f.blk.Number = 3
	require.NoError(t, f.tok.Transfer(alice, bob, big.NewInt(50)))

	assert.Equal(t, before, f.prior(t, f.dflt, 1))
	assert.Equal(t, int64(100), before)
	assert.Equal(t, int64(105), f.prior(t, bob, 2))
}

func TestSetDefaultDelegatee(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol, newDefault := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, f.tok.Mint(f.owner, alice, big.NewInt(100)))
	require.NoError(t, f.tok.Mint(f.owner, bob, big.NewInt(50)))
	require.NoError(t, f.store.SetDelegatee(bob, carol))

	f.blk.Number = 2
	assert.True(t, reverts.Is(f.store.SetDefaultDelegatee(f.dflt), ErrSameValueAlreadySet))
	require.NoError(t, f.store.SetDefaultDelegatee(newDefault))

	assert.Zero(t, f.votes(t, f.dflt))
	assert.Equal(t, int64(100), f.votes(t, newDefault))
	assert.Equal(t, int64(50), f.votes(t, carol), "explicit delegation untouched")

	f.blk.Number = 3
	assert.Equal(t, int64(100), f.prior(t, f.dflt, 1))

	d, err := f.store.Delegates(alice)
	require.NoError(t, err)
	assert.Equal(t, newDefault, d)
}

// Current votes of every delegatee equal the balances delegated to it.
func TestVotesInvariant(t *testing.T) {
	f := newFixture(t)
	holders := datagen.RandAddresses(6)
	delegatees := datagen.RandAddresses(3)

	for _, h := range holders {
		require.NoError(t, f.tok.Mint(f.owner, h, big.NewInt(int64(1+datagen.RandIntN(1000)))))
	}
	for i := range 60 {
		f.blk.Number++
		h := holders[datagen.RandIntN(len(holders))]
		switch i % 3 {
		case 0:
			_ = f.store.SetDelegatee(h, delegatees[datagen.RandIntN(len(delegatees))])
		case 1:
			to := holders[datagen.RandIntN(len(holders))]
			_ = f.tok.Transfer(h, to, big.NewInt(int64(datagen.RandIntN(300))))
		default:
			require.NoError(t, f.tok.Mint(f.owner, h, big.NewInt(int64(datagen.RandIntN(50)))))
		}
	}

	expected := make(map[thor.Address]*big.Int)
	for _, h := range holders {
		d, err := f.store.Delegates(h)
		require.NoError(t, err)
		bal, err := f.tok.BalanceOf(h)
		require.NoError(t, err)
		if expected[d] == nil {
			expected[d] = new(big.Int)
		}
		expected[d].Add(expected[d], bal)
	}
	for d, want := range expected {
		got, err := f.store.GetCurrentVotes(d)
		require.NoError(t, err)
		assert.Equal(t, want.String(), got.String(), spew.Sdump(expected))
	}
}

func TestVotesOverflow(t *testing.T) {
	f := newFixture(t)
	err := f.tok.Mint(f.owner, datagen.RandAddress(), new(big.Int).Add(thor.MaxUint96, big.NewInt(1)))
	assert.True(t, reverts.Is(err, ErrVotesOverflow))
}
