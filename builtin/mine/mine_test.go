// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/builtin/nonces"
	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/builtin/token"
	"github.com/vechain/mineauction/cry"
	"github.com/vechain/mineauction/lvldb"
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/test/datagen"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

func newMine(t *testing.T, blk *xenv.BlockContext, owner, dflt thor.Address) *Mine {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), blk, thor.Address{})
	m := New(thor.BytesToAddress([]byte("mine")), env, DefaultConfig(), cry.NewVerifier(16))
	require.NoError(t, Genesis(m, &GenesisConfig{
		GenesisConfig: token.GenesisConfig{
			Owner:       owner,
			Minters:     []thor.Address{owner},
			Allocations: []token.Allocation{{Account: owner, Amount: big.NewInt(1000)}},
		},
		DefaultDelegatee: dflt,
	}))
	return m
}

func TestGenesisAllocationVotes(t *testing.T) {
	owner, dflt := datagen.RandAddress(), datagen.RandAddress()
	m := newMine(t, &xenv.BlockContext{Number: 1, Time: 100}, owner, dflt)

	votes, err := m.GetCurrentVotes(dflt)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), votes.Int64())
	assert.Equal(t, "MINE", m.Symbol())
	assert.Equal(t, thor.MineMaxSupply, m.MaxSupply())
}

// Minting to an account which never delegated credits the default delegatee;
// delegating moves the weight away.
func TestMintCreditsDefaultDelegatee(t *testing.T) {
	owner, dflt := datagen.RandAddress(), datagen.RandAddress()
	blk := &xenv.BlockContext{Number: 1, Time: 100}
	m := newMine(t, blk, owner, dflt)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	require.NoError(t, m.Mint(owner, alice, big.NewInt(100)))
	votes, err := m.GetCurrentVotes(dflt)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), votes.Int64())

	blk.Number++
	require.NoError(t, m.Delegate(alice, bob))
	votes, err = m.GetCurrentVotes(dflt)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), votes.Int64())
	votes, err = m.GetCurrentVotes(bob)
	require.NoError(t, err)
	assert.Equal(t, int64(100), votes.Int64())
}

func TestDelegateBySig(t *testing.T) {
	owner, dflt := datagen.RandAddress(), datagen.RandAddress()
	m := newMine(t, &xenv.BlockContext{Number: 1, Time: 100}, owner, dflt)
	key, signer := datagen.RandKey()
	bob := datagen.RandAddress()
	require.NoError(t, m.Mint(owner, signer, big.NewInt(7)))

	sig, err := cry.Sign(m.SigningDomain().DelegationHash(bob, 0, 200), key)
	require.NoError(t, err)

	got, err := m.DelegateBySig(bob, 0, 200, sig)
	require.NoError(t, err)
	assert.Equal(t, signer, got)
	votes, err := m.GetCurrentVotes(bob)
	require.NoError(t, err)
	assert.Equal(t, int64(7), votes.Int64())

	_, err = m.DelegateBySig(bob, 0, 200, sig)
	assert.True(t, reverts.Is(err, nonces.ErrInvalidNonce))

	expired, err := cry.Sign(m.SigningDomain().DelegationHash(bob, 1, 99), key)
	require.NoError(t, err)
	_, err = m.DelegateBySig(bob, 1, 99, expired)
	assert.True(t, reverts.Is(err, nonces.ErrSignatureExpired))

	n, err := m.Nonces().Nonce(signer)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n, "failed attempts keep the nonce")
}

func TestSetDefaultDelegateeOwnerOnly(t *testing.T) {
	owner, dflt := datagen.RandAddress(), datagen.RandAddress()
	m := newMine(t, &xenv.BlockContext{Number: 1, Time: 100}, owner, dflt)
	next := datagen.RandAddress()

	assert.True(t, reverts.Is(m.SetDefaultDelegatee(next, next), token.ErrUnauthorizedOwner))
	require.NoError(t, m.SetDefaultDelegatee(owner, next))

	d, err := m.DefaultDelegatee()
	require.NoError(t, err)
	assert.Equal(t, next, d)
}

func TestSupplyCap(t *testing.T) {
	owner, dflt := datagen.RandAddress(), datagen.RandAddress()
	m := newMine(t, &xenv.BlockContext{Number: 1, Time: 100}, owner, dflt)

	// the cap fits in the 96 bit vote range
	rest := new(big.Int).Sub(thor.MineMaxSupply, big.NewInt(1000))
	require.NoError(t, m.Mint(owner, datagen.RandAddress(), rest))
	err := m.Mint(owner, datagen.RandAddress(), big.NewInt(1))
	assert.True(t, reverts.Is(err, token.ErrSupplyCapExceeded))
}
