// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/cry"
	"github.com/vechain/mineauction/lvldb"
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/test/datagen"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

type hookCall struct {
	from, to thor.Address
	amount   *big.Int
}

type recordingHook struct {
	calls []hookCall
}

func (h *recordingHook) MoveVotingPower(from, to thor.Address, amount *big.Int) error {
	h.calls = append(h.calls, hookCall{from, to, new(big.Int).Set(amount)})
	return nil
}

type fixture struct {
	tok   *Token
	owner thor.Address
	alice thor.Address
	bob   thor.Address
	hook  *recordingHook
}

func newFixture(t *testing.T, maxSupply *big.Int) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), &xenv.BlockContext{Number: 1, Time: 1000}, thor.Address{})
	f := &fixture{
		owner: datagen.RandAddress(),
		alice: datagen.RandAddress(),
		bob:   datagen.RandAddress(),
		hook:  &recordingHook{},
	}
	f.tok = New(thor.BytesToAddress([]byte("token")), env,
		Config{Name: "Test", Symbol: "TST", Decimals: 18, MaxSupply: maxSupply},
		cry.NewVerifier(16))
	f.tok.SetVotingHook(f.hook)
	require.NoError(t, Genesis(f.tok, &GenesisConfig{
		Owner:   f.owner,
		Minters: []thor.Address{f.owner},
		Burners: []thor.Address{f.owner},
	}))
	return f
}

func (f *fixture) balance(t *testing.T, acc thor.Address) int64 {
	bal, err := f.tok.BalanceOf(acc)
	require.NoError(t, err)
	return bal.Int64()
}

func (f *fixture) supply(t *testing.T) int64 {
	s, err := f.tok.TotalSupply()
	require.NoError(t, err)
	return s.Int64()
}

func TestMetadata(t *testing.T) {
	f := newFixture(t, big.NewInt(1000))
	assert.Equal(t, "Test", f.tok.Name())
	assert.Equal(t, "TST", f.tok.Symbol())
	assert.Equal(t, uint8(18), f.tok.Decimals())
	assert.Equal(t, big.NewInt(1000), f.tok.MaxSupply())

	owner, err := f.tok.Owner()
	require.NoError(t, err)
	assert.Equal(t, f.owner, owner)
}

func TestMintAndBurn(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.tok.Mint(f.owner, f.alice, big.NewInt(100)))
	assert.Equal(t, int64(100), f.balance(t, f.alice))
	assert.Equal(t, int64(100), f.supply(t))

	err := f.tok.Mint(f.alice, f.alice, big.NewInt(1))
	assert.True(t, reverts.Is(err, ErrUnauthorizedMinter))
	assert.Equal(t, reverts.Authorization, ErrUnauthorizedMinter.Kind())

	err = f.tok.Mint(f.owner, thor.Address{}, big.NewInt(1))
	assert.True(t, reverts.Is(err, ErrInvalidReceiver))

	require.NoError(t, f.tok.Transfer(f.alice, f.owner, big.NewInt(30)))
	require.NoError(t, f.tok.Burn(f.owner, big.NewInt(10)))
	assert.Equal(t, int64(20), f.balance(t, f.owner))
	assert.Equal(t, int64(90), f.supply(t))

	err = f.tok.Burn(f.alice, big.NewInt(1))
	assert.True(t, reverts.Is(err, ErrUnauthorizedBurner))

	err = f.tok.Burn(f.owner, big.NewInt(21))
	assert.True(t, reverts.Is(err, ErrInsufficientBalance))

	require.Len(t, f.hook.calls, 3)
	assert.Equal(t, hookCall{thor.Address{}, f.alice, big.NewInt(100)}, f.hook.calls[0])
	assert.Equal(t, hookCall{f.owner, thor.Address{}, big.NewInt(10)}, f.hook.calls[2])
}

func TestAnyoneSentinel(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.tok.SetBurner(f.owner, thor.Address{}, true))
	require.NoError(t, f.tok.Mint(f.owner, f.alice, big.NewInt(5)))
	require.NoError(t, f.tok.Burn(f.alice, big.NewInt(5)))
	assert.Zero(t, f.supply(t))

	err := f.tok.SetMinter(f.owner, thor.Address{}, true)
	assert.True(t, reverts.Is(err, ErrInvalidMinter))
}

func TestSupplyCap(t *testing.T) {
	f := newFixture(t, big.NewInt(100))

	require.NoError(t, f.tok.Mint(f.owner, f.alice, big.NewInt(100)))
	err := f.tok.Mint(f.owner, f.alice, big.NewInt(1))
	assert.True(t, reverts.Is(err, ErrSupplyCapExceeded))

	rev, ok := reverts.As(err)
	require.True(t, ok)
	assert.Equal(t, "ERC20ExceededCap(101, 100)", rev.Error())
}

func TestOverflow(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.tok.Mint(f.owner, f.alice, thor.MaxUint256))
	err := f.tok.Mint(f.owner, f.bob, big.NewInt(1))
	assert.True(t, reverts.Is(err, ErrAmountOverflow))
}

func TestTransfer(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.tok.Mint(f.owner, f.alice, big.NewInt(50)))

	require.NoError(t, f.tok.Transfer(f.alice, f.bob, big.NewInt(20)))
	assert.Equal(t, int64(30), f.balance(t, f.alice))
	assert.Equal(t, int64(20), f.balance(t, f.bob))

	err := f.tok.Transfer(f.alice, f.bob, big.NewInt(31))
	require.True(t, reverts.Is(err, ErrInsufficientBalance))
	rev, _ := reverts.As(err)
	assert.Equal(t, []any{f.alice, big.NewInt(30), big.NewInt(31)}, rev.Args())

	err = f.tok.Transfer(f.alice, thor.Address{}, big.NewInt(1))
	assert.True(t, reverts.Is(err, ErrInvalidReceiver))

	// full balance transfer clears the slot
	require.NoError(t, f.tok.Transfer(f.bob, f.alice, big.NewInt(20)))
	assert.Zero(t, f.balance(t, f.bob))

	var transfers int
	for _, ev := range f.tok.Env().Events() {
		if ev.Name == "Transfer" {
			transfers++
		}
	}
	assert.Equal(t, 3, transfers)
}

func TestTransferFrom(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.tok.Mint(f.owner, f.alice, big.NewInt(100)))

	err := f.tok.TransferFrom(f.bob, f.alice, f.bob, big.NewInt(10))
	assert.True(t, reverts.Is(err, ErrInsufficientAllowance))

	require.NoError(t, f.tok.Approve(f.alice, f.bob, big.NewInt(15)))
	require.NoError(t, f.tok.TransferFrom(f.bob, f.alice, f.bob, big.NewInt(10)))
	allowance, err := f.tok.Allowance(f.alice, f.bob)
	require.NoError(t, err)
	assert.Equal(t, int64(5), allowance.Int64())

	// unlimited allowance is not decremented
	require.NoError(t, f.tok.Approve(f.alice, f.bob, thor.MaxUint256))
	require.NoError(t, f.tok.TransferFrom(f.bob, f.alice, f.bob, big.NewInt(10)))
	allowance, err = f.tok.Allowance(f.alice, f.bob)
	require.NoError(t, err)
	assert.Equal(t, thor.MaxUint256, allowance)

	err = f.tok.Approve(f.alice, thor.Address{}, big.NewInt(1))
	assert.True(t, reverts.Is(err, ErrInvalidSpender))
}

func TestBurnFrom(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.tok.Mint(f.owner, f.alice, big.NewInt(100)))

	err := f.tok.BurnFrom(f.owner, f.alice, big.NewInt(10))
	assert.True(t, reverts.Is(err, ErrInsufficientAllowance))

	require.NoError(t, f.tok.Approve(f.alice, f.owner, big.NewInt(10)))
	require.NoError(t, f.tok.BurnFrom(f.owner, f.alice, big.NewInt(10)))
	assert.Equal(t, int64(90), f.balance(t, f.alice))
	assert.Equal(t, int64(90), f.supply(t))

	err = f.tok.BurnFrom(f.owner, thor.Address{}, big.NewInt(1))
	assert.True(t, reverts.Is(err, ErrInvalidTokenOwner))
}

func TestOwnership(t *testing.T) {
	f := newFixture(t, nil)

	assert.True(t, reverts.Is(f.tok.SetOwner(f.alice, f.alice), ErrUnauthorizedOwner))
	assert.True(t, reverts.Is(f.tok.SetOwner(f.owner, thor.Address{}), ErrInvalidOwner))
	assert.True(t, reverts.Is(f.tok.SetOwner(f.owner, f.owner), ErrOwnerSameValue))

	require.NoError(t, f.tok.SetOwner(f.owner, f.alice))
	owner, err := f.tok.Owner()
	require.NoError(t, err)
	assert.Equal(t, f.alice, owner)

	assert.True(t, reverts.Is(f.tok.SetMinter(f.owner, f.bob, true), ErrUnauthorizedOwner))
	require.NoError(t, f.tok.SetMinter(f.alice, f.bob, true))
	assert.True(t, reverts.Is(f.tok.SetMinter(f.alice, f.bob, true), ErrMinterSameValue))
	ok, err := f.tok.IsMinter(f.bob)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.tok.SetBurner(f.alice, f.owner, false))
	assert.True(t, reverts.Is(f.tok.SetBurner(f.alice, f.owner, false), ErrBurnerSameValue))

	last := f.tok.Env().Events()[len(f.tok.Env().Events())-1]
	assert.Equal(t, "BurnerSet", last.Name)
	assert.Equal(t, xenv.Arg("account", f.owner), last.Args[0])
}

func TestPause(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.tok.Mint(f.owner, f.alice, big.NewInt(10)))

	assert.True(t, reverts.Is(f.tok.Unpause(f.owner), ErrExpectedPause))
	require.NoError(t, f.tok.Pause(f.owner))
	assert.True(t, reverts.Is(f.tok.Transfer(f.alice, f.bob, big.NewInt(1)), ErrEnforcedPause))
	assert.True(t, reverts.Is(f.tok.Mint(f.owner, f.bob, big.NewInt(1)), ErrEnforcedPause))

	require.NoError(t, f.tok.Unpause(f.owner))
	require.NoError(t, f.tok.Transfer(f.alice, f.bob, big.NewInt(1)))
}

func TestPermit(t *testing.T) {
	f := newFixture(t, nil)
	key, holder := datagen.RandKey()

	hash := f.tok.SigningDomain().PermitHash(holder, f.bob, big.NewInt(42), 0, 2000)
	sig, err := cry.Sign(hash, key)
	require.NoError(t, err)

	require.NoError(t, f.tok.Permit(holder, f.bob, big.NewInt(42), 0, 2000, sig))
	allowance, err := f.tok.Allowance(holder, f.bob)
	require.NoError(t, err)
	assert.Equal(t, int64(42), allowance.Int64())

	// replayed signature carries a stale nonce
	err = f.tok.Permit(holder, f.bob, big.NewInt(42), 0, 2000, sig)
	assert.Error(t, err)
	assert.Equal(t, reverts.SignatureInvalid, mustRevert(t, err).Code().Kind())

	// signed for someone else
	err = f.tok.Permit(f.alice, f.bob, big.NewInt(42), 1, 2000, sig)
	assert.Equal(t, reverts.SignatureInvalid, mustRevert(t, err).Code().Kind())
}

func TestSupplyInvariant(t *testing.T) {
	f := newFixture(t, nil)
	accounts := datagen.RandAddresses(5)

	for i, acc := range accounts {
		require.NoError(t, f.tok.Mint(f.owner, acc, big.NewInt(int64(100*(i+1)))))
	}
	for i := range 50 {
		from := accounts[datagen.RandIntN(len(accounts))]
		to := accounts[datagen.RandIntN(len(accounts))]
		amount := big.NewInt(int64(datagen.RandIntN(200)))
		_ = f.tok.Transfer(from, to, amount)
		if i%7 == 0 {
			require.NoError(t, f.tok.SetBurner(f.owner, from, true))
			_ = f.tok.Burn(from, big.NewInt(1))
			require.NoError(t, f.tok.SetBurner(f.owner, from, false))
		}
	}

	sum := new(big.Int)
	for _, acc := range accounts {
		bal, err := f.tok.BalanceOf(acc)
		require.NoError(t, err)
		sum.Add(sum, bal)
	}
	supply, err := f.tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, supply, sum)
}

func mustRevert(t *testing.T, err error) *reverts.ErrRevert {
	rev, ok := reverts.As(err)
	require.True(t, ok, "expected revert, got %v", err)
	return rev
}
