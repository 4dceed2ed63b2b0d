// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a fungible ledger with owner managed mint and burn capabilities.
package token

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin/nonces"
	"github.com/vechain/mineauction/builtin/solidity"
	"github.com/vechain/mineauction/cry"
	"github.com/vechain/mineauction/log"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

var logger = log.WithContext("pkg", "token")

var (
	slotOwner       = thor.BytesToBytes32([]byte("owner"))
	slotPaused      = thor.BytesToBytes32([]byte("paused"))
	slotTotalSupply = thor.BytesToBytes32([]byte("total-supply"))
	slotBalances    = thor.BytesToBytes32([]byte("balances"))
	slotAllowances  = thor.BytesToBytes32([]byte("allowances"))
	slotMinters     = thor.BytesToBytes32([]byte("minters"))
	slotBurners     = thor.BytesToBytes32([]byte("burners"))
)

// VotingHook observes every balance change. from is zero on mint, to is zero on burn.
type VotingHook interface {
	MoveVotingPower(from, to thor.Address, amount *big.Int) error
}

// Config is the static description of a token.
type Config struct {
	Name      string
	Symbol    string
	Decimals  uint8
	MaxSupply *big.Int // nil means uncapped
}

type allowanceKey = solidity.PairKey[thor.Address, thor.Address]

// Token binder of a token contract.
type Token struct {
	addr thor.Address
	env  *xenv.Environment
	cfg  Config

	owner       *solidity.Address
	paused      *solidity.Raw[bool]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[allowanceKey, *big.Int]
	minters     *solidity.Mapping[thor.Address, bool]
	burners     *solidity.Mapping[thor.Address, bool]
	nonces      *nonces.Service

	hook VotingHook
}

// New binds the token at addr to the environment.
func New(addr thor.Address, env *xenv.Environment, cfg Config, verifier xenv.SignatureVerifier) *Token {
	sctx := solidity.NewContext(addr, env.State())
	return &Token{
		addr:        addr,
		env:         env,
		cfg:         cfg,
		owner:       solidity.NewAddress(sctx, slotOwner),
		paused:      solidity.NewRaw[bool](sctx, slotPaused),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *big.Int](sctx, slotAllowances),
		minters:     solidity.NewMapping[thor.Address, bool](sctx, slotMinters),
		burners:     solidity.NewMapping[thor.Address, bool](sctx, slotBurners),
		nonces:      nonces.New(sctx, verifier),
	}
}

// SetVotingHook installs the observer of balance changes.
func (t *Token) SetVotingHook(hook VotingHook) {
	t.hook = hook
}

func (t *Token) Address() thor.Address   { return t.addr }
func (t *Token) Name() string            { return t.cfg.Name }
func (t *Token) Symbol() string          { return t.cfg.Symbol }
func (t *Token) Decimals() uint8         { return t.cfg.Decimals }
func (t *Token) Env() *xenv.Environment  { return t.env }
func (t *Token) Nonces() *nonces.Service { return t.nonces }

func (t *Token) SigningDomain() cry.Domain {
	return cry.Domain{Name: t.cfg.Name, Version: "1", Contract: t.addr}
}

// MaxSupply returns the supply cap, nil if uncapped.
func (t *Token) MaxSupply() *big.Int {
	if t.cfg.MaxSupply == nil {
		return nil
	}
	return new(big.Int).Set(t.cfg.MaxSupply)
}

func (t *Token) TotalSupply() (*big.Int, error) {
	supply, err := t.totalSupply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total supply")
	}
	return supply, nil
}

func (t *Token) BalanceOf(account thor.Address) (*big.Int, error) {
	bal, err := t.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	v, err := t.allowances.Get(allowanceKey{First: owner, Second: spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

func (t *Token) Owner() (thor.Address, error) {
	owner, err := t.owner.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get owner")
	}
	return owner, nil
}

func (t *Token) IsMinter(account thor.Address) (bool, error) {
	return t.minters.Get(account)
}

func (t *Token) IsBurner(account thor.Address) (bool, error) {
	return t.burners.Get(account)
}

func (t *Token) Paused() (bool, error) {
	return t.paused.Get()
}

// Transfer moves amount from the caller to to.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if from.IsZero() {
		return ErrInvalidSender.New(from)
	}
	if to.IsZero() {
		return ErrInvalidReceiver.New(to)
	}
	return t.update(from, to, amount)
}

// Approve sets the allowance of spender over the caller's tokens.
func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	if owner.IsZero() {
		return ErrInvalidSender.New(owner)
	}
	if spender.IsZero() {
		return ErrInvalidSpender.New(spender)
	}
	return t.approve(owner, spender, amount)
}

func (t *Token) approve(owner, spender thor.Address, amount *big.Int) error {
	if err := t.allowances.Set(allowanceKey{First: owner, Second: spender}, new(big.Int).Set(amount)); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	t.env.Log(t.addr, "Approval",
		xenv.Arg("owner", owner),
		xenv.Arg("spender", spender),
		xenv.Arg("amount", new(big.Int).Set(amount)))
	return nil
}

// TransferFrom moves amount from from to to, spending the allowance of spender.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	if from.IsZero() {
		return ErrInvalidSender.New(from)
	}
	if to.IsZero() {
		return ErrInvalidReceiver.New(to)
	}
	if err := t.spendAllowance(from, spender, amount); err != nil {
		return err
	}
	return t.update(from, to, amount)
}

// spendAllowance decrements the allowance, leaving an unlimited one untouched.
func (t *Token) spendAllowance(owner, spender thor.Address, amount *big.Int) error {
	current, err := t.Allowance(owner, spender)
	if err != nil {
		return err
	}
	if current.Cmp(thor.MaxUint256) == 0 {
		return nil
	}
	if current.Cmp(amount) < 0 {
		return ErrInsufficientAllowance.New(spender, current, new(big.Int).Set(amount))
	}
	if err := t.allowances.Set(allowanceKey{First: owner, Second: spender}, current.Sub(current, amount)); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}

// Mint creates amount tokens for to. The caller, or the zero address, must be a minter.
func (t *Token) Mint(caller, to thor.Address, amount *big.Int) error {
	if err := t.requireCapability(t.minters, caller, ErrUnauthorizedMinter.New(caller)); err != nil {
		return err
	}
	if to.IsZero() {
		return ErrInvalidReceiver.New(to)
	}
	logger.Debug("mint", "token", t.cfg.Symbol, "to", to, "amount", amount)
	return t.update(thor.Address{}, to, amount)
}

// Burn destroys amount tokens of the caller. The caller, or the zero address, must be a burner.
func (t *Token) Burn(caller thor.Address, amount *big.Int) error {
	if err := t.requireCapability(t.burners, caller, ErrUnauthorizedBurner.New(caller)); err != nil {
		return err
	}
	if caller.IsZero() {
		return ErrInvalidTokenOwner.New(caller)
	}
	logger.Debug("burn", "token", t.cfg.Symbol, "from", caller, "amount", amount)
	return t.update(caller, thor.Address{}, amount)
}

// BurnFrom destroys amount tokens of from, spending the caller's allowance.
func (t *Token) BurnFrom(caller, from thor.Address, amount *big.Int) error {
	if err := t.requireCapability(t.burners, caller, ErrUnauthorizedBurner.New(caller)); err != nil {
		return err
	}
	if from.IsZero() {
		return ErrInvalidTokenOwner.New(from)
	}
	if err := t.spendAllowance(from, caller, amount); err != nil {
		return err
	}
	logger.Debug("burn from", "token", t.cfg.Symbol, "from", from, "burner", caller, "amount", amount)
	return t.update(from, thor.Address{}, amount)
}

func (t *Token) requireCapability(flags *solidity.Mapping[thor.Address, bool], caller thor.Address, denied error) error {
	ok, err := flags.Get(caller)
	if err != nil {
		return errors.Wrap(err, "failed to get capability")
	}
	if ok {
		return nil
	}
	// the zero address stands for anyone
	if ok, err = flags.Get(thor.Address{}); err != nil {
		return errors.Wrap(err, "failed to get capability")
	}
	if !ok {
		return denied
	}
	return nil
}

// update moves amount between accounts. from is zero for mint, to is zero for burn.
func (t *Token) update(from, to thor.Address, amount *big.Int) error {
	if paused, err := t.Paused(); err != nil {
		return errors.Wrap(err, "failed to get paused")
	} else if paused {
		return ErrEnforcedPause.New()
	}
	if amount.Sign() < 0 {
		return ErrAmountOverflow.New()
	}

	if from.IsZero() {
		supply, err := t.TotalSupply()
		if err != nil {
			return err
		}
		newSupply, err := checkedAdd(supply, amount)
		if err != nil {
			return err
		}
		if t.cfg.MaxSupply != nil && newSupply.Cmp(t.cfg.MaxSupply) > 0 {
			return ErrSupplyCapExceeded.New(newSupply, new(big.Int).Set(t.cfg.MaxSupply))
		}
		t.totalSupply.Set(newSupply)
	} else {
		bal, err := t.BalanceOf(from)
		if err != nil {
			return err
		}
		if bal.Cmp(amount) < 0 {
			return ErrInsufficientBalance.New(from, bal, new(big.Int).Set(amount))
		}
		if err := t.setBalance(from, bal.Sub(bal, amount)); err != nil {
			return err
		}
	}

	if to.IsZero() {
		if err := t.totalSupply.Sub(amount); err != nil {
			return errors.Wrap(err, "failed to decrease total supply")
		}
	} else {
		bal, err := t.BalanceOf(to)
		if err != nil {
			return err
		}
		newBal, err := checkedAdd(bal, amount)
		if err != nil {
			return err
		}
		if err := t.setBalance(to, newBal); err != nil {
			return err
		}
	}

	t.env.Log(t.addr, "Transfer",
		xenv.Arg("from", from),
		xenv.Arg("to", to),
		xenv.Arg("amount", new(big.Int).Set(amount)))

	if t.hook != nil {
		return t.hook.MoveVotingPower(from, to, amount)
	}
	return nil
}

func (t *Token) setBalance(account thor.Address, bal *big.Int) error {
	if bal.Sign() == 0 {
		t.balances.Delete(account)
		return nil
	}
	if err := t.balances.Set(account, bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

func checkedAdd(a, b *big.Int) (*big.Int, error) {
	x, overflow := uint256.FromBig(a)
	if overflow {
		return nil, ErrAmountOverflow.New()
	}
	y, overflow := uint256.FromBig(b)
	if overflow {
		return nil, ErrAmountOverflow.New()
	}
	sum, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrAmountOverflow.New()
	}
	return sum.ToBig(), nil
}
