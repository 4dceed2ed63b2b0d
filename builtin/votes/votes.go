// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package votes keeps per delegatee histories of voting weight.
package votes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/builtin/solidity"
	"github.com/vechain/mineauction/log"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

var logger = log.WithContext("pkg", "votes")

var (
	slotDelegates        = thor.BytesToBytes32([]byte("delegates"))
	slotDefaultDelegatee = thor.BytesToBytes32([]byte("default-delegatee"))
	slotImplicitVotes    = thor.BytesToBytes32([]byte("implicit-votes"))
	slotCheckpoints      = thor.BytesToBytes32([]byte("checkpoints"))
)

var (
	ErrSequenceTooHigh            = reverts.NewCode("SequenceTooHigh(uint32,uint32)", reverts.TemporalMismatch)
	ErrDelegateToDefaultDelegatee = reverts.NewCode("DelegateToDefaultDelegatee(address)", reverts.InvalidArgument)
	ErrInvalidDelegatee           = reverts.NewCode("InvalidDelegatee(address)", reverts.InvalidArgument)
	ErrSameValueAlreadySet        = reverts.NewCode("VotesSameValueAlreadySet()", reverts.InvalidArgument)
	ErrVotesOverflow              = reverts.NewCode("VotesOverflow(address,uint256)", reverts.ResourceExhausted)
	ErrVotesUnderflow             = reverts.NewCode("VotesUnderflow(address,uint256,uint256)", reverts.ResourceExhausted)
)

// Checkpoint records the votes of a delegatee from a sequence number on.
type Checkpoint struct {
	FromSequence uint32
	Votes        *big.Int
}

// Balances is the weight source.
type Balances interface {
	BalanceOf(account thor.Address) (*big.Int, error)
}

// Store binder of the voting checkpoints kept by a token contract.
type Store struct {
	sctx     *solidity.Context
	env      *xenv.Environment
	balances Balances

	delegates        *solidity.Mapping[thor.Address, thor.Address]
	defaultDelegatee *solidity.Address
	// balance sum of the accounts that never delegated
	implicitVotes *solidity.Uint256
}

// New binds the store kept at addr.
func New(addr thor.Address, env *xenv.Environment, balances Balances) *Store {
	sctx := solidity.NewContext(addr, env.State())
	return &Store{
		sctx:             sctx,
		env:              env,
		balances:         balances,
		delegates:        solidity.NewMapping[thor.Address, thor.Address](sctx, slotDelegates),
		defaultDelegatee: solidity.NewAddress(sctx, slotDefaultDelegatee),
		implicitVotes:    solidity.NewUint256(sctx, slotImplicitVotes),
	}
}

func (s *Store) checkpoints(account thor.Address) *solidity.Array[*Checkpoint] {
	return solidity.NewArray[*Checkpoint](s.sctx, thor.Blake2b(account.Bytes(), slotCheckpoints.Bytes()))
}

// DefaultDelegatee returns the delegatee of accounts which never delegated.
func (s *Store) DefaultDelegatee() (thor.Address, error) {
	d, err := s.defaultDelegatee.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get default delegatee")
	}
	return d, nil
}

// Delegates returns the effective delegatee of account.
func (s *Store) Delegates(account thor.Address) (thor.Address, error) {
	d, explicit, err := s.delegateOf(account)
	if err != nil {
		return thor.Address{}, err
	}
	if !explicit {
		return s.DefaultDelegatee()
	}
	return d, nil
}

// HasDelegated reports whether account ever delegated explicitly.
func (s *Store) HasDelegated(account thor.Address) (bool, error) {
	_, explicit, err := s.delegateOf(account)
	return explicit, err
}

func (s *Store) delegateOf(account thor.Address) (thor.Address, bool, error) {
	d, err := s.delegates.Get(account)
	if err != nil {
		return thor.Address{}, false, errors.Wrap(err, "failed to get delegatee")
	}
	return d, !d.IsZero(), nil
}

// NumCheckpoints returns the length of the checkpoint list of account.
func (s *Store) NumCheckpoints(account thor.Address) (uint64, error) {
	return s.checkpoints(account).Len()
}

// Checkpoint returns the checkpoint of account at index.
func (s *Store) Checkpoint(account thor.Address, index uint64) (*Checkpoint, error) {
	return s.checkpoints(account).Get(index)
}

// GetCurrentVotes returns the latest votes of account.
func (s *Store) GetCurrentVotes(account thor.Address) (*big.Int, error) {
	cps := s.checkpoints(account)
	n, err := cps.Len()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoints length")
	}
	if n == 0 {
		return new(big.Int), nil
	}
	cp, err := cps.Get(n - 1)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoint")
	}
	return cp.Votes, nil
}

// GetPriorVotes returns the votes of account at the end of sequence, which must be in the past.
func (s *Store) GetPriorVotes(account thor.Address, sequence uint32) (*big.Int, error) {
	if current := s.env.BlockContext().Number; sequence >= current {
		return nil, ErrSequenceTooHigh.New(sequence, current)
	}
	cps := s.checkpoints(account)
	n, err := cps.Len()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoints length")
	}

	// floor search for the last checkpoint with FromSequence <= sequence
	lo, hi := uint64(0), n
	for lo < hi {
		mid := lo + (hi-lo)/2
		cp, err := cps.Get(mid)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get checkpoint")
		}
		if cp.FromSequence > sequence {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo == 0 {
		return new(big.Int), nil
	}
	cp, err := cps.Get(lo - 1)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoint")
	}
	return cp.Votes, nil
}

// SetDelegatee moves the whole weight of account to newDelegatee.
func (s *Store) SetDelegatee(account, newDelegatee thor.Address) error {
	if newDelegatee.IsZero() {
		return ErrInvalidDelegatee.New(newDelegatee)
	}
	def, err := s.DefaultDelegatee()
	if err != nil {
		return err
	}
	if newDelegatee == def {
		return ErrDelegateToDefaultDelegatee.New(newDelegatee)
	}
	current, explicit, err := s.delegateOf(account)
	if err != nil {
		return err
	}
	if explicit && current == newDelegatee {
		return ErrSameValueAlreadySet.New()
	}

	weight, err := s.balances.BalanceOf(account)
	if err != nil {
		return errors.Wrap(err, "failed to get balance")
	}
	old := current
	if !explicit {
		old = def
		if err := s.implicitVotes.Sub(weight); err != nil {
			return errors.Wrap(err, "failed to decrease implicit votes")
		}
	}
	if err := s.delegates.Set(account, newDelegatee); err != nil {
		return errors.Wrap(err, "failed to set delegatee")
	}
	s.env.Log(s.sctx.Address(), "DelegateSet",
		xenv.Arg("delegator", account),
		xenv.Arg("old", old),
		xenv.Arg("new", newDelegatee))
	logger.Debug("delegate set", "delegator", account, "old", old, "new", newDelegatee, "weight", weight)

	return s.moveDelegates(old, newDelegatee, weight)
}

// SetDefaultDelegatee moves the weight of every never-delegated account to newDefault.
// Explicit delegations are untouched.
func (s *Store) SetDefaultDelegatee(newDefault thor.Address) error {
	if newDefault.IsZero() {
		return ErrInvalidDelegatee.New(newDefault)
	}
	old, err := s.DefaultDelegatee()
	if err != nil {
		return err
	}
	if old == newDefault {
		return ErrSameValueAlreadySet.New()
	}
	implicit, err := s.implicitVotes.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get implicit votes")
	}
	s.defaultDelegatee.Set(newDefault)
	s.env.Log(s.sctx.Address(), "DefaultDelegateeSet", xenv.Arg("old", old), xenv.Arg("new", newDefault))
	logger.Debug("default delegatee set", "old", old, "new", newDefault, "weight", implicit)

	return s.moveDelegates(old, newDefault, implicit)
}

// MoveVotingPower follows a balance change from from to to. A zero from is a mint, a zero to a burn.
func (s *Store) MoveVotingPower(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	src, err := s.effective(from, new(big.Int).Neg(amount))
	if err != nil {
		return err
	}
	dst, err := s.effective(to, amount)
	if err != nil {
		return err
	}
	return s.moveDelegates(src, dst, amount)
}

// effective resolves the delegatee of a balance holder and keeps the implicit total in sync.
func (s *Store) effective(account thor.Address, delta *big.Int) (thor.Address, error) {
	if account.IsZero() {
		return thor.Address{}, nil
	}
	d, explicit, err := s.delegateOf(account)
	if err != nil {
		return thor.Address{}, err
	}
	if explicit {
		return d, nil
	}
	if delta.Sign() > 0 {
		err = s.implicitVotes.Add(delta)
	} else {
		err = s.implicitVotes.Sub(new(big.Int).Neg(delta))
	}
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to update implicit votes")
	}
	return s.DefaultDelegatee()
}

func (s *Store) moveDelegates(src, dst thor.Address, amount *big.Int) error {
	if src == dst || amount.Sign() == 0 {
		return nil
	}
	if !src.IsZero() {
		if err := s.adjust(src, new(big.Int).Neg(amount)); err != nil {
			return err
		}
	}
	if !dst.IsZero() {
		if err := s.adjust(dst, amount); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) adjust(delegatee thor.Address, delta *big.Int) error {
	old, err := s.GetCurrentVotes(delegatee)
	if err != nil {
		return err
	}
	votes := new(big.Int).Add(old, delta)
	if votes.Sign() < 0 {
		return ErrVotesUnderflow.New(delegatee, old, new(big.Int).Neg(delta))
	}
	if votes.Cmp(thor.MaxUint96) > 0 {
		return ErrVotesOverflow.New(delegatee, votes)
	}
	return s.writeCheckpoint(delegatee, old, votes)
}

// writeCheckpoint appends a checkpoint at the current sequence, or overwrites the last one
// when it was written in the same sequence.
func (s *Store) writeCheckpoint(delegatee thor.Address, oldVotes, newVotes *big.Int) error {
	seq := s.env.BlockContext().Number
	cps := s.checkpoints(delegatee)
	n, err := cps.Len()
	if err != nil {
		return errors.Wrap(err, "failed to get checkpoints length")
	}

	var last *Checkpoint
	if n > 0 {
		if last, err = cps.Get(n - 1); err != nil {
			return errors.Wrap(err, "failed to get checkpoint")
		}
	}
	cp := &Checkpoint{FromSequence: seq, Votes: newVotes}
	if last != nil && last.FromSequence == seq {
		err = cps.Set(n-1, cp)
	} else {
		_, err = cps.Push(cp)
	}
	if err != nil {
		return errors.Wrap(err, "failed to write checkpoint")
	}

	s.env.Log(s.sctx.Address(), "DelegateVotesSet",
		xenv.Arg("delegatee", delegatee),
		xenv.Arg("old", new(big.Int).Set(oldVotes)),
		xenv.Arg("new", new(big.Int).Set(newVotes)))
	return nil
}

// Genesis sets the initial default delegatee. It must run before any balance exists.
func Genesis(s *Store, defaultDelegatee thor.Address) error {
	if defaultDelegatee.IsZero() {
		return errors.New("votes genesis: default delegatee required")
	}
	s.defaultDelegatee.Set(defaultDelegatee)
	return nil
}
