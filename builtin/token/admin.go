// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

func (t *Token) onlyOwner(caller thor.Address) error {
	owner, err := t.Owner()
	if err != nil {
		return err
	}
	if owner.IsZero() || caller != owner {
		return ErrUnauthorizedOwner.New(caller)
	}
	return nil
}

// SetOwner transfers the ownership to newOwner.
func (t *Token) SetOwner(caller, newOwner thor.Address) error {
	if err := t.onlyOwner(caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return ErrInvalidOwner.New(newOwner)
	}
	if newOwner == caller {
		return ErrOwnerSameValue.New()
	}
	t.owner.Set(newOwner)
	t.env.Log(t.addr, "OwnerSet", xenv.Arg("old", caller), xenv.Arg("new", newOwner))
	return nil
}

// SetMinter grants or revokes the mint capability. The zero address can not be set here.
func (t *Token) SetMinter(caller, account thor.Address, enabled bool) error {
	if err := t.onlyOwner(caller); err != nil {
		return err
	}
	if account.IsZero() {
		return ErrInvalidMinter.New(account)
	}
	current, err := t.IsMinter(account)
	if err != nil {
		return errors.Wrap(err, "failed to get minter")
	}
	if current == enabled {
		return ErrMinterSameValue.New()
	}
	if err := t.minters.Set(account, enabled); err != nil {
		return errors.Wrap(err, "failed to set minter")
	}
	t.env.Log(t.addr, "MinterSet", xenv.Arg("account", account), xenv.Arg("enabled", enabled))
	return nil
}

// SetBurner grants or revokes the burn capability. Granting it to the zero address opens burning to anyone.
func (t *Token) SetBurner(caller, account thor.Address, enabled bool) error {
	if err := t.onlyOwner(caller); err != nil {
		return err
	}
	current, err := t.IsBurner(account)
	if err != nil {
		return errors.Wrap(err, "failed to get burner")
	}
	if current == enabled {
		return ErrBurnerSameValue.New()
	}
	if err := t.burners.Set(account, enabled); err != nil {
		return errors.Wrap(err, "failed to set burner")
	}
	t.env.Log(t.addr, "BurnerSet", xenv.Arg("account", account), xenv.Arg("enabled", enabled))
	return nil
}

// Pause stops every balance change until Unpause.
func (t *Token) Pause(caller thor.Address) error {
	if err := t.onlyOwner(caller); err != nil {
		return err
	}
	if paused, err := t.Paused(); err != nil {
		return errors.Wrap(err, "failed to get paused")
	} else if paused {
		return ErrEnforcedPause.New()
	}
	if err := t.paused.Set(true); err != nil {
		return errors.Wrap(err, "failed to set paused")
	}
	t.env.Log(t.addr, "Paused", xenv.Arg("account", caller))
	return nil
}

func (t *Token) Unpause(caller thor.Address) error {
	if err := t.onlyOwner(caller); err != nil {
		return err
	}
	if paused, err := t.Paused(); err != nil {
		return errors.Wrap(err, "failed to get paused")
	} else if !paused {
		return ErrExpectedPause.New()
	}
	t.env.State().SetRawStorage(t.addr, slotPaused, nil)
	t.env.Log(t.addr, "Unpaused", xenv.Arg("account", caller))
	return nil
}

// Permit sets the allowance of spender over owner's tokens from a signed approval.
func (t *Token) Permit(owner, spender thor.Address, value *big.Int, nonce, deadline uint64, sig []byte) error {
	if spender.IsZero() {
		return ErrInvalidSpender.New(spender)
	}
	hash := t.SigningDomain().PermitHash(owner, spender, value, nonce, deadline)
	if err := t.nonces.VerifyAndConsume(t.env.BlockContext().Time, owner, nonce, deadline, hash, sig); err != nil {
		return err
	}
	return t.approve(owner, spender, value)
}
