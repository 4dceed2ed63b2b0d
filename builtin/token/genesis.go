// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/mineauction/thor"
)

// Allocation is an initial balance.
type Allocation struct {
	Account thor.Address
	Amount  *big.Int
}

// GenesisConfig describes the initial state of a token.
type GenesisConfig struct {
	Owner       thor.Address
	Minters     []thor.Address // the zero address opens minting to anyone
	Burners     []thor.Address
	Allocations []Allocation
}

// Genesis writes the initial state. Allocations are minted, so voting hooks see them.
func Genesis(t *Token, cfg *GenesisConfig) error {
	if cfg.Owner.IsZero() {
		return errors.New("token genesis: owner required")
	}
	t.owner.Set(cfg.Owner)
	for _, m := range cfg.Minters {
		if err := t.minters.Set(m, true); err != nil {
			return errors.Wrap(err, "token genesis: set minter")
		}
	}
	for _, b := range cfg.Burners {
		if err := t.burners.Set(b, true); err != nil {
			return errors.Wrap(err, "token genesis: set burner")
		}
	}
	for _, a := range cfg.Allocations {
		if a.Account.IsZero() {
			return errors.New("token genesis: allocation to zero address")
		}
		if err := t.update(thor.Address{}, a.Account, a.Amount); err != nil {
			return errors.Wrapf(err, "token genesis: allocate %v", a.Account)
		}
	}
	return nil
}
