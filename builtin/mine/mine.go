// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package mine binds the capped reward token which carries voting power.
package mine

import (
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin/token"
	"github.com/vechain/mineauction/builtin/votes"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

// Mine is a token whose balances move voting checkpoints.
type Mine struct {
	*token.Token
	*votes.Store
}

// DefaultConfig is the metadata of the MINE token.
func DefaultConfig() token.Config {
	return token.Config{
		Name:      "Mine",
		Symbol:    "MINE",
		Decimals:  thor.TokenDecimals,
		MaxSupply: thor.MineMaxSupply,
	}
}

// New binds the token at addr.
func New(addr thor.Address, env *xenv.Environment, cfg token.Config, verifier xenv.SignatureVerifier) *Mine {
	tok := token.New(addr, env, cfg, verifier)
	store := votes.New(addr, env, tok)
	tok.SetVotingHook(store)
	return &Mine{Token: tok, Store: store}
}

// Delegate moves the voting weight of caller to delegatee.
func (m *Mine) Delegate(caller, delegatee thor.Address) error {
	return m.SetDelegatee(caller, delegatee)
}

// DelegateBySig delegates on behalf of the signer of a delegation message and returns the signer.
func (m *Mine) DelegateBySig(delegatee thor.Address, nonce, expiry uint64, sig []byte) (thor.Address, error) {
	hash := m.SigningDomain().DelegationHash(delegatee, nonce, expiry)
	signer, err := m.Nonces().RecoverAndConsume(m.Env().BlockContext().Time, nonce, expiry, hash, sig)
	if err != nil {
		return thor.Address{}, err
	}
	return signer, m.SetDelegatee(signer, delegatee)
}

// SetDefaultDelegatee changes the delegatee of never-delegated accounts. Owner only.
func (m *Mine) SetDefaultDelegatee(caller, newDefault thor.Address) error {
	owner, err := m.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return token.ErrUnauthorizedOwner.New(caller)
	}
	return m.Store.SetDefaultDelegatee(newDefault)
}

// GenesisConfig is the initial state of the token.
type GenesisConfig struct {
	token.GenesisConfig
	DefaultDelegatee thor.Address
}

// Genesis sets the default delegatee before allocating balances.
func Genesis(m *Mine, cfg *GenesisConfig) error {
	if err := votes.Genesis(m.Store, cfg.DefaultDelegatee); err != nil {
		return err
	}
	if err := token.Genesis(m.Token, &cfg.GenesisConfig); err != nil {
		return errors.WithMessage(err, "mine")
	}
	return nil
}
