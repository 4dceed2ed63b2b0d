// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/mineauction/builtin/auction"
	"github.com/vechain/mineauction/builtin/mine"
	"github.com/vechain/mineauction/builtin/params"
	"github.com/vechain/mineauction/builtin/token"
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

// Builtin contracts binding.
var (
	Params  = &paramsContract{newContract("Params")}
	Unit    = &unitContract{newContract("Unit")}
	Mine    = &mineContract{newContract("Mine")}
	Auction = &auctionContract{newContract("Auction")}
)

// Contract describes a builtin contract.
type Contract struct {
	Name    string
	Address thor.Address
}

// newContract places a contract at the address spelling its name, e.g. 0x...4d696e65 for Mine.
func newContract(name string) *Contract {
	return &Contract{Name: name, Address: thor.BytesToAddress([]byte(name))}
}

// All returns every builtin contract.
func All() []*Contract {
	return []*Contract{Params.Contract, Unit.Contract, Mine.Contract, Auction.Contract}
}

// NameOf returns the name of the builtin contract at addr, or an empty string.
func NameOf(addr thor.Address) string {
	for _, c := range All() {
		if c.Address == addr {
			return c.Name
		}
	}
	return ""
}

type (
	paramsContract  struct{ *Contract }
	unitContract    struct{ *Contract }
	mineContract    struct{ *Contract }
	auctionContract struct{ *Contract }
)

func (p *paramsContract) WithState(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

// UnitConfig is the metadata of the bid token.
func UnitConfig() token.Config {
	return token.Config{Name: "Unit", Symbol: "UNIT", Decimals: thor.TokenDecimals}
}

func (u *unitContract) WithEnv(env *xenv.Environment, verifier xenv.SignatureVerifier) *token.Token {
	return token.New(u.Address, env, UnitConfig(), verifier)
}

func (m *mineContract) WithEnv(env *xenv.Environment, verifier xenv.SignatureVerifier) *mine.Mine {
	return mine.New(m.Address, env, mine.DefaultConfig(), verifier)
}

// Contracts is the set of builtin contracts bound to one call.
type Contracts struct {
	Env     *xenv.Environment
	Params  *params.Params
	Unit    *token.Token
	Mine    *mine.Mine
	Auction *auction.Auction
}

// Bind binds every builtin contract to env. A nil oracle falls back to the params backed one.
func Bind(env *xenv.Environment, verifier xenv.SignatureVerifier, oracle xenv.PriceOracle) *Contracts {
	c := &Contracts{
		Env:    env,
		Params: Params.WithState(env.State()),
		Unit:   Unit.WithEnv(env, verifier),
		Mine:   Mine.WithEnv(env, verifier),
	}
	if oracle == nil {
		oracle = &ParamsOracle{c.Params}
	}
	c.Auction = auction.New(Auction.Address, env, c.Unit, c.Mine, oracle)
	return c
}
