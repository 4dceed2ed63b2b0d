// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/builtin/token"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/thor"
)

type Accounts struct {
	engine     *engine.Engine
	allowCalls bool
}

// New creates the accounts api. allowCalls enables endpoints acting on behalf of the path account.
func New(e *engine.Engine, allowCalls bool) *Accounts {
	return &Accounts{e, allowCalls}
}

func tokenOf(c *builtin.Contracts, name string) (*token.Token, error) {
	switch name {
	case "unit":
		return c.Unit, nil
	case "mine":
		return c.Mine.Token, nil
	}
	return nil, utils.NotFound(fmt.Errorf("token %q", name))
}

func parseAddress(req *http.Request) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func holding(t *token.Token, addr thor.Address) (*Holding, error) {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	nonce, err := t.Nonces().Nonce(addr)
	if err != nil {
		return nil, err
	}
	minter, err := t.IsMinter(addr)
	if err != nil {
		return nil, err
	}
	burner, err := t.IsBurner(addr)
	if err != nil {
		return nil, err
	}
	return &Holding{Balance: utils.Hex256(bal), Nonce: nonce, Minter: minter, Burner: burner}, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var acc Account
	if err := a.engine.View(func(c *builtin.Contracts) (err error) {
		if acc.Unit, err = holding(c.Unit, addr); err != nil {
			return err
		}
		if acc.Mine, err = holding(c.Mine.Token, addr); err != nil {
			return err
		}
		if acc.Delegatee, err = c.Mine.Delegates(addr); err != nil {
			return err
		}
		votes, err := c.Mine.GetCurrentVotes(addr)
		if err != nil {
			return err
		}
		acc.Votes = utils.Hex256(votes)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &acc)
}

func (a *Accounts) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := parseAddress(req)
	if err != nil {
		return err
	}
	spender, err := thor.ParseAddress(req.URL.Query().Get("spender"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "spender"))
	}
	var allowance Allowance
	if err := a.engine.View(func(c *builtin.Contracts) error {
		t, err := tokenOf(c, mux.Vars(req)["token"])
		if err != nil {
			return err
		}
		v, err := t.Allowance(owner, spender)
		if err != nil {
			return err
		}
		allowance.Allowance = utils.Hex256(v)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &allowance)
}

func (a *Accounts) handleGetTokens(w http.ResponseWriter, _ *http.Request) error {
	var metas []*TokenMeta
	if err := a.engine.View(func(c *builtin.Contracts) error {
		for _, t := range []*token.Token{c.Unit, c.Mine.Token} {
			supply, err := t.TotalSupply()
			if err != nil {
				return err
			}
			owner, err := t.Owner()
			if err != nil {
				return err
			}
			paused, err := t.Paused()
			if err != nil {
				return err
			}
			meta := &TokenMeta{
				Address:     t.Address(),
				Name:        t.Name(),
				Symbol:      t.Symbol(),
				Decimals:    t.Decimals(),
				TotalSupply: utils.Hex256(supply),
				Owner:       owner,
				Paused:      paused,
			}
			if maxSupply := t.MaxSupply(); maxSupply != nil {
				meta.MaxSupply = utils.Hex256(maxSupply)
			}
			metas = append(metas, meta)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, metas)
}

// call runs fn on behalf of the path account.
func (a *Accounts) call(w http.ResponseWriter, req *http.Request, body any, fn func(caller thor.Address, t *token.Token) error) error {
	if !a.allowCalls {
		return utils.CallsDisabled
	}
	caller, err := parseAddress(req)
	if err != nil {
		return err
	}
	if err := utils.ParseJSON(req.Body, body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := a.engine.Call(caller, func(c *builtin.Contracts) error {
		t, err := tokenOf(c, mux.Vars(req)["token"])
		if err != nil {
			return err
		}
		return fn(caller, t)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Accounts) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	return a.call(w, req, &body, func(caller thor.Address, t *token.Token) error {
		amount, err := utils.Amount(body.Amount, "amount")
		if err != nil {
			return err
		}
		return t.Transfer(caller, body.To, amount)
	})
}

func (a *Accounts) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	return a.call(w, req, &body, func(caller thor.Address, t *token.Token) error {
		amount, err := utils.Amount(body.Amount, "amount")
		if err != nil {
			return err
		}
		return t.Approve(caller, body.Spender, amount)
	})
}

func (a *Accounts) handleBurn(w http.ResponseWriter, req *http.Request) error {
	var body BurnRequest
	return a.call(w, req, &body, func(caller thor.Address, t *token.Token) error {
		amount, err := utils.Amount(body.Amount, "amount")
		if err != nil {
			return err
		}
		return t.Burn(caller, amount)
	})
}

// handlePermit needs no trusted caller, the owner authorizes by signature.
func (a *Accounts) handlePermit(w http.ResponseWriter, req *http.Request) error {
	var body PermitRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	value, err := utils.Amount(body.Value, "value")
	if err != nil {
		return err
	}
	receipt, err := a.engine.Call(body.Spender, func(c *builtin.Contracts) error {
		t, err := tokenOf(c, mux.Vars(req)["token"])
		if err != nil {
			return err
		}
		return t.Permit(body.Owner, body.Spender, value, body.Nonce, body.Deadline, body.Signature)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/tokens").
		Methods(http.MethodGet).
		Name("GET /accounts/tokens").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetTokens))
	sub.Path("/tokens/{token}/permit").
		Methods(http.MethodPost).
		Name("POST /accounts/tokens/{token}/permit").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePermit))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/{token}/allowance").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/{token}/allowance").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAllowance))
	sub.Path("/{address}/{token}/transfer").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/{token}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(a.handleTransfer))
	sub.Path("/{address}/{token}/approve").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/{token}/approve").
		HandlerFunc(utils.WrapHandlerFunc(a.handleApprove))
	sub.Path("/{address}/{token}/burn").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}/{token}/burn").
		HandlerFunc(utils.WrapHandlerFunc(a.handleBurn))
}
