// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package votes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/thor"
)

type VotesAPI struct {
	engine     *engine.Engine
	allowCalls bool
	limit      uint64
}

func New(e *engine.Engine, allowCalls bool, checkpointsLimit uint64) *VotesAPI {
	return &VotesAPI{e, allowCalls, checkpointsLimit}
}

func parseAddress(req *http.Request) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func (v *VotesAPI) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	rev, err := utils.ParseRevision(req.URL.Query().Get("revision"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "revision"))
	}

	var result Votes
	if err := v.engine.View(func(c *builtin.Contracts) error {
		if rev.IsBest() {
			votes, err := c.Mine.GetCurrentVotes(addr)
			if err != nil {
				return err
			}
			result = Votes{c.Env.BlockContext().Number, utils.Hex256(votes)}
			return nil
		}
		votes, err := c.Mine.GetPriorVotes(addr, rev.Sequence())
		if err != nil {
			return err
		}
		result = Votes{rev.Sequence(), utils.Hex256(votes)}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (v *VotesAPI) handleGetDelegatee(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var result Delegation
	if err := v.engine.View(func(c *builtin.Contracts) error {
		delegatee, err := c.Mine.Delegates(addr)
		if err != nil {
			return err
		}
		explicit, err := c.Mine.HasDelegated(addr)
		if err != nil {
			return err
		}
		result = Delegation{delegatee, !explicit}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (v *VotesAPI) handleGetDefaultDelegatee(w http.ResponseWriter, _ *http.Request) error {
	var def thor.Address
	if err := v.engine.View(func(c *builtin.Contracts) (err error) {
		def, err = c.Mine.DefaultDelegatee()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Delegation{def, true})
}

func (v *VotesAPI) handleGetCheckpoints(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	offset, err := parseUint(req, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := parseUint(req, "limit", v.limit)
	if err != nil {
		return err
	}
	if limit > v.limit {
		return utils.BadRequest(fmt.Errorf("limit exceeds the maximum allowed value of %d", v.limit))
	}

	checkpoints := make([]*Checkpoint, 0)
	if err := v.engine.View(func(c *builtin.Contracts) error {
		n, err := c.Mine.NumCheckpoints(addr)
		if err != nil {
			return err
		}
		for i := offset; i < n && i-offset < limit; i++ {
			cp, err := c.Mine.Checkpoint(addr, i)
			if err != nil {
				return err
			}
			checkpoints = append(checkpoints, &Checkpoint{cp.FromSequence, utils.Hex256(cp.Votes)})
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, checkpoints)
}

func parseUint(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

func (v *VotesAPI) handleDelegate(w http.ResponseWriter, req *http.Request) error {
	if !v.allowCalls {
		return utils.CallsDisabled
	}
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var body DelegateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt, err := v.engine.Call(addr, func(c *builtin.Contracts) error {
		return c.Mine.Delegate(addr, body.Delegatee)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (v *VotesAPI) handleDelegateBySig(w http.ResponseWriter, req *http.Request) error {
	var body DelegateBySigRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if len(body.Signature) != 65 {
		return utils.BadRequest(fmt.Errorf("signature: want 65 bytes, got %d", len(body.Signature)))
	}
	var signer thor.Address
	receipt, err := v.engine.Call(thor.Address{}, func(c *builtin.Contracts) (err error) {
		signer, err = c.Mine.DelegateBySig(body.Delegatee, body.Nonce, body.Expiry, body.Signature)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &DelegateBySigResult{signer, utils.ConvertReceipt(receipt)})
}

func (v *VotesAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/default-delegatee").
		Methods(http.MethodGet).
		Name("GET /votes/default-delegatee").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetDefaultDelegatee))
	sub.Path("/delegate-by-sig").
		Methods(http.MethodPost).
		Name("POST /votes/delegate-by-sig").
		HandlerFunc(utils.WrapHandlerFunc(v.handleDelegateBySig))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /votes/{address}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVotes))
	sub.Path("/{address}/delegatee").
		Methods(http.MethodGet).
		Name("GET /votes/{address}/delegatee").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetDelegatee))
	sub.Path("/{address}/checkpoints").
		Methods(http.MethodGet).
		Name("GET /votes/{address}/checkpoints").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetCheckpoints))
	sub.Path("/{address}/delegate").
		Methods(http.MethodPost).
		Name("POST /votes/{address}/delegate").
		HandlerFunc(utils.WrapHandlerFunc(v.handleDelegate))
}
