// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/builtin/auction"
	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/builtin/schedule"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/thor"
)

type Auctions struct {
	engine     *engine.Engine
	allowCalls bool
}

func New(e *engine.Engine, allowCalls bool) *Auctions {
	return &Auctions{e, allowCalls}
}

func parseSlot(req *http.Request) (groupID, auctionID uint64, err error) {
	vars := mux.Vars(req)
	if groupID, err = strconv.ParseUint(vars["group"], 10, 64); err != nil {
		return 0, 0, utils.BadRequest(errors.WithMessage(err, "group"))
	}
	if auctionID, err = strconv.ParseUint(vars["auction"], 10, 64); err != nil {
		return 0, 0, utils.BadRequest(errors.WithMessage(err, "auction"))
	}
	return
}

func (a *Auctions) handleGetGroups(w http.ResponseWriter, _ *http.Request) error {
	var groups []*schedule.Group
	if err := a.engine.View(func(c *builtin.Contracts) (err error) {
		groups, err = c.Auction.Schedule().Groups()
		return
	}); err != nil {
		return err
	}
	result := make([]*Group, 0, len(groups))
	for i, g := range groups {
		result = append(result, convertGroup(uint64(i), g))
	}
	return utils.WriteJSON(w, result)
}

func (a *Auctions) handlePostGroup(w http.ResponseWriter, req *http.Request) error {
	if !a.allowCalls {
		return utils.CallsDisabled
	}
	var body GroupRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	g := &schedule.Group{
		StartTime:      body.StartTime,
		BidDuration:    body.BidDuration,
		SettleDuration: body.SettleDuration,
	}

	var id uint64
	receipt, err := a.engine.Call(body.Caller, func(c *builtin.Contracts) (err error) {
		if body.Amend {
			id, err = c.Auction.SetCurrentAuctionGroup(body.Caller, g)
		} else {
			id, err = c.Auction.AddAuctionGroup(body.Caller, g)
		}
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &GroupResult{id, utils.ConvertReceipt(receipt)})
}

func (a *Auctions) handleGetCurrent(w http.ResponseWriter, _ *http.Request) error {
	var info *auction.Info
	if err := a.engine.View(func(c *builtin.Contracts) (err error) {
		info, err = c.Auction.CurrentAuction()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertInfo(info))
}

// handleGetSlot resolves the slot a point in time falls into, defaulting to now.
func (a *Auctions) handleGetSlot(w http.ResponseWriter, req *http.Request) error {
	var (
		at    uint64
		atNow = true
	)
	if s := req.URL.Query().Get("time"); s != "" {
		t, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "time"))
		}
		at, atNow = t, false
	}

	var slot *schedule.Slot
	if err := a.engine.View(func(c *builtin.Contracts) error {
		if atNow {
			at = c.Env.BlockContext().Time
		}
		sched := c.Auction.Schedule()
		groupID, auctionID, err := sched.ResolveSlot(at)
		if err != nil {
			return err
		}
		slot, err = sched.SlotInfo(groupID, auctionID)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSlot(slot))
}

func (a *Auctions) handleGetAuction(w http.ResponseWriter, req *http.Request) error {
	groupID, auctionID, err := parseSlot(req)
	if err != nil {
		return err
	}
	var info *auction.Info
	if err := a.engine.View(func(c *builtin.Contracts) (err error) {
		info, err = c.Auction.GetAuctionInfo(groupID, auctionID)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertInfo(info))
}

func (a *Auctions) handleGetBid(w http.ResponseWriter, req *http.Request) error {
	groupID, auctionID, err := parseSlot(req)
	if err != nil {
		return err
	}
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	var status BidStatus
	if err := a.engine.View(func(c *builtin.Contracts) error {
		bid, err := c.Auction.GetBid(groupID, auctionID, addr)
		if err != nil {
			return err
		}
		claimed, err := c.Auction.GetClaimed(groupID, auctionID, addr)
		if err != nil {
			return err
		}
		status.Bid, status.Claimed = utils.Hex256(bid), utils.Hex256(claimed)

		claimable, err := c.Auction.GetClaimable(groupID, auctionID, addr)
		switch {
		case reverts.Is(err, auction.ErrAuctionIDInFutureOrCurrent):
			// not settled yet
		case err != nil:
			return err
		default:
			status.Claimable = utils.Hex256(claimable)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &status)
}

func (a *Auctions) handleBid(w http.ResponseWriter, req *http.Request) error {
	if !a.allowCalls {
		return utils.CallsDisabled
	}
	groupID, auctionID, err := parseSlot(req)
	if err != nil {
		return err
	}
	var body BidRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	receipt, err := a.engine.Call(body.Bidder, func(c *builtin.Contracts) error {
		return c.Auction.Bid(body.Bidder, groupID, auctionID, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Auctions) handleClaim(w http.ResponseWriter, req *http.Request) error {
	if !a.allowCalls {
		return utils.CallsDisabled
	}
	groupID, auctionID, err := parseSlot(req)
	if err != nil {
		return err
	}
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	to := body.To
	if to.IsZero() {
		to = body.Claimant
	}
	receipt, err := a.engine.Call(body.Claimant, func(c *builtin.Contracts) error {
		return c.Auction.Claim(body.Claimant, groupID, auctionID, amount, to)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (a *Auctions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/groups").
		Methods(http.MethodGet).
		Name("GET /auctions/groups").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetGroups))
	sub.Path("/groups").
		Methods(http.MethodPost).
		Name("POST /auctions/groups").
		HandlerFunc(utils.WrapHandlerFunc(a.handlePostGroup))
	sub.Path("/current").
		Methods(http.MethodGet).
		Name("GET /auctions/current").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetCurrent))
	sub.Path("/slot").
		Methods(http.MethodGet).
		Name("GET /auctions/slot").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetSlot))
	sub.Path("/{group}/{auction}").
		Methods(http.MethodGet).
		Name("GET /auctions/{group}/{auction}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAuction))
	sub.Path("/{group}/{auction}/bids/{address}").
		Methods(http.MethodGet).
		Name("GET /auctions/{group}/{auction}/bids/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBid))
	sub.Path("/{group}/{auction}/bids").
		Methods(http.MethodPost).
		Name("POST /auctions/{group}/{auction}/bids").
		HandlerFunc(utils.WrapHandlerFunc(a.handleBid))
	sub.Path("/{group}/{auction}/claims").
		Methods(http.MethodPost).
		Name("POST /auctions/{group}/{auction}/claims").
		HandlerFunc(utils.WrapHandlerFunc(a.handleClaim))
}
