// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auction settles recurring auctions: bids of one token buy a pro rata share of a
// reward minted in another.
package auction

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/builtin/schedule"
	"github.com/vechain/mineauction/builtin/solidity"
	"github.com/vechain/mineauction/builtin/token"
	"github.com/vechain/mineauction/log"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

var logger = log.WithContext("pkg", "auction")

var (
	slotOwner    = thor.BytesToBytes32([]byte("owner"))
	slotAuctions = thor.BytesToBytes32([]byte("auctions"))
	slotBids     = thor.BytesToBytes32([]byte("bids"))
	slotClaimed  = thor.BytesToBytes32([]byte("claimed"))
)

// BidToken is the token bids are paid in.
type BidToken interface {
	TransferFrom(spender, from, to thor.Address, amount *big.Int) error
}

// RewardToken is the token rewards are minted in.
type RewardToken interface {
	Mint(caller, to thor.Address, amount *big.Int) error
}

type (
	slotKey = solidity.PairKey[solidity.Uint64Key, solidity.Uint64Key]
	bidKey  = solidity.PairKey[slotKey, thor.Address]
)

func keyOf(groupID, auctionID uint64) slotKey {
	return slotKey{First: solidity.Uint64Key(groupID), Second: solidity.Uint64Key(auctionID)}
}

// Totals is the aggregate of one slot. RewardAmount is fixed at the first bid.
type Totals struct {
	TotalBidAmount *big.Int
	RewardAmount   *big.Int
}

// Info describes a slot at a point in time.
type Info struct {
	Slot   *schedule.Slot
	Phase  schedule.Phase
	Totals *Totals
}

// Auction binder of the auction contract.
type Auction struct {
	addr     thor.Address
	env      *xenv.Environment
	schedule *schedule.Schedule
	owner    *solidity.Address
	auctions *solidity.Mapping[slotKey, *Totals]
	bids     *solidity.Mapping[bidKey, *big.Int]
	claimed  *solidity.Mapping[bidKey, *big.Int]

	bidToken    BidToken
	rewardToken RewardToken
	oracle      xenv.PriceOracle
}

// New binds the auction contract at addr.
func New(addr thor.Address, env *xenv.Environment, bidToken BidToken, rewardToken RewardToken, oracle xenv.PriceOracle) *Auction {
	sctx := solidity.NewContext(addr, env.State())
	return &Auction{
		addr:        addr,
		env:         env,
		schedule:    schedule.New(addr, env),
		owner:       solidity.NewAddress(sctx, slotOwner),
		auctions:    solidity.NewMapping[slotKey, *Totals](sctx, slotAuctions),
		bids:        solidity.NewMapping[bidKey, *big.Int](sctx, slotBids),
		claimed:     solidity.NewMapping[bidKey, *big.Int](sctx, slotClaimed),
		bidToken:    bidToken,
		rewardToken: rewardToken,
		oracle:      oracle,
	}
}

func (a *Auction) Address() thor.Address        { return a.addr }
func (a *Auction) Schedule() *schedule.Schedule { return a.schedule }

func (a *Auction) now() uint64 {
	return a.env.BlockContext().Time
}

func (a *Auction) totals(groupID, auctionID uint64) (*Totals, error) {
	t, err := a.auctions.Get(keyOf(groupID, auctionID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auction")
	}
	if t == nil {
		return &Totals{TotalBidAmount: new(big.Int), RewardAmount: new(big.Int)}, nil
	}
	return t, nil
}

func (a *Auction) amountOf(m *solidity.Mapping[bidKey, *big.Int], groupID, auctionID uint64, account thor.Address) (*big.Int, error) {
	v, err := m.Get(bidKey{First: keyOf(groupID, auctionID), Second: account})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get amount")
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

// Bid places amount on the current slot. The reward of the slot is fixed by its first bid.
func (a *Auction) Bid(bidder thor.Address, groupID, auctionID uint64, amount *big.Int) error {
	if _, err := a.schedule.CheckBiddable(a.now(), groupID, auctionID); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidBidAmount.New()
	}

	totals, err := a.totals(groupID, auctionID)
	if err != nil {
		return err
	}
	if totals.TotalBidAmount.Sign() == 0 {
		reward, err := a.oracle.RewardAmount(groupID, auctionID)
		if err != nil {
			return errors.Wrap(err, "failed to get reward amount")
		}
		if reward == nil || reward.Sign() < 0 {
			return ErrInvalidRewardAmount.New(groupID, auctionID)
		}
		totals.RewardAmount = reward
		a.env.Log(a.addr, "AuctionStarted",
			xenv.Arg("groupId", groupID),
			xenv.Arg("auctionId", auctionID),
			xenv.Arg("rewardAmount", new(big.Int).Set(reward)))
		metricOpened().Add(1)
	}

	key := bidKey{First: keyOf(groupID, auctionID), Second: bidder}
	placed, err := a.amountOf(a.bids, groupID, auctionID, bidder)
	if err != nil {
		return err
	}
	totals.TotalBidAmount.Add(totals.TotalBidAmount, amount)
	if err := a.auctions.Set(keyOf(groupID, auctionID), totals); err != nil {
		return errors.Wrap(err, "failed to set auction")
	}
	if err := a.bids.Set(key, placed.Add(placed, amount)); err != nil {
		return errors.Wrap(err, "failed to set bid")
	}
	a.env.Log(a.addr, "AuctionBid",
		xenv.Arg("groupId", groupID),
		xenv.Arg("auctionId", auctionID),
		xenv.Arg("bidder", bidder),
		xenv.Arg("amount", new(big.Int).Set(amount)))

	if err := a.bidToken.TransferFrom(a.addr, bidder, a.addr, amount); err != nil {
		return err
	}

	metricBids().AddWithLabel(1, map[string]string{"group": strconv.FormatUint(groupID, 10)})
	logger.Debug("bid", "group", groupID, "auction", auctionID, "bidder", bidder, "amount", amount, "total", totals.TotalBidAmount)
	return nil
}

// claimable returns the unclaimed share of account, bids * reward / total - claimed.
func (a *Auction) claimable(groupID, auctionID uint64, account thor.Address) (*big.Int, *big.Int, error) {
	totals, err := a.totals(groupID, auctionID)
	if err != nil {
		return nil, nil, err
	}
	placed, err := a.amountOf(a.bids, groupID, auctionID, account)
	if err != nil {
		return nil, nil, err
	}
	claimed, err := a.amountOf(a.claimed, groupID, auctionID, account)
	if err != nil {
		return nil, nil, err
	}
	if totals.TotalBidAmount.Sign() == 0 {
		return new(big.Int), claimed, nil
	}
	share := new(big.Int).Mul(placed, totals.RewardAmount)
	share.Quo(share, totals.TotalBidAmount)
	share.Sub(share, claimed)
	if share.Sign() < 0 {
		share.SetInt64(0)
	}
	return share, claimed, nil
}

// settled requires the slot to exist and to have fully elapsed.
func (a *Auction) settled(groupID, auctionID uint64) (*schedule.Slot, error) {
	now := a.now()
	slot, err := a.schedule.Started(now, groupID, auctionID)
	if err != nil {
		if reverts.Is(err, schedule.ErrAuctionIDInFuture) {
			return nil, ErrAuctionIDInFutureOrCurrent.New(groupID, auctionID)
		}
		return nil, err
	}
	if now < slot.EndTime {
		return nil, ErrAuctionIDInFutureOrCurrent.New(groupID, auctionID)
	}
	return slot, nil
}

// Claim mints amount of the caller's reward share to to. Partial claims add up to the share.
func (a *Auction) Claim(caller thor.Address, groupID, auctionID uint64, amount *big.Int, to thor.Address) error {
	if _, err := a.settled(groupID, auctionID); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidClaimAmount.New()
	}
	if to.IsZero() {
		return token.ErrInvalidReceiver.New(to)
	}
	share, claimed, err := a.claimable(groupID, auctionID, caller)
	if err != nil {
		return err
	}
	if amount.Cmp(share) > 0 {
		return ErrInsufficientClaimAmount.New(share, new(big.Int).Set(amount))
	}

	if err := a.claimed.Set(bidKey{First: keyOf(groupID, auctionID), Second: caller}, claimed.Add(claimed, amount)); err != nil {
		return errors.Wrap(err, "failed to set claimed")
	}
	a.env.Log(a.addr, "AuctionClaimed",
		xenv.Arg("groupId", groupID),
		xenv.Arg("auctionId", auctionID),
		xenv.Arg("claimant", caller),
		xenv.Arg("to", to),
		xenv.Arg("amount", new(big.Int).Set(amount)))

	if err := a.rewardToken.Mint(a.addr, to, amount); err != nil {
		return err
	}
	metricClaims().AddWithLabel(1, map[string]string{"group": strconv.FormatUint(groupID, 10)})
	logger.Debug("claim", "group", groupID, "auction", auctionID, "claimant", caller, "to", to, "amount", amount)
	return nil
}

// GetAuction returns the totals of a started slot.
func (a *Auction) GetAuction(groupID, auctionID uint64) (*Totals, error) {
	if _, err := a.schedule.Started(a.now(), groupID, auctionID); err != nil {
		return nil, err
	}
	return a.totals(groupID, auctionID)
}

// GetAuctionInfo returns the bounds, phase and totals of a started slot.
func (a *Auction) GetAuctionInfo(groupID, auctionID uint64) (*Info, error) {
	now := a.now()
	slot, err := a.schedule.Started(now, groupID, auctionID)
	if err != nil {
		return nil, err
	}
	totals, err := a.totals(groupID, auctionID)
	if err != nil {
		return nil, err
	}
	return &Info{Slot: slot, Phase: slot.Phase(now), Totals: totals}, nil
}

// GetBid returns the amount account placed on a started slot.
func (a *Auction) GetBid(groupID, auctionID uint64, account thor.Address) (*big.Int, error) {
	if _, err := a.schedule.Started(a.now(), groupID, auctionID); err != nil {
		return nil, err
	}
	return a.amountOf(a.bids, groupID, auctionID, account)
}

// GetClaimed returns the amount account claimed from a started slot.
func (a *Auction) GetClaimed(groupID, auctionID uint64, account thor.Address) (*big.Int, error) {
	if _, err := a.schedule.Started(a.now(), groupID, auctionID); err != nil {
		return nil, err
	}
	return a.amountOf(a.claimed, groupID, auctionID, account)
}

// GetClaimable returns what account may still claim from a settled slot.
func (a *Auction) GetClaimable(groupID, auctionID uint64, account thor.Address) (*big.Int, error) {
	if _, err := a.settled(groupID, auctionID); err != nil {
		return nil, err
	}
	share, _, err := a.claimable(groupID, auctionID, account)
	return share, err
}

// CurrentAuction returns the slot open at the current time.
func (a *Auction) CurrentAuction() (*Info, error) {
	groupID, auctionID, err := a.schedule.ResolveSlot(a.now())
	if err != nil {
		return nil, err
	}
	return a.GetAuctionInfo(groupID, auctionID)
}
