// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schedule maps timestamps to auction slots over an amendable list of auction groups.
package schedule

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/builtin/solidity"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

var slotGroups = thor.BytesToBytes32([]byte("auction-groups"))

var (
	ErrNoAuctionGroup           = reverts.NewCode("NoAuctionGroup()", reverts.TemporalMismatch)
	ErrAuctionNotStarted        = reverts.NewCode("AuctionNotStarted(uint64)", reverts.TemporalMismatch)
	ErrInvalidAuctionGroupID    = reverts.NewCode("InvalidAuctionGroupId(uint64)", reverts.InvalidArgument)
	ErrInvalidAuctionID         = reverts.NewCode("InvalidAuctionId(uint64,uint64)", reverts.InvalidArgument)
	ErrAuctionGroupIDInFuture   = reverts.NewCode("AuctionGroupIdInFuture(uint64)", reverts.TemporalMismatch)
	ErrAuctionIDInFuture        = reverts.NewCode("AuctionIdInFuture(uint64,uint64)", reverts.TemporalMismatch)
	ErrNotCurrentAuctionGroupID = reverts.NewCode("NotCurrentAuctionGroupId(uint64,uint64)", reverts.TemporalMismatch)
	ErrNotCurrentAuctionID      = reverts.NewCode("NotCurrentAuctionId(uint64,uint64)", reverts.TemporalMismatch)
	ErrCurrentAuctionDisabled   = reverts.NewCode("CurrentAuctionDisabled(uint64,uint64)", reverts.TemporalMismatch)
	ErrAuctionBiddingInProgress = reverts.NewCode("AuctionBiddingInProgress(uint64)", reverts.TemporalMismatch)
	ErrStartTimeTooEarly        = reverts.NewCode("StartTimeTooEarly(uint64,uint64)", reverts.InvalidArgument)
	ErrStartTimeInPast          = reverts.NewCode("StartTimeInPast(uint64,uint64)", reverts.InvalidArgument)
	ErrInvalidDuration          = reverts.NewCode("InvalidDuration(uint64,uint64)", reverts.InvalidArgument)
)

// Group is one epoch of recurring auctions. Each slot opens with BidDuration of bidding
// followed by SettleDuration of settlement.
type Group struct {
	StartTime      uint64
	SettleDuration uint64
	BidDuration    uint64
}

// Period returns the length of one slot.
func (g *Group) Period() uint64 {
	return g.BidDuration + g.SettleDuration
}

// Phase of a slot relative to a point in time.
type Phase uint8

const (
	Unopened Phase = iota
	Bidding
	Settling
	Claimable
)

func (p Phase) String() string {
	switch p {
	case Unopened:
		return "unopened"
	case Bidding:
		return "bidding"
	case Settling:
		return "settling"
	case Claimable:
		return "claimable"
	}
	return "unknown"
}

// Slot locates one auction in time. EndTime is cut short by the start of the next group.
type Slot struct {
	GroupID    uint64
	AuctionID  uint64
	StartTime  uint64
	BidEndTime uint64 // last second bids are accepted
	EndTime    uint64 // exclusive
}

// Phase returns the phase of the slot at now.
func (s *Slot) Phase(now uint64) Phase {
	switch {
	case now < s.StartTime:
		return Unopened
	case now >= s.EndTime:
		return Claimable
	case now <= s.BidEndTime:
		return Bidding
	default:
		return Settling
	}
}

// Schedule binder of the auction groups, kept in the storage of the auction contract.
type Schedule struct {
	addr   thor.Address
	env    *xenv.Environment
	groups *solidity.Array[*Group]
}

func New(addr thor.Address, env *xenv.Environment) *Schedule {
	sctx := solidity.NewContext(addr, env.State())
	return &Schedule{
		addr:   addr,
		env:    env,
		groups: solidity.NewArray[*Group](sctx, slotGroups),
	}
}

// Count returns the number of groups.
func (s *Schedule) Count() (uint64, error) {
	n, err := s.groups.Len()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get group count")
	}
	return n, nil
}

// Group returns the group of id.
func (s *Schedule) Group(id uint64) (*Group, error) {
	n, err := s.Count()
	if err != nil {
		return nil, err
	}
	if id >= n {
		return nil, ErrInvalidAuctionGroupID.New(id)
	}
	g, err := s.groups.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get group")
	}
	return g, nil
}

// Groups returns all groups in id order.
func (s *Schedule) Groups() ([]*Group, error) {
	n, err := s.Count()
	if err != nil {
		return nil, err
	}
	groups := make([]*Group, 0, n)
	for i := range n {
		g, err := s.groups.Get(i)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get group")
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func validate(now uint64, g *Group) error {
	if g.BidDuration == 0 {
		return ErrInvalidDuration.New(g.SettleDuration, g.BidDuration)
	}
	// the whole first slot must be addressable
	if g.Period() < g.BidDuration || g.StartTime > math.MaxUint64-g.Period() {
		return ErrInvalidDuration.New(g.SettleDuration, g.BidDuration)
	}
	if g.StartTime < now {
		return ErrStartTimeInPast.New(g.StartTime, now)
	}
	return nil
}

func checkAfter(prev, g *Group) error {
	if earliest := prev.StartTime + prev.BidDuration; g.StartTime < earliest {
		return ErrStartTimeTooEarly.New(g.StartTime, earliest)
	}
	return nil
}

// AddGroup appends a group and returns its id. The group may not start before the
// bidding window of the previous one has ended.
func (s *Schedule) AddGroup(now uint64, g *Group) (uint64, error) {
	if err := validate(now, g); err != nil {
		return 0, err
	}
	n, err := s.Count()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		prev, err := s.groups.Get(n - 1)
		if err != nil {
			return 0, errors.Wrap(err, "failed to get group")
		}
		if err := checkAfter(prev, g); err != nil {
			return 0, err
		}
	}
	id, err := s.groups.Push(g)
	if err != nil {
		return 0, errors.Wrap(err, "failed to add group")
	}
	s.emit(id, g)
	return id, nil
}

// SetCurrentGroup amends the latest group, as long as it has not started.
func (s *Schedule) SetCurrentGroup(now uint64, g *Group) (uint64, error) {
	n, err := s.Count()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNoAuctionGroup.New()
	}
	id := n - 1
	current, err := s.groups.Get(id)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get group")
	}
	if now >= current.StartTime {
		return 0, ErrAuctionBiddingInProgress.New(id)
	}
	if err := validate(now, g); err != nil {
		return 0, err
	}
	if id > 0 {
		prev, err := s.groups.Get(id - 1)
		if err != nil {
			return 0, errors.Wrap(err, "failed to get group")
		}
		if err := checkAfter(prev, g); err != nil {
			return 0, err
		}
	}
	if err := s.groups.Set(id, g); err != nil {
		return 0, errors.Wrap(err, "failed to set group")
	}
	s.emit(id, g)
	return id, nil
}

func (s *Schedule) emit(id uint64, g *Group) {
	s.env.Log(s.addr, "AuctionGroupSet",
		xenv.Arg("groupId", id),
		xenv.Arg("startTime", g.StartTime),
		xenv.Arg("settleDuration", g.SettleDuration),
		xenv.Arg("bidDuration", g.BidDuration))
}

// CurrentGroupID returns the latest group started at t.
func (s *Schedule) CurrentGroupID(t uint64) (uint64, error) {
	n, err := s.Count()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNoAuctionGroup.New()
	}
	for id := n; id > 0; id-- {
		g, err := s.groups.Get(id - 1)
		if err != nil {
			return 0, errors.Wrap(err, "failed to get group")
		}
		if t >= g.StartTime {
			return id - 1, nil
		}
	}
	return 0, ErrAuctionNotStarted.New(t)
}

// ResolveSlot returns the slot t falls into.
func (s *Schedule) ResolveSlot(t uint64) (groupID, auctionID uint64, err error) {
	if groupID, err = s.CurrentGroupID(t); err != nil {
		return 0, 0, err
	}
	g, err := s.groups.Get(groupID)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to get group")
	}
	return groupID, (t - g.StartTime) / g.Period(), nil
}

// SlotInfo returns the time bounds of a slot. The slot must exist, though it may lie in the future.
func (s *Schedule) SlotInfo(groupID, auctionID uint64) (*Slot, error) {
	g, err := s.Group(groupID)
	if err != nil {
		return nil, err
	}
	period := g.Period()
	if auctionID >= (math.MaxUint64-g.StartTime)/period {
		return nil, ErrInvalidAuctionID.New(groupID, auctionID)
	}
	slot := &Slot{
		GroupID:   groupID,
		AuctionID: auctionID,
		StartTime: g.StartTime + auctionID*period,
	}
	slot.EndTime = slot.StartTime + period
	slot.BidEndTime = slot.StartTime + g.BidDuration

	n, err := s.Count()
	if err != nil {
		return nil, err
	}
	if groupID+1 < n {
		next, err := s.groups.Get(groupID + 1)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get group")
		}
		if slot.StartTime >= next.StartTime {
			return nil, ErrInvalidAuctionID.New(groupID, auctionID)
		}
		slot.EndTime = min(slot.EndTime, next.StartTime)
		slot.BidEndTime = min(slot.BidEndTime, slot.EndTime-1)
	}
	return slot, nil
}

// Started returns the slot if it has opened by now, sharing the error taxonomy of views and claims.
func (s *Schedule) Started(now, groupID, auctionID uint64) (*Slot, error) {
	g, err := s.Group(groupID)
	if err != nil {
		return nil, err
	}
	if g.StartTime > now {
		return nil, ErrAuctionGroupIDInFuture.New(groupID)
	}
	slot, err := s.SlotInfo(groupID, auctionID)
	if err != nil {
		return nil, err
	}
	if slot.StartTime > now {
		return nil, ErrAuctionIDInFuture.New(groupID, auctionID)
	}
	return slot, nil
}

// CheckBiddable requires the slot to be the one resolved at now and in its bidding phase.
func (s *Schedule) CheckBiddable(now, groupID, auctionID uint64) (*Slot, error) {
	curGroup, curAuction, err := s.ResolveSlot(now)
	if err != nil {
		return nil, err
	}
	if groupID != curGroup {
		return nil, ErrNotCurrentAuctionGroupID.New(groupID, curGroup)
	}
	if auctionID != curAuction {
		return nil, ErrNotCurrentAuctionID.New(auctionID, curAuction)
	}
	slot, err := s.SlotInfo(groupID, auctionID)
	if err != nil {
		return nil, err
	}
	if slot.Phase(now) != Bidding {
		return nil, ErrCurrentAuctionDisabled.New(groupID, auctionID)
	}
	return slot, nil
}
