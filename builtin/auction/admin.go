// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin/schedule"
	"github.com/vechain/mineauction/builtin/token"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

func (a *Auction) Owner() (thor.Address, error) {
	owner, err := a.owner.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get owner")
	}
	return owner, nil
}

func (a *Auction) onlyOwner(caller thor.Address) error {
	owner, err := a.Owner()
	if err != nil {
		return err
	}
	if owner.IsZero() || caller != owner {
		return token.ErrUnauthorizedOwner.New(caller)
	}
	return nil
}

// SetOwner transfers the ownership of the auction.
func (a *Auction) SetOwner(caller, newOwner thor.Address) error {
	if err := a.onlyOwner(caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return token.ErrInvalidOwner.New(newOwner)
	}
	if newOwner == caller {
		return token.ErrOwnerSameValue.New()
	}
	a.owner.Set(newOwner)
	a.env.Log(a.addr, "OwnerSet", xenv.Arg("old", caller), xenv.Arg("new", newOwner))
	return nil
}

// AddAuctionGroup appends a group to the schedule.
func (a *Auction) AddAuctionGroup(caller thor.Address, g *schedule.Group) (uint64, error) {
	if err := a.onlyOwner(caller); err != nil {
		return 0, err
	}
	id, err := a.schedule.AddGroup(a.now(), g)
	if err != nil {
		return 0, err
	}
	logger.Info("auction group added", "id", id, "start", g.StartTime, "settle", g.SettleDuration, "bid", g.BidDuration)
	return id, nil
}

// SetCurrentAuctionGroup amends the latest group before it starts.
func (a *Auction) SetCurrentAuctionGroup(caller thor.Address, g *schedule.Group) (uint64, error) {
	if err := a.onlyOwner(caller); err != nil {
		return 0, err
	}
	id, err := a.schedule.SetCurrentGroup(a.now(), g)
	if err != nil {
		return 0, err
	}
	logger.Info("auction group amended", "id", id, "start", g.StartTime, "settle", g.SettleDuration, "bid", g.BidDuration)
	return id, nil
}

// Genesis sets the owner and the initial groups.
func Genesis(a *Auction, owner thor.Address, groups []*schedule.Group) error {
	if owner.IsZero() {
		return errors.New("auction genesis: owner required")
	}
	a.owner.Set(owner)
	for i, g := range groups {
		if _, err := a.schedule.AddGroup(a.now(), g); err != nil {
			return errors.Wrapf(err, "auction genesis: group %d", i)
		}
	}
	return nil
}
