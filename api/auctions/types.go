// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/builtin/auction"
	"github.com/vechain/mineauction/builtin/schedule"
	"github.com/vechain/mineauction/thor"
)

type Group struct {
	ID             uint64 `json:"id"`
	StartTime      uint64 `json:"startTime"`
	BidDuration    uint64 `json:"bidDuration"`
	SettleDuration uint64 `json:"settleDuration"`
}

type Slot struct {
	GroupID    uint64 `json:"groupId"`
	AuctionID  uint64 `json:"auctionId"`
	StartTime  uint64 `json:"startTime"`
	BidEndTime uint64 `json:"bidEndTime"`
	EndTime    uint64 `json:"endTime"`
}

type Auction struct {
	Slot
	Phase          string                `json:"phase"`
	TotalBidAmount *math.HexOrDecimal256 `json:"totalBidAmount"`
	RewardAmount   *math.HexOrDecimal256 `json:"rewardAmount"`
}

type BidStatus struct {
	Bid       *math.HexOrDecimal256 `json:"bid"`
	Claimed   *math.HexOrDecimal256 `json:"claimed"`
	Claimable *math.HexOrDecimal256 `json:"claimable"`
}

// GroupRequest appends a group, or amends the latest one when Amend is set.
type GroupRequest struct {
	Caller         thor.Address `json:"caller"`
	StartTime      uint64       `json:"startTime"`
	BidDuration    uint64       `json:"bidDuration"`
	SettleDuration uint64       `json:"settleDuration"`
	Amend          bool         `json:"amend"`
}

type GroupResult struct {
	ID      uint64         `json:"id"`
	Receipt *utils.Receipt `json:"receipt"`
}

type BidRequest struct {
	Bidder thor.Address          `json:"bidder"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ClaimRequest struct {
	Claimant thor.Address          `json:"claimant"`
	To       thor.Address          `json:"to"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
}

func convertGroup(id uint64, g *schedule.Group) *Group {
	return &Group{
		ID:             id,
		StartTime:      g.StartTime,
		BidDuration:    g.BidDuration,
		SettleDuration: g.SettleDuration,
	}
}

func convertSlot(s *schedule.Slot) Slot {
	return Slot{
		GroupID:    s.GroupID,
		AuctionID:  s.AuctionID,
		StartTime:  s.StartTime,
		BidEndTime: s.BidEndTime,
		EndTime:    s.EndTime,
	}
}

func convertInfo(info *auction.Info) *Auction {
	return &Auction{
		Slot:           convertSlot(info.Slot),
		Phase:          info.Phase.String(),
		TotalBidAmount: utils.Hex256(info.Totals.TotalBidAmount),
		RewardAmount:   utils.Hex256(info.Totals.RewardAmount),
	}
}
