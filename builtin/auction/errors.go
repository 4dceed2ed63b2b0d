// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import "github.com/vechain/mineauction/builtin/reverts"

var (
	ErrInvalidBidAmount           = reverts.NewCode("InvalidBidAmount()", reverts.InvalidArgument)
	ErrInvalidClaimAmount         = reverts.NewCode("InvalidClaimAmount()", reverts.InvalidArgument)
	ErrInsufficientClaimAmount    = reverts.NewCode("InsufficientClaimAmount(uint256,uint256)", reverts.ResourceExhausted)
	ErrAuctionIDInFutureOrCurrent = reverts.NewCode("AuctionIdInFutureOrCurrent(uint64,uint64)", reverts.TemporalMismatch)
	ErrInvalidRewardAmount        = reverts.NewCode("InvalidRewardAmount(uint64,uint64)", reverts.InvalidArgument)
)
