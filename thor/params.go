// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// Constants of the auction node.
const (
	BlockInterval uint64 = 10 // time interval between two consecutive sequence numbers, in seconds.

	TokenDecimals uint8 = 18

	DefaultSettleDuration uint64 = 60 * 60      // 1 hour
	DefaultBidDuration    uint64 = 23 * 60 * 60 // 23 hours
)

// Keys of governance params.
var (
	KeyAuctionReward = BytesToBytes32([]byte("auction-reward"))
)

var (
	// MaxUint256 is the "unlimited" allowance sentinel.
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	// MaxUint96 bounds a single voting checkpoint.
	MaxUint96 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

	// MineMaxSupply is the hard cap of the voting token: 1,022,700,000 * 1e18.
	MineMaxSupply = new(big.Int).Mul(big.NewInt(1_022_700_000), big.NewInt(1e18))

	InitialAuctionReward = new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
)
