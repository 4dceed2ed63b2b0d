// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/vechain/mineauction/builtin/params"
	"github.com/vechain/mineauction/thor"
)

// ParamsOracle sizes every slot reward from the governance param thor.KeyAuctionReward.
type ParamsOracle struct {
	Params *params.Params
}

func (o *ParamsOracle) RewardAmount(uint64, uint64) (*big.Int, error) {
	return o.Params.Get(thor.KeyAuctionReward)
}
