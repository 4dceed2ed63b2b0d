// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/vechain/mineauction/thor"
)

// PriceOracle sizes the reward of a slot. It is queried once, at the first bid of the slot.
type PriceOracle interface {
	RewardAmount(groupID, auctionID uint64) (*big.Int, error)
}

// SignatureVerifier recovers the signer of a signing hash.
type SignatureVerifier interface {
	RecoverSigner(hash thor.Bytes32, sig []byte) (thor.Address, error)
}

// FixedOracle returns the same reward for every slot.
type FixedOracle struct {
	Amount *big.Int
}

func (o *FixedOracle) RewardAmount(uint64, uint64) (*big.Int, error) {
	return new(big.Int).Set(o.Amount), nil
}
