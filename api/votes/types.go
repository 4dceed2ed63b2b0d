// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package votes

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/thor"
)

type Votes struct {
	Sequence uint32                `json:"sequence"`
	Votes    *math.HexOrDecimal256 `json:"votes"`
}

type Delegation struct {
	Delegatee thor.Address `json:"delegatee"`
	Default   bool         `json:"default"`
}

type Checkpoint struct {
	FromSequence uint32                `json:"fromSequence"`
	Votes        *math.HexOrDecimal256 `json:"votes"`
}

type DelegateRequest struct {
	Delegatee thor.Address `json:"delegatee"`
}

type DelegateBySigRequest struct {
	Delegatee thor.Address  `json:"delegatee"`
	Nonce     uint64        `json:"nonce"`
	Expiry    uint64        `json:"expiry"`
	Signature hexutil.Bytes `json:"signature"`
}

type DelegateBySigResult struct {
	Signer  thor.Address   `json:"signer"`
	Receipt *utils.Receipt `json:"receipt"`
}
