// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/mineauction/thor"
)

// TokenMeta describes a token.
type TokenMeta struct {
	Address     thor.Address          `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
	MaxSupply   *math.HexOrDecimal256 `json:"maxSupply,omitempty"`
	Owner       thor.Address          `json:"owner"`
	Paused      bool                  `json:"paused"`
}

// Holding is the position of an account in one token.
type Holding struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
	Nonce   uint64                `json:"nonce"`
	Minter  bool                  `json:"minter"`
	Burner  bool                  `json:"burner"`
}

// Account aggregates the holdings of an account.
type Account struct {
	Unit      *Holding              `json:"unit"`
	Mine      *Holding              `json:"mine"`
	Delegatee thor.Address          `json:"delegatee"`
	Votes     *math.HexOrDecimal256 `json:"votes"`
}

type Allowance struct {
	Allowance *math.HexOrDecimal256 `json:"allowance"`
}

type TransferRequest struct {
	To     thor.Address          `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ApproveRequest struct {
	Spender thor.Address          `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type BurnRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type PermitRequest struct {
	Owner     thor.Address          `json:"owner"`
	Spender   thor.Address          `json:"spender"`
	Value     *math.HexOrDecimal256 `json:"value"`
	Nonce     uint64                `json:"nonce"`
	Deadline  uint64                `json:"deadline"`
	Signature hexutil.Bytes         `json:"signature"`
}
