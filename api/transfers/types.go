// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/thor"
)

type FilteredTransfer struct {
	Token     thor.Address          `json:"token"`
	Sender    thor.Address          `json:"sender"`
	Recipient thor.Address          `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Meta      utils.LogMeta         `json:"meta"`
}

func convertTransfer(transfer *logdb.Transfer, withIndexes bool) *FilteredTransfer {
	return &FilteredTransfer{
		Token:     transfer.Token,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    utils.Hex256(transfer.Amount),
		Meta:      utils.NewLogMeta(transfer.Sequence, transfer.Time, transfer.Caller, transfer.CallNumber, transfer.Index, withIndexes),
	}
}

type TransferCriteria struct {
	Token     *thor.Address `json:"token"`
	Sender    *thor.Address `json:"sender"`
	Recipient *thor.Address `json:"recipient"`
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria `json:"criteriaSet,omitempty"`
	Range       *utils.Range        `json:"range,omitempty"`
	Options     *utils.Options      `json:"options,omitempty"`
	Order       logdb.Order         `json:"order,omitempty"`
}
