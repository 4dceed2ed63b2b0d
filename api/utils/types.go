// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

// Event is an emitted contract event.
type Event struct {
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Args    []xenv.EventArg `json:"args"`
}

// Receipt is the outcome of a committed call.
type Receipt struct {
	Sequence uint32       `json:"sequence"`
	Time     uint64       `json:"time"`
	Caller   thor.Address `json:"caller"`
	Events   []*Event     `json:"events"`
}

func ConvertReceipt(r *engine.Receipt) *Receipt {
	events := make([]*Event, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, &Event{Address: ev.Address, Name: ev.Name, Args: ev.Args})
	}
	return &Receipt{
		Sequence: r.Sequence,
		Time:     r.Time,
		Caller:   r.Caller,
		Events:   events,
	}
}

// Amount returns a non-nil big integer of a decoded request field.
func Amount(v *math.HexOrDecimal256, field string) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.New(field + ": required"))
	}
	return (*big.Int)(v), nil
}

// Hex256 converts a big integer for responses.
func Hex256(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

// CallsDisabled is returned by endpoints that act on behalf of a caller while unsafe calls are off.
var CallsDisabled = Forbidden(errors.New("calls on behalf of an account are disabled"))
