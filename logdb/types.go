// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/vechain/mineauction/thor"
)

// Event represents a contract event stored in db.
type Event struct {
	CallNumber uint32
	Index      uint32
	Sequence   uint32
	Time       uint64
	Caller     thor.Address
	Address    thor.Address // always a contract address
	Name       string
	Data       []byte // JSON encoded ordered arguments
}

// Transfer represents a token Transfer event stored in db.
type Transfer struct {
	CallNumber uint32
	Index      uint32
	Sequence   uint32
	Time       uint64
	Caller     thor.Address
	Token      thor.Address
	Sender     thor.Address
	Recipient  thor.Address
	Amount     *big.Int
}

type RangeType string

const (
	Sequence RangeType = "sequence"
	Time     RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *thor.Address // always a contract address
	Name    string
	Account *thor.Address // matches any of the first three address arguments
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	Token     *thor.Address
	Sender    *thor.Address
	Recipient *thor.Address
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
