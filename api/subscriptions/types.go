// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"
	"slices"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

type EventMessage struct {
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Args    []xenv.EventArg `json:"args"`
	Meta    utils.LogMeta   `json:"meta"`
}

type TransferMessage struct {
	Token     thor.Address          `json:"token"`
	Sender    thor.Address          `json:"sender"`
	Recipient thor.Address          `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Meta      utils.LogMeta         `json:"meta"`
}

func logMeta(r *engine.Receipt, index int) utils.LogMeta {
	logIndex := uint32(index)
	return utils.LogMeta{Sequence: r.Sequence, Time: r.Time, Caller: r.Caller, LogIndex: &logIndex}
}

func convertEvent(r *engine.Receipt, index int) *EventMessage {
	ev := r.Events[index]
	return &EventMessage{
		Address: ev.Address,
		Name:    ev.Name,
		Args:    ev.Args,
		Meta:    logMeta(r, index),
	}
}

func convertTransfer(r *engine.Receipt, index int, tr *logdb.Transfer) *TransferMessage {
	return &TransferMessage{
		Token:     tr.Token,
		Sender:    tr.Sender,
		Recipient: tr.Recipient,
		Amount:    utils.Hex256(tr.Amount),
		Meta:      logMeta(r, index),
	}
}

type EventFilter struct {
	Address *thor.Address
	Name    string
	Account *thor.Address
}

func (f *EventFilter) match(ev *xenv.Event) bool {
	if f.Address != nil && *f.Address != ev.Address {
		return false
	}
	if f.Name != "" && f.Name != ev.Name {
		return false
	}
	if f.Account != nil && !slices.Contains(logdb.Parties(ev), *f.Account) {
		return false
	}
	return true
}

type TransferFilter struct {
	Token     *thor.Address
	Sender    *thor.Address
	Recipient *thor.Address
}

func (f *TransferFilter) match(tr *logdb.Transfer) bool {
	if f.Token != nil && *f.Token != tr.Token {
		return false
	}
	if f.Sender != nil && *f.Sender != tr.Sender {
		return false
	}
	if f.Recipient != nil && *f.Recipient != tr.Recipient {
		return false
	}
	return true
}

func parseAddressQuery(q url.Values, key string) (*thor.Address, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &addr, nil
}

func parseEventFilter(q url.Values) (*EventFilter, error) {
	address, err := parseAddressQuery(q, "address")
	if err != nil {
		return nil, err
	}
	account, err := parseAddressQuery(q, "account")
	if err != nil {
		return nil, err
	}
	return &EventFilter{Address: address, Name: q.Get("name"), Account: account}, nil
}

func parseTransferFilter(q url.Values) (*TransferFilter, error) {
	token, err := parseAddressQuery(q, "token")
	if err != nil {
		return nil, err
	}
	sender, err := parseAddressQuery(q, "sender")
	if err != nil {
		return nil, err
	}
	recipient, err := parseAddressQuery(q, "recipient")
	if err != nil {
		return nil, err
	}
	return &TransferFilter{Token: token, Sender: sender, Recipient: recipient}, nil
}
