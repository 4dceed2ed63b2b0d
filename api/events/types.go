// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/thor"
)

// FilteredEvent only comes from one contract
type FilteredEvent struct {
	Address thor.Address    `json:"address"`
	Name    string          `json:"name"`
	Args    json.RawMessage `json:"args"`
	Meta    utils.LogMeta   `json:"meta"`
}

func convertEvent(event *logdb.Event, withIndexes bool) *FilteredEvent {
	return &FilteredEvent{
		Address: event.Address,
		Name:    event.Name,
		Args:    json.RawMessage(event.Data),
		Meta:    utils.NewLogMeta(event.Sequence, event.Time, event.Caller, event.CallNumber, event.Index, withIndexes),
	}
}

type EventCriteria struct {
	Address *thor.Address `json:"address"`
	Name    string        `json:"name"`
	Account *thor.Address `json:"account"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet,omitempty"`
	Range       *utils.Range     `json:"range,omitempty"`
	Options     *utils.Options   `json:"options,omitempty"`
	Order       logdb.Order      `json:"order,omitempty"`
}

func convertEventFilter(filter *EventFilter, limit uint64) (*logdb.EventFilter, bool) {
	opts, withIndexes := utils.ConvertOptions(filter.Options, limit)
	f := &logdb.EventFilter{
		Range:   utils.ConvertRange(filter.Range),
		Options: opts,
		Order:   filter.Order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Name:    c.Name,
			Account: c.Account,
		})
	}
	return f, withIndexes
}
