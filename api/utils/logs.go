// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"fmt"
	"math"

	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/thor"
)

// LogMeta locates a log in the call history.
type LogMeta struct {
	Sequence   uint32       `json:"sequence"`
	Time       uint64       `json:"time"`
	Caller     thor.Address `json:"caller"`
	CallNumber *uint32      `json:"callNumber,omitempty"`
	LogIndex   *uint32      `json:"logIndex,omitempty"`
}

type Options struct {
	Offset         uint64  `json:"offset,omitempty"`
	Limit          *uint64 `json:"limit,omitempty"`
	IncludeIndexes bool    `json:"includeIndexes,omitempty"`
}

func (o *Options) Validate(limit uint64) error {
	if o == nil {
		return nil
	}
	if o.Limit != nil && *o.Limit > limit {
		return fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if o.Offset > math.MaxInt64 {
		return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64)
	}
	return nil
}

// ConvertOptions fills the limit with limit+1 when absent, so an overflowing result can be detected.
func ConvertOptions(o *Options, limit uint64) (*logdb.Options, bool) {
	if o == nil {
		return &logdb.Options{Limit: limit + 1}, false
	}
	opts := &logdb.Options{Offset: o.Offset, Limit: limit + 1}
	if o.Limit != nil {
		opts.Limit = *o.Limit
	}
	return opts, o.IncludeIndexes
}

type RangeType string

const (
	SequenceRangeType RangeType = "sequence"
	TimeRangeType     RangeType = "time"
)

type Range struct {
	Unit RangeType `json:"unit,omitempty"`
	From *uint64   `json:"from,omitempty"`
	To   *uint64   `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != SequenceRangeType && r.Unit != TimeRangeType {
		return fmt.Errorf("range.unit must be either 'sequence' or 'time', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return nil
}

// ConvertRange bounds an open range. Values are kept within int64 for the sqlite driver.
func ConvertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	rng := &logdb.Range{Unit: logdb.Sequence, To: math.MaxInt64}
	if r.Unit == TimeRangeType {
		rng.Unit = logdb.Time
	}
	if r.From != nil {
		rng.From = min(*r.From, math.MaxInt64)
	}
	if r.To != nil {
		rng.To = min(*r.To, math.MaxInt64)
	}
	return rng
}

// NewLogMeta builds the meta of a log, with indexes if asked.
func NewLogMeta(seq uint32, time uint64, caller thor.Address, callNumber, index uint32, withIndexes bool) LogMeta {
	meta := LogMeta{Sequence: seq, Time: time, Caller: caller}
	if withIndexes {
		meta.CallNumber = &callNumber
		meta.LogIndex = &index
	}
	return meta
}
