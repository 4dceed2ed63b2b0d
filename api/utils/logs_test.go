// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/thor"
)

func ptr[T any](v T) *T { return &v }

func TestOptionsValidate(t *testing.T) {
	var nilOpts *Options
	assert.NoError(t, nilOpts.Validate(10))
	assert.NoError(t, (&Options{Limit: ptr(uint64(10))}).Validate(10))
	assert.Error(t, (&Options{Limit: ptr(uint64(11))}).Validate(10))
	assert.Error(t, (&Options{Offset: math.MaxInt64 + 1}).Validate(10))
}

func TestConvertOptions(t *testing.T) {
	opts, withIndexes := ConvertOptions(nil, 100)
	assert.Equal(t, &logdb.Options{Limit: 101}, opts)
	assert.False(t, withIndexes)

	opts, withIndexes = ConvertOptions(&Options{Offset: 5, Limit: ptr(uint64(7)), IncludeIndexes: true}, 100)
	assert.Equal(t, &logdb.Options{Offset: 5, Limit: 7}, opts)
	assert.True(t, withIndexes)
}

func TestRange(t *testing.T) {
	var nilRange *Range
	assert.NoError(t, nilRange.Validate())
	assert.Nil(t, ConvertRange(nil))

	assert.Error(t, (&Range{Unit: "block"}).Validate())
	assert.Error(t, (&Range{From: ptr(uint64(2)), To: ptr(uint64(1))}).Validate())

	r := ConvertRange(&Range{Unit: TimeRangeType, From: ptr(uint64(10))})
	assert.Equal(t, &logdb.Range{Unit: logdb.Time, From: 10, To: math.MaxInt64}, r)

	r = ConvertRange(&Range{To: ptr(uint64(math.MaxUint64))})
	assert.Equal(t, &logdb.Range{Unit: logdb.Sequence, To: math.MaxInt64}, r)
}

func TestNewLogMeta(t *testing.T) {
	meta := NewLogMeta(3, 100, thor.Address{1}, 7, 2, false)
	assert.Nil(t, meta.CallNumber)
	assert.Nil(t, meta.LogIndex)

	meta = NewLogMeta(3, 100, thor.Address{1}, 7, 2, true)
	assert.Equal(t, uint32(7), *meta.CallNumber)
	assert.Equal(t, uint32(2), *meta.LogIndex)
}
