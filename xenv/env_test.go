// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/mineauction/thor"
)

func TestEnvironmentEvents(t *testing.T) {
	alice := thor.BytesToAddress([]byte("alice"))
	contract := thor.BytesToAddress([]byte("auction"))
	env := New(nil, &BlockContext{Number: 3, Time: 100}, alice)

	assert.Equal(t, alice, env.Caller())
	assert.Equal(t, uint32(3), env.BlockContext().Number)

	env.Log(contract, "AuctionBid", Arg("groupId", uint64(0)))
	inner := env.WithCaller(contract)
	assert.Equal(t, contract, inner.Caller())
	inner.Log(thor.BytesToAddress([]byte("token")), "Transfer")

	events := env.Events()
	if assert.Len(t, events, 2) {
		assert.Equal(t, "AuctionBid", events[0].Name)
		assert.Equal(t, "Transfer", events[1].Name)
	}
	assert.Equal(t, events, inner.Events())
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(1000, 1)
	c.Advance(10)
	assert.Equal(t, uint64(1010), c.Now())
	assert.Equal(t, uint32(2), c.Sequence())

	c.Set(900)
	assert.Equal(t, uint64(1010), c.Now(), "never goes backwards")
	c.Set(2000)
	c.Mine()
	assert.Equal(t, uint64(2000), c.Now())
	assert.Equal(t, uint32(3), c.Sequence())
}

func TestSystemClock(t *testing.T) {
	now := uint64(time.Now().Unix())
	c := &SystemClock{GenesisTime: now - 10*thor.BlockInterval}
	seq := c.Sequence()
	assert.GreaterOrEqual(t, seq, uint32(11))
	assert.LessOrEqual(t, seq, uint32(12))

	future := &SystemClock{GenesisTime: now + 3600}
	assert.Equal(t, uint32(1), future.Sequence())

	shifted := &SystemClock{Offset: time.Hour}
	assert.GreaterOrEqual(t, shifted.Now(), now+3600)
}

func TestFixedOracle(t *testing.T) {
	o := &FixedOracle{Amount: big.NewInt(1000)}
	r, err := o.RewardAmount(0, 1)
	assert.NoError(t, err)
	r.SetInt64(5)
	again, _ := o.RewardAmount(0, 2)
	assert.Equal(t, big.NewInt(1000), again, "returns a copy")
}
