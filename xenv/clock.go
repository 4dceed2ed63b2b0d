// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"sync"
	"time"

	"github.com/vechain/mineauction/thor"
)

// Clock is the external time and sequence source.
type Clock interface {
	Now() uint64
	Sequence() uint32
}

// SystemClock reads the wall clock, corrected by Offset. The sequence counts
// thor.BlockInterval periods since GenesisTime, starting at 1.
type SystemClock struct {
	GenesisTime uint64
	Offset      time.Duration
}

func (c *SystemClock) Now() uint64 {
	return uint64(time.Now().Add(c.Offset).Unix())
}

func (c *SystemClock) Sequence() uint32 {
	now := c.Now()
	if now < c.GenesisTime {
		return 1
	}
	return uint32((now-c.GenesisTime)/thor.BlockInterval) + 1
}

// ManualClock is driven explicitly, for tests and solo setups.
type ManualClock struct {
	mu  sync.Mutex
	now uint64
	seq uint32
}

func NewManualClock(now uint64, seq uint32) *ManualClock {
	return &ManualClock{now: now, seq: seq}
}

func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Sequence() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Set moves the clock to the given time, it never goes backwards.
func (c *ManualClock) Set(now uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now > c.now {
		c.now = now
	}
}

// Advance moves time forward by d seconds and bumps the sequence by one.
func (c *ManualClock) Advance(d uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	c.seq++
}

// Mine bumps the sequence without moving time.
func (c *ManualClock) Mine() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
}
