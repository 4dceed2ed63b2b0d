// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/log"
)

var logger = log.WithContext("pkg", "health")

type ReceiptIngestion struct {
	Sequence  uint32     `json:"sequence"`
	Time      uint64     `json:"time"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy      bool              `json:"healthy"`
	LastReceipt  *ReceiptIngestion `json:"lastReceipt"`
	ClockOffset  string            `json:"clockOffset"`
	ClockChecked bool              `json:"clockChecked"`
}

// Health tracks the last committed receipt and the local clock offset.
type Health struct {
	lock         sync.RWMutex
	lastReceipt  *ReceiptIngestion
	clockOffset  time.Duration
	clockChecked bool

	queryOffset func() (time.Duration, error)
}

// New creates a Health checking the clock against ntpServer. An empty server trusts the local clock.
func New(ntpServer string) *Health {
	if ntpServer == "" {
		return &Health{queryOffset: func() (time.Duration, error) { return 0, nil }}
	}
	return &Health{
		queryOffset: func() (time.Duration, error) {
			resp, err := ntp.Query(ntpServer)
			if err != nil {
				return 0, err
			}
			return resp.ClockOffset, nil
		},
	}
}

func (h *Health) NewReceipt(r *engine.Receipt) {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := time.Now()
	h.lastReceipt = &ReceiptIngestion{
		Sequence:  r.Sequence,
		Time:      r.Time,
		Timestamp: &now,
	}
}

func (h *Health) ClockOffset(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockOffset = offset
	h.clockChecked = true
}

// Status reports healthy once the clock has been checked and drifts no more than maxOffset.
func (h *Health) Status(maxOffset time.Duration) *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	offset := h.clockOffset
	if offset < 0 {
		offset = -offset
	}
	return &Status{
		Healthy:      h.clockChecked && offset <= maxOffset,
		LastReceipt:  h.lastReceipt,
		ClockOffset:  common.PrettyDuration(h.clockOffset).String(),
		ClockChecked: h.clockChecked,
	}
}

func (h *Health) syncClock() {
	offset, err := h.queryOffset()
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	h.ClockOffset(offset)
	if offset > time.Second || offset < -time.Second {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
}

// Run follows the engine's receipts and checks the clock every interval until ctx is done.
// The clock is checked apart from the receipt loop, so a slow NTP query never holds back calls.
func (h *Health) Run(ctx context.Context, e *engine.Engine, interval time.Duration) {
	ch := make(chan *engine.Receipt, 16)
	sub := e.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Go(func() { h.checkClock(ctx, interval) })

	for {
		select {
		case <-ctx.Done():
			return
		case r := <-ch:
			h.NewReceipt(r)
		case err := <-sub.Err():
			if err != nil {
				logger.Warn("receipt subscription failed", "err", err)
			}
			return
		}
	}
}

func (h *Health) checkClock(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.syncClock()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.syncClock()
		}
	}
}
