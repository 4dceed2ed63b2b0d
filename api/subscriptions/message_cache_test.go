// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/mineauction/engine"
)

func TestMessageCache_GetOrAdd(t *testing.T) {
	r0, r1 := &engine.Receipt{Sequence: 1}, &engine.Receipt{Sequence: 1}
	create := func() ([]byte, error) { return []byte("msg"), nil }

	cache := newMessageCache(10)

	counter := atomic.Int32{}
	wg := sync.WaitGroup{}
	for range 100 {
		wg.Add(1)
		start := time.Now().Add(20 * time.Millisecond)
		go func() {
			defer wg.Done()
			time.Sleep(time.Until(start))
			_, added, err := cache.GetOrAdd(messageKey{r0, "event", 0}, create)
			assert.NoError(t, err)
			if added {
				counter.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), counter.Load())

	// receipts sharing a sequence are distinct
	_, added, err := cache.GetOrAdd(messageKey{r1, "event", 0}, create)
	assert.NoError(t, err)
	assert.True(t, added)

	_, added, err = cache.GetOrAdd(messageKey{r0, "transfer", 0}, create)
	assert.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 3, cache.cache.Len())

	_, _, err = cache.GetOrAdd(messageKey{r0, "event", 1}, func() ([]byte, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	assert.Equal(t, 3, cache.cache.Len())
}

func TestMessageCache_Bounds(t *testing.T) {
	assert.Equal(t, 0, newMessageCache(0).cache.Len())
	cache := newMessageCache(1)
	r := &engine.Receipt{}
	for i := range 3 {
		_, _, err := cache.GetOrAdd(messageKey{r, "event", i}, func() ([]byte, error) { return []byte{byte(i)}, nil })
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, cache.cache.Len())
}
