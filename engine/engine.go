// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine runs contract calls one at a time against committed state.
package engine

import (
	"bytes"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/builtin/reverts"
	"github.com/vechain/mineauction/genesis"
	"github.com/vechain/mineauction/kv"
	"github.com/vechain/mineauction/log"
	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

var logger = log.WithContext("pkg", "engine")

var (
	metaBucket  = kv.Bucket("m")
	stateBucket = kv.Bucket("s")

	genesisIDKey = []byte("genesis-id")
	headKey      = []byte("head")
)

// ErrGenesisMismatch is returned when the store was initialized with another genesis.
var ErrGenesisMismatch = errors.New("genesis mismatch")

// Receipt describes a committed call.
type Receipt struct {
	Sequence uint32
	Time     uint64
	Caller   thor.Address
	Events   []*xenv.Event
}

// Head is the context of the newest committed call.
type Head struct {
	Sequence uint32
	Time     uint64
}

// Options configures the engine collaborators.
type Options struct {
	Clock    xenv.Clock
	Verifier xenv.SignatureVerifier
	Oracle   xenv.PriceOracle // nil reads the governance param
	LogDB    *logdb.LogDB     // nil disables event indexing
	Version  string
}

// Engine serializes calls over the builtin contracts. Each call either commits
// entirely or leaves no trace.
type Engine struct {
	lock      sync.Mutex
	meta      kv.Store
	state     *state.State
	opts      Options
	genesisID thor.Bytes32
	head      Head
	// floor is the newest context handed to any call or view
	floor Head

	feed  event.Feed
	scope event.SubscriptionScope
}

// New opens an engine over store, building gen on first use.
func New(store kv.Store, gen *genesis.Genesis, opts Options) (*Engine, error) {
	if opts.Clock == nil {
		return nil, errors.New("clock required")
	}
	e := &Engine{
		meta:  metaBucket.NewStore(store),
		state: state.New(stateBucket.NewStore(store)),
		opts:  opts,
	}

	id, err := e.meta.Get(genesisIDKey)
	if err != nil {
		if !e.meta.IsNotFound(err) {
			return nil, errors.Wrap(err, "load genesis id")
		}
		if err := e.initGenesis(gen); err != nil {
			return nil, err
		}
	} else {
		if !bytes.Equal(id, gen.ID().Bytes()) {
			return nil, errors.WithMessagef(ErrGenesisMismatch, "want %v, got %v", gen.ID(), thor.BytesToBytes32(id))
		}
		data, err := e.meta.Get(headKey)
		if err != nil {
			return nil, errors.Wrap(err, "load head")
		}
		if err := rlp.DecodeBytes(data, &e.head); err != nil {
			return nil, errors.Wrap(err, "decode head")
		}
	}
	e.genesisID = gen.ID()
	e.floor = e.head
	return e, nil
}

func (e *Engine) initGenesis(gen *genesis.Genesis) error {
	events, err := gen.Build(e.state)
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	head := Head{Sequence: 0, Time: gen.LaunchTime()}
	if e.opts.LogDB != nil {
		w := e.opts.LogDB.NewWriter()
		w.Write(head.Sequence, head.Time, thor.Address{}, events)
		if err := w.Commit(); err != nil {
			return errors.Wrap(err, "write genesis events")
		}
	}
	if err := e.saveHead(head); err != nil {
		return err
	}
	if err := e.meta.Put(genesisIDKey, gen.ID().Bytes()); err != nil {
		return errors.Wrap(err, "save genesis id")
	}
	logger.Info("genesis initialized", "name", gen.Name(), "id", gen.ID(), "events", len(events))
	return nil
}

func (e *Engine) saveHead(h Head) error {
	data, err := rlp.EncodeToBytes(&h)
	if err != nil {
		return err
	}
	if err := e.meta.Put(headKey, data); err != nil {
		return errors.Wrap(err, "save head")
	}
	e.head = h
	return nil
}

func (e *Engine) GenesisID() thor.Bytes32 { return e.genesisID }
func (e *Engine) Version() string         { return e.opts.Version }

// Head returns the context of the newest committed call.
func (e *Engine) Head() Head {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.head
}

// blockContext reads the clock once. Neither time nor sequence go backwards,
// not even across views, so a sequence once reported as past stays past.
func (e *Engine) blockContext() *xenv.BlockContext {
	e.floor.Sequence = max(e.opts.Clock.Sequence(), e.floor.Sequence, e.head.Sequence)
	e.floor.Time = max(e.opts.Clock.Now(), e.floor.Time, e.head.Time)
	return &xenv.BlockContext{
		Number: e.floor.Sequence,
		Time:   e.floor.Time,
	}
}

// Call runs fn on behalf of caller. State changes and events are committed only if fn succeeds.
func (e *Engine) Call(caller thor.Address, fn func(c *builtin.Contracts) error) (*Receipt, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	start := time.Now()
	blk := e.blockContext()
	env := xenv.New(e.state, blk, caller)
	contracts := builtin.Bind(env, e.opts.Verifier, e.opts.Oracle)

	rev := e.state.NewCheckpoint()
	if err := fn(contracts); err != nil {
		e.state.RevertTo(rev)
		observeCall(err, start)
		return nil, err
	}
	if err := e.state.Commit(); err != nil {
		e.state.RevertTo(rev)
		observeCall(err, start)
		return nil, errors.Wrap(err, "commit state")
	}
	if err := e.saveHead(Head{Sequence: blk.Number, Time: blk.Time}); err != nil {
		observeCall(err, start)
		return nil, err
	}

	receipt := &Receipt{
		Sequence: blk.Number,
		Time:     blk.Time,
		Caller:   caller,
		Events:   env.Events(),
	}
	if e.opts.LogDB != nil {
		w := e.opts.LogDB.NewWriter()
		w.Write(receipt.Sequence, receipt.Time, receipt.Caller, receipt.Events)
		if err := w.Commit(); err != nil {
			logger.Error("failed to write events", "seq", receipt.Sequence, "err", err)
		}
	}
	observeCall(nil, start)
	logger.Debug("call committed", "seq", receipt.Sequence, "caller", caller, "events", len(receipt.Events))

	e.feed.Send(receipt)
	return receipt, nil
}

// View runs fn against current state and discards every change.
func (e *Engine) View(fn func(c *builtin.Contracts) error) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	env := xenv.New(e.state, e.blockContext(), thor.Address{})
	rev := e.state.NewCheckpoint()
	defer e.state.RevertTo(rev)
	return fn(builtin.Bind(env, e.opts.Verifier, e.opts.Oracle))
}

// SubscribeReceipts delivers every committed receipt to ch, in commit order.
// Calls block until ch accepts the receipt.
func (e *Engine) SubscribeReceipts(ch chan *Receipt) event.Subscription {
	return e.scope.Track(e.feed.Subscribe(ch))
}

// Close unsubscribes every receipt subscriber.
func (e *Engine) Close() {
	e.scope.Close()
}

func observeCall(err error, start time.Time) {
	status := "ok"
	if err != nil {
		if _, ok := reverts.As(err); ok {
			status = "reverted"
		} else {
			status = "error"
		}
	}
	metricCallCount().AddWithLabel(1, map[string]string{"status": status})
	metricCallDuration().Observe(time.Since(start).Milliseconds())
}
