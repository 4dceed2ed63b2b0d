// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/thor"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32 // sequence number of the call
	Time   uint64 // unix seconds, read once per call
}

// EventArg is a named event argument. Order is significant.
type EventArg struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Arg creates an event argument.
func Arg(name string, value any) EventArg {
	return EventArg{Name: name, Value: value}
}

// Event is emitted by a contract during a call.
type Event struct {
	Address thor.Address
	Name    string
	Args    []EventArg
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	caller   thor.Address
	events   *[]*Event
}

// New create a new env.
func New(state *state.State, blockCtx *BlockContext, caller thor.Address) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		caller:   caller,
		events:   new([]*Event),
	}
}

func (env *Environment) State() *state.State         { return env.state }
func (env *Environment) BlockContext() *BlockContext { return env.blockCtx }
func (env *Environment) Caller() thor.Address        { return env.caller }

// WithCaller returns an env sharing state, block context and event sink, called by caller.
// It models a contract calling another one.
func (env *Environment) WithCaller(caller thor.Address) *Environment {
	return &Environment{
		state:    env.state,
		blockCtx: env.blockCtx,
		caller:   caller,
		events:   env.events,
	}
}

// Log records an event.
func (env *Environment) Log(address thor.Address, name string, args ...EventArg) {
	*env.events = append(*env.events, &Event{Address: address, Name: name, Args: args})
}

// Events returns recorded events in emission order.
func (env *Environment) Events() []*Event {
	return *env.events
}
