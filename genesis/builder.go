// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp uint64
	procs     []func(c *builtin.Contracts) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process, run against the builtin contracts.
func (b *Builder) State(proc func(c *builtin.Contracts) error) *Builder {
	b.procs = append(b.procs, proc)
	return b
}

// Build runs every state process at sequence 0 and commits the state.
// It returns the events emitted.
func (b *Builder) Build(st *state.State) ([]*xenv.Event, error) {
	env := xenv.New(st, &xenv.BlockContext{Number: 0, Time: b.timestamp}, thor.Address{})
	contracts := builtin.Bind(env, nil, nil)

	rev := st.NewCheckpoint()
	for _, proc := range b.procs {
		if err := proc(contracts); err != nil {
			st.RevertTo(rev)
			return nil, errors.Wrap(err, "state process")
		}
	}
	if err := st.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	return env.Events(), nil
}
