// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/mineauction/state"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

// Genesis to build genesis state.
type Genesis struct {
	builder *Builder
	id      thor.Bytes32
	name    string
}

// Build build the genesis state.
func (g *Genesis) Build(st *state.State) ([]*xenv.Event, error) {
	return g.builder.Build(st)
}

// ID returns genesis id.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// LaunchTime returns the time of sequence 0.
func (g *Genesis) LaunchTime() uint64 {
	return g.builder.timestamp
}
