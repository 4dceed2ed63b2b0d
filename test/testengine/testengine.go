// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testengine builds an in-memory devnet engine for tests.
package testengine

import (
	"math/big"

	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/cry"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/genesis"
	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/lvldb"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

// Engine is a devnet engine over memory stores, driven by a manual clock.
type Engine struct {
	*engine.Engine
	Clock    *xenv.ManualClock
	LogDB    *logdb.LogDB
	Accounts []genesis.DevAccount

	db *lvldb.LevelDB
}

// New creates the engine with the clock 10 seconds after the devnet launch, at sequence 1.
func New() (*Engine, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	clock := xenv.NewManualClock(genesis.DevLaunchTime+10, 1)
	e, err := engine.New(db, genesis.NewDevnet(), engine.Options{
		Clock:    clock,
		Verifier: cry.NewVerifier(16),
		LogDB:    logDB,
		Version:  "test",
	})
	if err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	return &Engine{e, clock, logDB, genesis.DevAccounts(), db}, nil
}

// Close releases the engine and its stores.
func (e *Engine) Close() {
	e.Engine.Close()
	e.LogDB.Close()
	e.db.Close()
}

// Bid approves and places amount from bidder on a slot.
func (e *Engine) Bid(bidder thor.Address, groupID, auctionID uint64, amount *big.Int) (*engine.Receipt, error) {
	return e.Call(bidder, func(c *builtin.Contracts) error {
		if err := c.Unit.Approve(bidder, builtin.Auction.Address, amount); err != nil {
			return err
		}
		return c.Auction.Bid(bidder, groupID, auctionID, amount)
	})
}
