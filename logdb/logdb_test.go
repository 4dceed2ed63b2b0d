// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"encoding/json"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/test/datagen"
	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

var (
	unit    = thor.BytesToAddress([]byte("Unit"))
	auction = thor.BytesToAddress([]byte("Auction"))
)

func transferEvent(from, to thor.Address, amount int64) *xenv.Event {
	return &xenv.Event{
		Address: unit,
		Name:    "Transfer",
		Args:    []xenv.EventArg{xenv.Arg("from", from), xenv.Arg("to", to), xenv.Arg("amount", big.NewInt(amount))},
	}
}

func bidEvent(bidder thor.Address, amount int64) *xenv.Event {
	return &xenv.Event{
		Address: auction,
		Name:    "AuctionBid",
		Args: []xenv.EventArg{
			xenv.Arg("groupId", uint64(0)),
			xenv.Arg("auctionId", uint64(1)),
			xenv.Arg("bidder", bidder),
			xenv.Arg("amount", big.NewInt(amount)),
		},
	}
}

func newTestDB(t *testing.T) *LogDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWriteAndFilterEvents(t *testing.T) {
	db := newTestDB(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	w := db.NewWriter()
	w.Write(1, 100, alice, []*xenv.Event{bidEvent(alice, 10), transferEvent(alice, auction, 10)})
	w.Write(2, 110, bob, nil)
	w.Write(3, 120, bob, []*xenv.Event{bidEvent(bob, 30), transferEvent(bob, auction, 30)})
	assert.Equal(t, 2, w.UncommittedCount())
	require.NoError(t, w.Commit())
	assert.Zero(t, w.UncommittedCount())

	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, uint32(0), all[0].CallNumber)
	assert.Equal(t, uint32(1), all[1].Index)
	assert.Equal(t, uint32(1), all[2].CallNumber)
	assert.Equal(t, uint32(3), all[2].Sequence)
	assert.Equal(t, uint64(120), all[2].Time)
	assert.Equal(t, bob, all[2].Caller)

	var args []struct {
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	}
	require.NoError(t, json.Unmarshal(all[0].Data, &args))
	require.Len(t, args, 4)
	assert.Equal(t, "bidder", args[2].Name)
	assert.Equal(t, `"`+alice.String()+`"`, string(args[2].Value))
	assert.Equal(t, "10", string(args[3].Value))

	bids, err := db.FilterEvents(context.Background(), &EventFilter{
		CriteriaSet: []*EventCriteria{{Address: &auction, Name: "AuctionBid"}},
		Order:       DESC,
	})
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, bob, bids[0].Caller)

	byAccount, err := db.FilterEvents(context.Background(), &EventFilter{
		CriteriaSet: []*EventCriteria{{Account: &alice}},
	})
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)

	either, err := db.FilterEvents(context.Background(), &EventFilter{
		CriteriaSet: []*EventCriteria{{Account: &alice, Name: "AuctionBid"}, {Account: &bob, Name: "Transfer"}},
	})
	require.NoError(t, err)
	require.Len(t, either, 2)
	assert.Equal(t, "AuctionBid", either[0].Name)
	assert.Equal(t, "Transfer", either[1].Name)

	ranged, err := db.FilterEvents(context.Background(), &EventFilter{
		Range:   &Range{Unit: Time, From: 115, To: 200},
		Options: &Options{Offset: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "Transfer", ranged[0].Name)

	newest, err := db.NewestSequence()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), newest)
}

func TestFilterTransfers(t *testing.T) {
	db := newTestDB(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	w := db.NewWriter()
	w.Write(1, 100, alice, []*xenv.Event{bidEvent(alice, 10), transferEvent(alice, auction, 10)})
	w.Write(1, 100, alice, []*xenv.Event{transferEvent(alice, bob, 5)})
	require.NoError(t, w.Commit())

	transfers, err := db.FilterTransfers(context.Background(), &TransferFilter{
		CriteriaSet: []*TransferCriteria{{Sender: &alice}},
		Range:       &Range{Unit: Sequence, From: 1, To: 1},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, unit, transfers[0].Token)
	assert.Equal(t, auction, transfers[0].Recipient)
	assert.Equal(t, big.NewInt(10), transfers[0].Amount)
	assert.Equal(t, uint32(0), transfers[0].Index)
	assert.Equal(t, big.NewInt(5), transfers[1].Amount)

	toBob, err := db.FilterTransfers(context.Background(), &TransferFilter{
		CriteriaSet: []*TransferCriteria{{Token: &unit, Recipient: &bob}},
	})
	require.NoError(t, err)
	require.Len(t, toBob, 1)
	assert.Equal(t, uint32(1), toBob[0].CallNumber)
}

func TestRollback(t *testing.T) {
	db := newTestDB(t)
	w := db.NewWriter()
	w.Write(1, 100, auction, []*xenv.Event{bidEvent(auction, 1)})
	w.Rollback()
	require.NoError(t, w.Commit())

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReopenContinuesCallNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")
	alice := datagen.RandAddress()

	db, err := New(path)
	require.NoError(t, err)
	w := db.NewWriter()
	w.Write(1, 100, alice, []*xenv.Event{bidEvent(alice, 1)})
	require.NoError(t, w.Commit())
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())

	w = db.NewWriter()
	w.Write(2, 110, alice, []*xenv.Event{bidEvent(alice, 2)})
	require.NoError(t, w.Commit())

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint32(1), events[1].CallNumber)
}

func TestCanceledContext(t *testing.T) {
	db := newTestDB(t)
	w := db.NewWriter()
	w.Write(1, 100, auction, []*xenv.Event{bidEvent(auction, 1)})
	require.NoError(t, w.Commit())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := db.FilterEvents(ctx, nil)
	assert.Error(t, err)
}
