// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/golang/snappy"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/thor"
	"github.com/vechain/mineauction/xenv"
)

const (
	maxParties = 3

	insertEventQuery    = "INSERT OR REPLACE INTO event(seq, callSeq, callTime, caller, address, name, party0, party1, party2, data) VALUES(?,?,?,?,?,?,?,?,?,?)"
	insertTransferQuery = "INSERT OR REPLACE INTO transfer(seq, callSeq, callTime, caller, token, sender, recipient, amount) VALUES(?,?,?,?,?,?,?,?)"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache

	lock     sync.Mutex
	nextCall uint32
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	return open(path, db)
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a distinct database
	db.SetMaxOpenConns(1)
	return open(":memory:", db)
}

func open(path string, db *sql.DB) (logDB *LogDB, err error) {
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()

	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	var (
		lastEvent    sql.NullInt64
		lastTransfer sql.NullInt64
	)
	if err := db.QueryRow("SELECT MAX(seq) FROM event").Scan(&lastEvent); err != nil {
		return nil, errors.Wrap(err, "load newest event")
	}
	if err := db.QueryRow("SELECT MAX(seq) FROM transfer").Scan(&lastTransfer); err != nil {
		return nil, errors.Wrap(err, "load newest transfer")
	}
	var nextCall uint32
	for _, last := range []sql.NullInt64{lastEvent, lastTransfer} {
		if last.Valid {
			if n := sequence(last.Int64).CallNumber() + 1; n > nextCall {
				nextCall = n
			}
		}
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
		nextCall:      nextCall,
	}, nil
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite library version.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewestSequence returns the call sequence of the newest written row.
func (db *LogDB) NewestSequence() (uint32, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(callSeq) FROM (SELECT callSeq FROM event UNION ALL SELECT callSeq FROM transfer)").Scan(&seq); err != nil {
		return 0, err
	}
	return uint32(seq.Int64), nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, callSeq, callTime, caller, address, name, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		stmt = query + " WHERE 1"
	)
	stmt, args = appendRange(stmt, args, filter.Range)

	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ?"
		}
		if criteria.Name != "" {
			args = append(args, criteria.Name)
			stmt += " AND name = ?"
		}
		if criteria.Account != nil {
			b := criteria.Account.Bytes()
			args = append(args, b, b, b)
			stmt += " AND (party0 = ? OR party1 = ? OR party2 = ?)"
		}
		if i == length-1 {
			stmt += " ))"
		} else {
			stmt += " )"
		}
	}

	stmt, args = appendOrder(stmt, args, filter.Order, filter.Options)
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	const query = "SELECT seq, callSeq, callTime, caller, token, sender, recipient, amount FROM transfer"
	if filter == nil {
		return db.queryTransfers(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleTransfersFilter(filter)

	var (
		args []any
		stmt = query + " WHERE 1"
	)
	stmt, args = appendRange(stmt, args, filter.Range)

	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Token != nil {
			args = append(args, criteria.Token.Bytes())
			stmt += " AND token = ?"
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ?"
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ?"
		}
		if i == length-1 {
			stmt += " ))"
		} else {
			stmt += " )"
		}
	}

	stmt, args = appendOrder(stmt, args, filter.Order, filter.Options)
	return db.queryTransfers(ctx, stmt, args...)
}

func appendRange(stmt string, args []any, r *Range) (string, []any) {
	if r == nil {
		return stmt, args
	}
	column := "callSeq"
	if r.Unit == Time {
		column = "callTime"
	}
	args = append(args, r.From)
	stmt += fmt.Sprintf(" AND %s >= ?", column)
	if r.To >= r.From {
		args = append(args, r.To)
		stmt += fmt.Sprintf(" AND %s <= ?", column)
	}
	return stmt, args
}

func appendOrder(stmt string, args []any, order Order, options *Options) (string, []any) {
	if order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, options.Offset, options.Limit)
	}
	return stmt, args
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     int64
			callSeq uint32
			time    uint64
			caller  []byte
			address []byte
			name    string
			data    []byte
		)
		if err := rows.Scan(&seq, &callSeq, &time, &caller, &address, &name, &data); err != nil {
			return nil, err
		}
		event := &Event{
			CallNumber: sequence(seq).CallNumber(),
			Index:      sequence(seq).Index(),
			Sequence:   callSeq,
			Time:       time,
			Caller:     thor.BytesToAddress(caller),
			Address:    thor.BytesToAddress(address),
			Name:       name,
		}
		if len(data) > 0 {
			if event.Data, err = snappy.Decode(nil, data); err != nil {
				return nil, errors.Wrap(err, "decode event data")
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, query string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			callSeq   uint32
			time      uint64
			caller    []byte
			token     []byte
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(&seq, &callSeq, &time, &caller, &token, &sender, &recipient, &amount); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			CallNumber: sequence(seq).CallNumber(),
			Index:      sequence(seq).Index(),
			Sequence:   callSeq,
			Time:       time,
			Caller:     thor.BytesToAddress(caller),
			Token:      thor.BytesToAddress(token),
			Sender:     thor.BytesToAddress(sender),
			Recipient:  thor.BytesToAddress(recipient),
			Amount:     new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// NewWriter creates a log writer.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db}
}

type call struct {
	seq    uint32
	time   uint64
	caller thor.Address
	events []*xenv.Event
}

// Writer accumulates the events of committed calls and writes them in one transaction.
type Writer struct {
	db    *LogDB
	calls []*call
}

// Write queues the events of one committed call.
func (w *Writer) Write(seq uint32, time uint64, caller thor.Address, events []*xenv.Event) {
	if len(events) == 0 {
		return
	}
	w.calls = append(w.calls, &call{seq, time, caller, events})
}

// UncommittedCount returns the count of queued calls.
func (w *Writer) UncommittedCount() int {
	return len(w.calls)
}

// Rollback drops all queued calls.
func (w *Writer) Rollback() {
	w.calls = nil
}

// Commit writes queued calls.
func (w *Writer) Commit() error {
	if len(w.calls) == 0 {
		return nil
	}
	w.db.lock.Lock()
	defer w.db.lock.Unlock()

	eventStmt, err := w.db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	transferStmt, err := w.db.stmtCache.Prepare(insertTransferQuery)
	if err != nil {
		return err
	}

	callNum := w.db.nextCall
	var nEvents, nTransfers int64
	if err := w.execInTx(func(tx *sql.Tx) error {
		eventStmt := tx.Stmt(eventStmt)
		transferStmt := tx.Stmt(transferStmt)
		for _, c := range w.calls {
			var transferIndex uint32
			for i, ev := range c.events {
				data, err := json.Marshal(ev.Args)
				if err != nil {
					return errors.Wrap(err, "encode event args")
				}
				parties := eventParties(ev)
				if _, err := eventStmt.Exec(
					newSequence(callNum, uint32(i)),
					c.seq,
					c.time,
					c.caller.Bytes(),
					ev.Address.Bytes(),
					ev.Name,
					parties[0],
					parties[1],
					parties[2],
					snappy.Encode(nil, data),
				); err != nil {
					return err
				}
				nEvents++

				if tr, ok := ParseTransfer(ev); ok {
					if _, err := transferStmt.Exec(
						newSequence(callNum, transferIndex),
						c.seq,
						c.time,
						c.caller.Bytes(),
						ev.Address.Bytes(),
						tr.Sender.Bytes(),
						tr.Recipient.Bytes(),
						tr.Amount.Bytes(),
					); err != nil {
						return err
					}
					transferIndex++
					nTransfers++
				}
			}
			callNum++
		}
		return nil
	}); err != nil {
		return err
	}

	w.db.nextCall = callNum
	w.calls = nil
	metricRowsWritten().AddWithLabel(nEvents, map[string]string{"type": "event"})
	metricRowsWritten().AddWithLabel(nTransfers, map[string]string{"type": "transfer"})
	return nil
}

func (w *Writer) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := w.db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Parties returns up to three address arguments of ev, in argument order.
func Parties(ev *xenv.Event) []thor.Address {
	var parties []thor.Address
	for _, arg := range ev.Args {
		if len(parties) == maxParties {
			break
		}
		if addr, ok := arg.Value.(thor.Address); ok {
			parties = append(parties, addr)
		}
	}
	return parties
}

func eventParties(ev *xenv.Event) [maxParties][]byte {
	var cols [maxParties][]byte
	for i, addr := range Parties(ev) {
		cols[i] = addr.Bytes()
	}
	return cols
}

// ParseTransfer recognizes the ledger Transfer(from, to, amount) event. Only Token, Sender,
// Recipient and Amount are set.
func ParseTransfer(ev *xenv.Event) (*Transfer, bool) {
	if ev.Name != "Transfer" || len(ev.Args) != 3 {
		return nil, false
	}
	from, ok1 := ev.Args[0].Value.(thor.Address)
	to, ok2 := ev.Args[1].Value.(thor.Address)
	amount, ok3 := ev.Args[2].Value.(*big.Int)
	if !ok1 || !ok2 || !ok3 || amount == nil {
		return nil, false
	}
	return &Transfer{Token: ev.Address, Sender: from, Recipient: to, Amount: amount}, true
}
