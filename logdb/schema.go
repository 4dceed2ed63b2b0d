// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// party0..2 hold the first address arguments of an event, for account lookups.
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	callSeq INTEGER NOT NULL,
	callTime INTEGER NOT NULL,
	caller BLOB NOT NULL,
	address BLOB NOT NULL,
	name TEXT NOT NULL,
	party0 BLOB,
	party1 BLOB,
	party2 BLOB,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(callSeq);
CREATE INDEX IF NOT EXISTS event_i1 ON event(callTime);
CREATE INDEX IF NOT EXISTS event_i2 ON event(address, name);
CREATE INDEX IF NOT EXISTS event_i3 ON event(party0);
CREATE INDEX IF NOT EXISTS event_i4 ON event(party1);
CREATE INDEX IF NOT EXISTS event_i5 ON event(party2);`

const transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY NOT NULL,
	callSeq INTEGER NOT NULL,
	callTime INTEGER NOT NULL,
	caller BLOB NOT NULL,
	token BLOB NOT NULL,
	sender BLOB NOT NULL,
	recipient BLOB NOT NULL,
	amount BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS transfer_i0 ON transfer(callSeq);
CREATE INDEX IF NOT EXISTS transfer_i1 ON transfer(callTime);
CREATE INDEX IF NOT EXISTS transfer_i2 ON transfer(token);
CREATE INDEX IF NOT EXISTS transfer_i3 ON transfer(sender);
CREATE INDEX IF NOT EXISTS transfer_i4 ON transfer(recipient);`
