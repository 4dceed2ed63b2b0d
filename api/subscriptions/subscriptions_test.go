// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/builtin"
	"github.com/vechain/mineauction/test/testengine"
	"github.com/vechain/mineauction/thor"
)

type testServer struct {
	te   *testengine.Engine
	subs *Subscriptions
	ts   *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	te, err := testengine.New()
	require.NoError(t, err)

	subs := New(te.Engine, []string{"*"}, 100)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)

	t.Cleanup(func() {
		ts.Close()
		subs.Close()
		te.Close()
	})
	return &testServer{te, subs, ts}
}

func (s *testServer) numClients() int {
	s.subs.mu.Lock()
	defer s.subs.mu.Unlock()
	return len(s.subs.clients)
}

// dial connects and waits until the connection is registered with the dispatcher.
func (s *testServer) dial(t *testing.T, subject, query string) *websocket.Conn {
	before := s.numClients()
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(s.ts.URL, "http://"), Path: "/subscriptions/" + subject, RawQuery: query}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return s.numClients() > before }, time.Second, 5*time.Millisecond)
	return conn
}

func (s *testServer) transfer(t *testing.T, from, to thor.Address, amount int64) {
	_, err := s.te.Call(from, func(c *builtin.Contracts) error {
		return c.Unit.Transfer(from, to, big.NewInt(amount))
	})
	require.NoError(t, err)
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg, v))
}

func TestEventSubject(t *testing.T) {
	s := newTestServer(t)
	alice, bob := s.te.Accounts[2].Address, s.te.Accounts[3].Address

	conn := s.dial(t, "event", "address="+builtin.Unit.Address.String()+"&name=Transfer&account="+bob.String())

	// unrelated to bob
	s.transfer(t, alice, s.te.Accounts[4].Address, 1)
	s.transfer(t, alice, bob, 2)

	var msg EventMessage
	readJSON(t, conn, &msg)
	assert.Equal(t, builtin.Unit.Address, msg.Address)
	assert.Equal(t, "Transfer", msg.Name)
	require.Len(t, msg.Args, 3)
	assert.Equal(t, "amount", msg.Args[2].Name)
	assert.Equal(t, alice, msg.Meta.Caller)
	require.NotNil(t, msg.Meta.LogIndex)
	assert.Zero(t, *msg.Meta.LogIndex)
}

func TestTransferSubject(t *testing.T) {
	s := newTestServer(t)
	alice, bob, carol := s.te.Accounts[2].Address, s.te.Accounts[3].Address, s.te.Accounts[4].Address

	conn := s.dial(t, "transfer", "sender="+bob.String())
	all := s.dial(t, "transfer", "")

	s.transfer(t, alice, carol, 1)
	s.transfer(t, bob, carol, 7)

	var msg TransferMessage
	readJSON(t, conn, &msg)
	assert.Equal(t, bob, msg.Sender)
	assert.Equal(t, carol, msg.Recipient)
	assert.Equal(t, big.NewInt(7), (*big.Int)(msg.Amount))
	assert.Equal(t, builtin.Unit.Address, msg.Token)

	readJSON(t, all, &msg)
	assert.Equal(t, alice, msg.Sender)
	readJSON(t, all, &msg)
	assert.Equal(t, bob, msg.Sender)
}

func TestReceiptSubject(t *testing.T) {
	s := newTestServer(t)
	alice := s.te.Accounts[2].Address

	conn := s.dial(t, "receipt", "")
	s.transfer(t, alice, s.te.Accounts[3].Address, 1)

	var receipt utils.Receipt
	readJSON(t, conn, &receipt)
	assert.Equal(t, alice, receipt.Caller)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "Transfer", receipt.Events[0].Name)
}

func TestBadSubjects(t *testing.T) {
	s := newTestServer(t)
	host := strings.TrimPrefix(s.ts.URL, "http://")

	for query, status := range map[string]int{
		"/subscriptions/event?address=0x12":   http.StatusBadRequest,
		"/subscriptions/transfer?token=bad":   http.StatusBadRequest,
		"/subscriptions/block":                http.StatusNotFound,
		"/subscriptions/transfer?recipient=1": http.StatusBadRequest,
	} {
		_, resp, err := websocket.DefaultDialer.Dial("ws://"+host+query, nil)
		assert.Equal(t, websocket.ErrBadHandshake, err, query)
		require.NotNil(t, resp, query)
		assert.Equal(t, status, resp.StatusCode, query)
	}
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	s := newTestServer(t)
	alice := s.te.Accounts[2].Address

	c := s.subs.register("receipt")
	defer s.subs.unregister(c)

	for range receiptBacklog + 1 {
		s.transfer(t, alice, s.te.Accounts[3].Address, 1)
	}

	select {
	case <-c.dropped:
	case <-time.After(5 * time.Second):
		t.Fatal("slow subscriber not dropped")
	}
	assert.Zero(t, s.numClients())
}

func TestCloseNotifiesClients(t *testing.T) {
	s := newTestServer(t)
	conn := s.dial(t, "receipt", "")

	// closed again by the cleanup
	s.subs.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)
}
