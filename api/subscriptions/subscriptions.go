// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/mineauction/api/utils"
	"github.com/vechain/mineauction/engine"
	"github.com/vechain/mineauction/log"
	"github.com/vechain/mineauction/logdb"
	"github.com/vechain/mineauction/metrics"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveConns = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
	metricDropped     = metrics.LazyLoadCounterVec("api_dropped_websocket_count", []string{"subject"})
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	receiptBacklog = 64
)

// reader turns a receipt into the messages a connection wants.
type reader func(r *engine.Receipt) ([][]byte, error)

type client struct {
	id       string
	subject  string
	receipts chan *engine.Receipt
	dropped  chan struct{}
}

type Subscriptions struct {
	engine   *engine.Engine
	upgrader *websocket.Upgrader
	cache    *messageCache

	receipts chan *engine.Receipt
	sub      event.Subscription

	mu      sync.Mutex
	clients map[string]*client
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// New starts the dispatcher fanning committed receipts out to websocket clients.
func New(e *engine.Engine, allowedOrigins []string, cacheSize uint32) *Subscriptions {
	s := &Subscriptions{
		engine: e,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		cache:    newMessageCache(cacheSize),
		receipts: make(chan *engine.Receipt, receiptBacklog),
		clients:  make(map[string]*client),
		done:     make(chan struct{}),
	}
	s.sub = e.SubscribeReceipts(s.receipts)

	s.wg.Add(1)
	go s.dispatch()
	return s
}

func (s *Subscriptions) dispatch() {
	defer s.wg.Done()
	for {
		select {
		case r := <-s.receipts:
			s.mu.Lock()
			for id, c := range s.clients {
				select {
				case c.receipts <- r:
				default:
					logger.Debug("dropping slow subscriber", "id", id, "subject", c.subject)
					metricDropped().AddWithLabel(1, map[string]string{"subject": c.subject})
					delete(s.clients, id)
					close(c.dropped)
				}
			}
			s.mu.Unlock()
		case <-s.sub.Err():
			return
		case <-s.done:
			return
		}
	}
}

func (s *Subscriptions) register(subject string) *client {
	c := &client{
		id:       uuid.New(),
		subject:  subject,
		receipts: make(chan *engine.Receipt, receiptBacklog),
		dropped:  make(chan struct{}),
	}
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
	metricActiveConns().AddWithLabel(1, map[string]string{"subject": subject})
	return c
}

func (s *Subscriptions) unregister(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
	metricActiveConns().AddWithLabel(-1, map[string]string{"subject": c.subject})
}

func (s *Subscriptions) eventReader(filter *EventFilter) reader {
	return func(r *engine.Receipt) ([][]byte, error) {
		var msgs [][]byte
		for i, ev := range r.Events {
			if !filter.match(ev) {
				continue
			}
			msg, _, err := s.cache.GetOrAdd(messageKey{r, "event", i}, func() ([]byte, error) {
				return json.Marshal(convertEvent(r, i))
			})
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		}
		return msgs, nil
	}
}

func (s *Subscriptions) transferReader(filter *TransferFilter) reader {
	return func(r *engine.Receipt) ([][]byte, error) {
		var msgs [][]byte
		for i, ev := range r.Events {
			tr, ok := logdb.ParseTransfer(ev)
			if !ok || !filter.match(tr) {
				continue
			}
			msg, _, err := s.cache.GetOrAdd(messageKey{r, "transfer", i}, func() ([]byte, error) {
				return json.Marshal(convertTransfer(r, i, tr))
			})
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		}
		return msgs, nil
	}
}

func (s *Subscriptions) receiptReader() reader {
	return func(r *engine.Receipt) ([][]byte, error) {
		msg, _, err := s.cache.GetOrAdd(messageKey{r, "receipt", 0}, func() ([]byte, error) {
			return json.Marshal(utils.ConvertReceipt(r))
		})
		if err != nil {
			return nil, err
		}
		return [][]byte{msg}, nil
	}
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	subject := mux.Vars(req)["subject"]
	var (
		read reader
		err  error
	)
	switch subject {
	case "event":
		var filter *EventFilter
		if filter, err = parseEventFilter(req.URL.Query()); err != nil {
			return err
		}
		read = s.eventReader(filter)
	case "transfer":
		var filter *TransferFilter
		if filter, err = parseTransferFilter(req.URL.Query()); err != nil {
			return err
		}
		read = s.transferReader(filter)
	case "receipt":
		read = s.receiptReader()
	default:
		return utils.NotFound(errors.Errorf("unknown subject %q", subject))
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied already
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	c := s.register(subject)
	defer s.unregister(c)

	if err := s.pipe(conn, c, read); err != nil {
		logger.Debug("subscription closed", "id", c.id, "subject", subject, "err", err)
	}
	return nil
}

// pipe writes the messages of every dispatched receipt until the peer leaves, the client is
// dropped or the service closes.
func (s *Subscriptions) pipe(conn *websocket.Conn, c *client, read reader) error {
	defer conn.Close()

	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	closeWith := func(code int, text string) error {
		return conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case r := <-c.receipts:
			msgs, err := read(r)
			if err != nil {
				return err
			}
			for _, msg := range msgs {
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return err
				}
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-c.dropped:
			return closeWith(websocket.ClosePolicyViolation, "subscriber too slow")
		case <-closed:
			return nil
		case <-s.done:
			return closeWith(websocket.CloseGoingAway, "server closing")
		}
	}
}

// Close stops the dispatcher and closes every connection.
func (s *Subscriptions) Close() {
	s.once.Do(func() {
		s.sub.Unsubscribe()
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions/{subject}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
