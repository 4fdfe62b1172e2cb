// Package observe streams decided turns to websocket subscribers, so a
// dashboard can follow a run live.
//
// A Hub owns the set of connected clients and fans every published message
// out to them. Clients are read-only; anything they send is discarded. A
// client whose send buffer fills up is dropped rather than stalling the
// turn loop.
package observe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dsetzer/codingame-fall-2024/internal/journal"
	"github.com/dsetzer/codingame-fall-2024/internal/logging"
)

// ErrHubStopped is returned by Publish once Run has returned.
var ErrHubStopped = errors.New("observe: hub stopped")

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Message is the JSON envelope sent to subscribers.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	Sender  string `json:"sender"`
}

// MessageTurn carries a journal.Record.
const MessageTurn = "turn"

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub is the broadcast loop. Create with NewHub, start with Run, mount as an
// http.Handler.
type Hub struct {
	log      logging.Logger
	upgrader websocket.Upgrader

	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	count   atomic.Int64
	dropped atomic.Int64
}

// NewHub builds a hub; log may be nil.
func NewHub(log logging.Logger) *Hub {
	if log == nil {
		log = logging.Noop()
	}
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx ends, then closes every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			h.remove(c)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Add(1)
			h.log.Debug(ctx, "observer connected", logging.String("remote", c.conn.RemoteAddr().String()))

		case c := <-h.unregister:
			if h.clients[c] {
				h.remove(c)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.log.Warn(ctx, "dropping slow observer", logging.String("remote", c.conn.RemoteAddr().String()))
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int { return int(h.count.Load()) }

// Dropped returns how many messages were discarded because the broadcast
// queue was full.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// Publish queues a message for every subscriber without blocking. When the
// queue is full the message is dropped.
func (h *Hub) Publish(typ, sender string, payload any) error {
	b, err := json.Marshal(Message{Type: typ, Payload: payload, Sender: sender})
	if err != nil {
		return err
	}
	select {
	case <-h.done:
		return ErrHubStopped
	default:
	}
	select {
	case h.broadcast <- b:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// PublishTurn sends rec as a MessageTurn from its run.
func (h *Hub) PublishTurn(rec journal.Record) error {
	return h.Publish(MessageTurn, rec.RunID, rec)
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade", logging.Err(err))
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
