package server

import (
	"context"
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/sauerbraten/croupier/pkg/conn"
)

// how long a handler waits for input before checking its outbound queue again
const receiveTimeout = 100 * time.Millisecond

// handler owns one connection: it delivers queued messages and passes received lines to the game.
type handler struct {
	id   string
	conn conn.Conn

	qµ  sync.Mutex
	out *queue.Queue // of string

	connµ sync.Mutex // serializes sends and receives on conn
}

func newHandler(id string, c conn.Conn) *handler {
	return &handler{
		id:   id,
		conn: c,
		out:  queue.New(),
	}
}

// enqueue never blocks on the connection.
func (h *handler) enqueue(msg string) {
	h.qµ.Lock()
	h.out.Add(msg)
	h.qµ.Unlock()
}

func (h *handler) dequeue() (string, bool) {
	h.qµ.Lock()
	defer h.qµ.Unlock()
	if h.out.Length() == 0 {
		return "", false
	}
	return h.out.Remove().(string), true
}

// sendDirect bypasses the queue.
func (h *handler) sendDirect(msg string) {
	h.connµ.Lock()
	h.conn.Send(msg)
	h.connµ.Unlock()
}

// run loops until the connection is closed or ctx is done.
func (h *handler) run(ctx context.Context, onMessage func(id, msg string)) {
	for ctx.Err() == nil && !h.conn.IsClosed() {
		msg, ok, err := h.poll()
		if err != nil {
			return
		}
		if ok {
			onMessage(h.id, msg)
		}
	}
}

// poll flushes the outbound queue, then waits a short while for one inbound line.
func (h *handler) poll() (string, bool, error) {
	h.connµ.Lock()
	defer h.connµ.Unlock()

	for {
		msg, ok := h.dequeue()
		if !ok {
			break
		}
		h.conn.Send(msg)
		if h.conn.IsClosed() {
			return "", false, conn.ErrClosed
		}
	}

	return h.conn.Receive(receiveTimeout)
}

// flush delivers whatever is still queued, used when shutting down.
func (h *handler) flush() {
	h.connµ.Lock()
	defer h.connµ.Unlock()
	for !h.conn.IsClosed() {
		msg, ok := h.dequeue()
		if !ok {
			return
		}
		h.conn.Send(msg)
	}
}
