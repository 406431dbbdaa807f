package conn

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsMaxMessageSize = 4096
)

// WebSocket is a Conn over a WebSocket connection. Every text message is one line.
type WebSocket struct {
	ws *websocket.Conn

	µ        sync.Mutex // serializes writes
	incoming chan string

	closed    chan struct{}
	closeOnce sync.Once
}

// NewWebSocket starts reading text messages from ws.
func NewWebSocket(ws *websocket.Conn) *WebSocket {
	w := &WebSocket{
		ws:       ws,
		incoming: make(chan string),
		closed:   make(chan struct{}),
	}
	ws.SetReadLimit(wsMaxMessageSize)
	go w.readPump()
	return w
}

func (w *WebSocket) readPump() {
	defer w.Close()

	for {
		typ, data, err := w.ws.ReadMessage()
		if err != nil {
			return
		}
		if typ != websocket.TextMessage {
			continue
		}

		select {
		case w.incoming <- strings.TrimRight(string(data), "\r\n"):
		case <-w.closed:
			return
		}
	}
}

func (w *WebSocket) RemoteAddr() net.Addr { return w.ws.RemoteAddr() }

func (w *WebSocket) Send(msg string) {
	if w.IsClosed() {
		return
	}

	w.µ.Lock()
	defer w.µ.Unlock()

	w.ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := w.ws.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		go w.Close()
	}
}

func (w *WebSocket) Receive(timeout time.Duration) (string, bool, error) {
	return Poll(w.incoming, w.closed, timeout)
}

func (w *WebSocket) Close() {
	w.closeOnce.Do(func() {
		close(w.closed)

		w.µ.Lock()
		w.ws.SetWriteDeadline(time.Now().Add(time.Second))
		w.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		w.µ.Unlock()

		w.ws.Close()
	})
}

func (w *WebSocket) IsClosed() bool {
	select {
	case <-w.closed:
		return true
	default:
		return false
	}
}
