// Package conn defines the line-oriented connection the game server talks to, plus adapters for
// TCP and WebSocket clients.
package conn

import (
	"errors"
	"time"
)

var (
	ErrClosed          = errors.New("connection closed")
	ErrNegativeTimeout = errors.New("negative receive timeout")
)

// Conn is a bidirectional text channel carrying one message per line.
type Conn interface {
	// Send delivers a line to the peer. Sending on a closed connection is a no-op.
	Send(msg string)

	// Receive waits for the next line from the peer. A zero timeout blocks until a line arrives
	// or the connection closes; a positive timeout returns ok == false when it expires first.
	// A negative timeout returns ErrNegativeTimeout, a closed connection ErrClosed.
	Receive(timeout time.Duration) (msg string, ok bool, err error)

	Close()
	IsClosed() bool
}

// Poll implements the Receive contract on top of a channel of incoming lines and a channel that
// is closed when the connection goes away.
func Poll(incoming <-chan string, closed <-chan struct{}, timeout time.Duration) (string, bool, error) {
	if timeout < 0 {
		return "", false, ErrNegativeTimeout
	}

	// lines that arrived before the close are still delivered
	select {
	case msg := <-incoming:
		return msg, true, nil
	default:
	}
	select {
	case <-closed:
		return "", false, ErrClosed
	default:
	}

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case msg := <-incoming:
		return msg, true, nil
	case <-closed:
		return "", false, ErrClosed
	case <-expired:
		return "", false, nil
	}
}
