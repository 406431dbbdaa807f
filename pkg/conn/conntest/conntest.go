// Package conntest provides an in-memory conn.Conn for tests. The test plays the client: it
// writes lines with Write and reads what the server sent with Next or Lines.
package conntest

import (
	"sync"
	"time"

	"github.com/sauerbraten/croupier/pkg/conn"
)

type Conn struct {
	incoming chan string

	µ    sync.Mutex
	sent []string
	more chan struct{} // closed and replaced whenever a line is sent
	read int          // lines consumed by Next

	// SendDelay slows down every Send, simulating a slow peer.
	SendDelay time.Duration

	closed    chan struct{}
	closeOnce sync.Once
}

var _ conn.Conn = (*Conn)(nil)

func New() *Conn {
	return &Conn{
		incoming: make(chan string, 64),
		more:     make(chan struct{}),
		closed:   make(chan struct{}),
	}
}

// Send records msg as sent to the client.
func (c *Conn) Send(msg string) {
	if c.IsClosed() {
		return
	}
	if c.SendDelay > 0 {
		time.Sleep(c.SendDelay)
	}

	c.µ.Lock()
	defer c.µ.Unlock()
	c.sent = append(c.sent, msg)
	close(c.more)
	c.more = make(chan struct{})
}

func (c *Conn) Receive(timeout time.Duration) (string, bool, error) {
	return conn.Poll(c.incoming, c.closed, timeout)
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
}

func (c *Conn) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// Write makes line available to the server's next Receive.
func (c *Conn) Write(line string) {
	c.incoming <- line
}

// Lines returns every line sent to the client so far.
func (c *Conn) Lines() []string {
	c.µ.Lock()
	defer c.µ.Unlock()
	return append([]string(nil), c.sent...)
}

// Next returns the oldest line not yet returned by Next, waiting up to timeout for it.
func (c *Conn) Next(timeout time.Duration) (string, bool) {
	deadline := time.After(timeout)
	for {
		c.µ.Lock()
		if c.read < len(c.sent) {
			line := c.sent[c.read]
			c.read++
			c.µ.Unlock()
			return line, true
		}
		more := c.more
		c.µ.Unlock()

		select {
		case <-more:
		case <-deadline:
			return "", false
		}
	}
}

// WaitClosed blocks until the connection is closed or timeout expires.
func (c *Conn) WaitClosed(timeout time.Duration) bool {
	select {
	case <-c.closed:
		return true
	case <-time.After(timeout):
		return false
	}
}
