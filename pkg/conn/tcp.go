package conn

import (
	"bufio"
	"net"
	"sync"
	"time"
)

const tcpWriteWait = 10 * time.Second

// TCP is a Conn over a TCP connection carrying newline-terminated lines.
type TCP struct {
	c *net.TCPConn

	µ        sync.Mutex // serializes writes
	incoming chan string

	closed    chan struct{}
	closeOnce sync.Once
}

// NewTCP starts reading lines from c.
func NewTCP(c *net.TCPConn) *TCP {
	c.SetKeepAlive(true)
	c.SetKeepAlivePeriod(2 * time.Minute)

	t := &TCP{
		c:        c,
		incoming: make(chan string),
		closed:   make(chan struct{}),
	}
	go t.ingest()
	return t
}

func (t *TCP) ingest() {
	defer t.Close()

	sc := bufio.NewScanner(t.c)
	for sc.Scan() {
		select {
		case t.incoming <- trimCR(sc.Text()):
		case <-t.closed:
			return
		}
	}
}

func trimCR(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}

func (t *TCP) RemoteAddr() net.Addr { return t.c.RemoteAddr() }

// Send writes msg and a newline before returning.
func (t *TCP) Send(msg string) {
	if t.IsClosed() {
		return
	}

	t.µ.Lock()
	defer t.µ.Unlock()

	t.c.SetWriteDeadline(time.Now().Add(tcpWriteWait))
	if _, err := t.c.Write([]byte(msg + "\n")); err != nil {
		t.closeOnce.Do(t.shutdown)
	}
}

func (t *TCP) Receive(timeout time.Duration) (string, bool, error) {
	return Poll(t.incoming, t.closed, timeout)
}

func (t *TCP) Close() {
	t.closeOnce.Do(t.shutdown)
}

func (t *TCP) shutdown() {
	close(t.closed)
	t.c.Close()
}

func (t *TCP) IsClosed() bool {
	select {
	case <-t.closed:
		return true
	default:
		return false
	}
}
