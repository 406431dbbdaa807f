package masterserver

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauerbraten/croupier/pkg/bans"
)

func TestConnect(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	registered := make(chan string, 1)
	go func() {
		c, err := l.Accept()
		if err != nil {
			return
		}
		defer c.Close()

		line, err := bufio.NewReader(c).ReadString('\n')
		if err != nil {
			return
		}
		registered <- line

		c.Write([]byte("succreg\naddgban 20.30.\n"))
		time.Sleep(time.Second)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bm := bans.New()
	Connect(ctx, l.Addr().String(), 28800, bm)

	select {
	case line := <-registered:
		assert.Equal(t, "regserv 28800\n", line)
	case <-time.After(2 * time.Second):
		t.Fatal("server never registered")
	}

	assert.Eventually(t, func() bool {
		ban, ok := bm.GetBan(net.ParseIP("20.30.40.50"))
		return ok && ban.Reason == "gban"
	}, 2*time.Second, 10*time.Millisecond)
}
