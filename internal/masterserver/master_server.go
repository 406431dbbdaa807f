// Package masterserver announces the server to a master server and takes global bans from it.
package masterserver

import (
	"context"
	"log"
	"time"

	"github.com/sauerbraten/maitred/v2/pkg/client"

	"github.com/sauerbraten/croupier/pkg/bans"
)

const reregisterInterval = 1 * time.Hour

// Connect registers the server listening on listenPort with the master server at addr, in the
// background, until ctx is done. Bans sent by the master server are added to bm.
func Connect(ctx context.Context, addr string, listenPort int, bm *bans.BanManager) {
	register := func(c *client.Client) { c.Register(listenPort) }

	c, authInc, _, bansInc := client.New(addr, register, register)

	go bm.Handle(bansInc)

	// this server has no accounts, so auth challenges are never requested and need no answer
	go func() {
		for msg := range authInc {
			log.Println("ignoring auth message from master server:", msg)
		}
	}()

	go func() {
		t := time.NewTicker(reregisterInterval)
		defer t.Stop()
		for {
			select {
			case msg := <-c.Incoming():
				c.Handle(msg)
			case <-t.C:
				go c.Register(listenPort)
			case <-ctx.Done():
				return
			}
		}
	}()

	go c.Start()

	log.Println("registering with master server", addr)
}
