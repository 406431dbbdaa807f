// Package tcplisten accepts line-protocol clients over TCP.
package tcplisten

import (
	"context"
	"errors"
	"log"
	"net"

	"github.com/sauerbraten/croupier/pkg/bans"
	"github.com/sauerbraten/croupier/pkg/conn"
	"github.com/sauerbraten/croupier/pkg/server"
)

// Serve accepts connections on l and hands them to a until ctx is done or l fails. Clients from
// networks banned in bm are told why and disconnected; bm may be nil.
func Serve(ctx context.Context, l *net.TCPListener, a server.Acceptor, bm *bans.BanManager) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()

	for {
		tcpConn, err := l.AcceptTCP()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return err
		}

		if bm != nil {
			if ban, banned := bm.GetBan(remoteIP(tcpConn)); banned {
				log.Printf("rejected %s: %v", tcpConn.RemoteAddr(), ban)
				c := conn.NewTCP(tcpConn)
				c.Send(BannedMessage(ban))
				c.Close()
				continue
			}
		}

		a.Accept(conn.NewTCP(tcpConn))
	}
}

// BannedMessage is the only line a banned client receives.
func BannedMessage(ban *bans.Ban) string {
	return "You are banned: " + ban.Reason
}

func remoteIP(c net.Conn) net.IP {
	if addr, ok := c.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP
	}
	return nil
}
