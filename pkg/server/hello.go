package server

import "github.com/sauerbraten/croupier/pkg/conn"

const HelloMessage = "Hello world"

// Hello greets every connection and hangs up.
type Hello struct{}

func (Hello) Accept(c conn.Conn) {
	go func() {
		c.Send(HelloMessage)
		c.Close()
	}()
}
