// Package server registers connections under sequential ids and dispatches their lines to a game.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"

	"github.com/sauerbraten/croupier/pkg/conn"
	"github.com/sauerbraten/croupier/pkg/game"
)

// Acceptor takes ownership of new connections.
type Acceptor interface {
	Accept(conn.Conn)
}

// Server is the registry of connected players and the game.Server the game sends through.
type Server struct {
	game game.Game

	µ       sync.RWMutex
	clients map[string]*handler
	nextID  int
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var (
	_ Acceptor    = (*Server)(nil)
	_ game.Server = (*Server)(nil)
)

// New creates a server and, by calling newGame with it, the game it dispatches to.
func New(newGame func(game.Server) (game.Game, error)) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		clients: map[string]*handler{},
		ctx:     ctx,
		cancel:  cancel,
	}

	g, err := newGame(s)
	if err != nil {
		cancel()
		return nil, err
	}
	s.game = g

	return s, nil
}

func (s *Server) Game() game.Game { return s.game }

// Accept registers c under the next free id, sends the id to c and starts serving it.
func (s *Server) Accept(c conn.Conn) {
	s.µ.Lock()
	if s.closed {
		s.µ.Unlock()
		c.Close()
		return
	}
	id := strconv.Itoa(s.nextID)
	s.nextID++
	h := newHandler(id, c)
	s.clients[id] = h
	s.wg.Add(1)
	s.µ.Unlock()

	// the game may send to the new player right away, so the write lock must be released here
	h.sendDirect(id)
	if addr, ok := c.(interface{ RemoteAddr() net.Addr }); ok {
		log.Printf("join: %s (%s)", id, addr.RemoteAddr())
	} else {
		log.Printf("join: %s", id)
	}
	s.game.OnPlayerConnected(id)

	go func() {
		defer s.wg.Done()
		h.run(s.ctx, s.game.OnPlayerSentMsg)
		if s.ctx.Err() != nil {
			h.flush()
			c.Close()
		}
		s.remove(h)
	}()
}

func (s *Server) remove(h *handler) {
	s.µ.Lock()
	delete(s.clients, h.id)
	s.µ.Unlock()
	log.Printf("left: %s", h.id)
}

// SendTo queues msg for the player with the given id. Messages to players that already left are
// dropped; an id that was never handed out is a bug in the caller and panics.
func (s *Server) SendTo(id, msg string) {
	s.µ.RLock()
	defer s.µ.RUnlock()

	h, ok := s.clients[id]
	if !ok {
		if s.issued(id) {
			return
		}
		panic(fmt.Sprintf("server: send to unknown client %q", id))
	}
	h.enqueue(msg)
}

// not safe for concurrent use
func (s *Server) issued(id string) bool {
	n, err := strconv.Atoi(id)
	return err == nil && n >= 0 && n < s.nextID && strconv.Itoa(n) == id
}

// Broadcast queues msg for every connected player.
func (s *Server) Broadcast(msg string) {
	s.µ.RLock()
	defer s.µ.RUnlock()

	for _, h := range s.clients {
		h.enqueue(msg)
	}
}

// NumClients returns the number of connected players.
func (s *Server) NumClients() int {
	s.µ.RLock()
	defer s.µ.RUnlock()
	return len(s.clients)
}

// Close stops accepting players, delivers what is still queued and closes all connections.
func (s *Server) Close() {
	s.µ.Lock()
	if s.closed {
		s.µ.Unlock()
		return
	}
	s.closed = true
	s.µ.Unlock()

	s.cancel()
	s.wg.Wait()
}
