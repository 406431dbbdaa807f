// Package events publishes everything a game broadcasts, so that other services can follow the
// game without connecting as a player.
package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sauerbraten/croupier/pkg/game"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Event struct {
	Origin string    `json:"origin"` // identifies this server process
	Game   string    `json:"game"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
}

// Mirror is a game.Server that passes every call on to the wrapped server and additionally
// publishes broadcasts.
type Mirror struct {
	game.Server
	pub      Publisher
	subject  string
	gameName string
	origin   string
}

var _ game.Server = (*Mirror)(nil)

func NewMirror(s game.Server, pub Publisher, subject, gameName string) *Mirror {
	return &Mirror{
		Server:   s,
		pub:      pub,
		subject:  subject,
		gameName: gameName,
		origin:   uuid.NewString(),
	}
}

func (m *Mirror) Origin() string { return m.origin }

func (m *Mirror) Broadcast(msg string) {
	m.Server.Broadcast(msg)

	data, err := json.Marshal(Event{
		Origin: m.origin,
		Game:   m.gameName,
		Text:   msg,
		Time:   time.Now().UTC(),
	})
	if err != nil {
		log.Println("encoding event:", err)
		return
	}

	// nats.Conn.Publish only buffers, so this does not block the game
	if err := m.pub.Publish(m.subject, data); err != nil {
		log.Printf("publishing to %s: %v", m.subject, err)
	}
}
