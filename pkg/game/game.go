// Package game defines the contract between the connection dispatcher and round-based games.
package game

// Game is called by one goroutine per connection, concurrently. Implementations synchronize
// their own state.
type Game interface {
	// OnPlayerConnected is called exactly once per connection, before any OnPlayerSentMsg for
	// the same id.
	OnPlayerConnected(id string)

	// OnPlayerSentMsg is called once for every line received from the player.
	OnPlayerSentMsg(id, msg string)
}

// Server is what a game uses to talk to players. Both methods only queue the message and never
// block on I/O, so they may be called while holding a game's lock.
type Server interface {
	SendTo(id, msg string)
	Broadcast(msg string)
}
