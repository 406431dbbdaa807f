// Package sum implements a game where players race to add two random numbers.
package sum

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"sync"

	"github.com/sauerbraten/croupier/pkg/game"
)

const (
	DefaultSeed = 0xDEADBEEF

	// operands are drawn from [0, Bound)
	Bound = 1000000000

	msgRight = "Right"
	msgWrong = "Wrong"
)

var number = regexp.MustCompile(`^-?\d+$`)

type Config struct {
	Seed int64
}

// ConfigFromOptions reads the optional seed.
func ConfigFromOptions(opts game.Options) (Config, error) {
	if !opts.Has("seed") {
		return Config{Seed: DefaultSeed}, nil
	}
	seed, err := opts.Int("seed")
	if err != nil {
		return Config{}, err
	}
	return Config{Seed: int64(seed)}, nil
}

type Game struct {
	s game.Server

	µ    sync.RWMutex
	rng  *rand.Rand
	a, b int64
}

var _ game.Game = (*Game)(nil)

// New draws the first round right away.
func New(s game.Server, conf Config) *Game {
	g := &Game{
		s:   s,
		rng: rand.New(rand.NewSource(conf.Seed)),
	}

	g.µ.Lock()
	g.nextRound()
	g.µ.Unlock()

	return g
}

// FromOptions is the game.Constructor of the sum game.
func FromOptions(s game.Server, opts game.Options) (game.Game, error) {
	conf, err := ConfigFromOptions(opts)
	if err != nil {
		return nil, err
	}
	return New(s, conf), nil
}

func (g *Game) OnPlayerConnected(id string) {
	g.µ.RLock()
	defer g.µ.RUnlock()
	g.s.SendTo(id, g.task())
}

// OnPlayerSentMsg checks an answer. Anything that is not an integer is ignored.
func (g *Game) OnPlayerSentMsg(id, msg string) {
	if !number.MatchString(msg) {
		return
	}
	answer, err := strconv.ParseInt(msg, 10, 64)
	if err != nil {
		// out of range
		return
	}

	// compare and advance under one lock, so that every round is won once
	g.µ.Lock()
	defer g.µ.Unlock()

	if answer != g.a+g.b {
		g.s.SendTo(id, msgWrong)
		return
	}

	g.s.SendTo(id, msgRight)
	g.nextRound()
}

// Operands returns the numbers of the current round.
func (g *Game) Operands() (a, b int64) {
	g.µ.RLock()
	defer g.µ.RUnlock()
	return g.a, g.b
}

// must hold g.µ for writing
func (g *Game) nextRound() {
	g.a = g.rng.Int63n(Bound)
	g.b = g.rng.Int63n(Bound)
	g.s.Broadcast(g.task())
}

// must hold g.µ
func (g *Game) task() string {
	return fmt.Sprintf("%d %d", g.a, g.b)
}
