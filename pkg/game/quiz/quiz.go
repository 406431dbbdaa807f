// Package quiz implements a word guessing game: players get a question and the length of the
// answer, and one more letter of the answer is revealed at a fixed interval until somebody
// guesses it or too many letters are revealed.
package quiz

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ivahaev/timer"

	"github.com/sauerbraten/croupier/pkg/game"
)

const (
	CmdStart = "!start"
	CmdStop  = "!stop"

	formatNewRound      = "New round started: %s (%d letters)"
	formatCurrentPrefix = "Current prefix is %s"
	formatWinner        = "The winner is %s"
	msgWrong            = "Wrong try"
	formatStopped       = "Game has been stopped by %s"
	formatNobody        = "Nobody guessed, the word was %s"
)

type Config struct {
	DictionaryFile       string
	MaxLettersToOpen     int
	DelayUntilNextLetter time.Duration
}

// ConfigFromOptions reads dictionary_file, max_letters_to_open and delay_until_next_letter (in
// milliseconds).
func ConfigFromOptions(opts game.Options) (conf Config, err error) {
	conf.DictionaryFile, err = opts.String("dictionary_file")
	if err != nil {
		return
	}
	conf.MaxLettersToOpen, err = opts.Int("max_letters_to_open")
	if err != nil {
		return
	}
	if conf.MaxLettersToOpen < 0 {
		err = fmt.Errorf("option max_letters_to_open: negative value %d", conf.MaxLettersToOpen)
		return
	}
	conf.DelayUntilNextLetter, err = opts.Millis("delay_until_next_letter")
	return
}

type Game struct {
	s    game.Server
	conf Config

	// guards everything below; held for the whole of every transition, including the sends
	µ          sync.Mutex
	questions  []Question
	current    int
	revealed   int // number of answer letters revealed in the current round
	running    bool
	generation uint64 // a scheduled reveal only fires if this did not change since scheduling
}

var _ game.Game = (*Game)(nil)

func New(s game.Server, conf Config) *Game {
	return &Game{
		s:    s,
		conf: conf,
	}
}

// FromOptions is the game.Constructor of the quiz.
func FromOptions(s game.Server, opts game.Options) (game.Game, error) {
	conf, err := ConfigFromOptions(opts)
	if err != nil {
		return nil, err
	}
	return New(s, conf), nil
}

// OnPlayerConnected brings a player joining mid-round up to date.
func (g *Game) OnPlayerConnected(id string) {
	g.µ.Lock()
	defer g.µ.Unlock()

	if !g.running {
		return
	}

	g.s.SendTo(id, g.roundBanner())
	for i := 1; i <= g.revealed; i++ {
		g.s.SendTo(id, fmt.Sprintf(formatCurrentPrefix, g.prefix(i)))
	}
}

func (g *Game) OnPlayerSentMsg(id, msg string) {
	if strings.HasPrefix(msg, "!") {
		g.handleCommand(id, msg)
		return
	}

	g.µ.Lock()
	defer g.µ.Unlock()

	if !g.running {
		return
	}

	if msg != g.questions[g.current].Answer {
		g.s.SendTo(id, msgWrong)
		return
	}

	g.generation++
	g.s.Broadcast(fmt.Sprintf(formatWinner, id))
	g.nextRound()
}

func (g *Game) handleCommand(id, cmd string) {
	switch cmd {
	case CmdStart:
		if err := g.Start(id); err != nil {
			log.Printf("quiz: %s could not start the game: %v", id, err)
		}
	case CmdStop:
		g.Stop(id)
	}
}

// Start loads the dictionary and starts the first round. It does nothing if the game is already
// running. If the dictionary can not be read, the game stays stopped.
func (g *Game) Start(by string) error {
	g.µ.Lock()
	defer g.µ.Unlock()

	if g.running {
		return nil
	}

	questions, err := LoadDictionary(g.conf.DictionaryFile)
	if err != nil {
		return err
	}

	g.questions = questions
	g.current = 0
	g.running = true
	g.startRound()

	log.Printf("quiz: started by %s with %d questions", by, len(questions))
	return nil
}

// Stop ends the game if it is running.
func (g *Game) Stop(by string) {
	g.µ.Lock()
	defer g.µ.Unlock()

	if !g.running {
		return
	}

	g.generation++
	g.s.Broadcast(fmt.Sprintf(formatStopped, by))
	g.running = false
}

// Close cancels a pending reveal without telling anyone.
func (g *Game) Close() error {
	g.µ.Lock()
	defer g.µ.Unlock()
	g.generation++
	g.running = false
	return nil
}

// Running reports whether a round is in progress.
func (g *Game) Running() bool {
	g.µ.Lock()
	defer g.µ.Unlock()
	return g.running
}

// must hold g.µ
func (g *Game) nextRound() {
	g.current = (g.current + 1) % len(g.questions)
	g.startRound()
}

// must hold g.µ
func (g *Game) startRound() {
	g.revealed = 0
	g.generation++
	g.s.Broadcast(g.roundBanner())
	g.scheduleReveal()
}

// must hold g.µ
func (g *Game) scheduleReveal() {
	gen := g.generation
	t := timer.AfterFunc(g.conf.DelayUntilNextLetter, func() { g.reveal(gen) })
	t.Start()
}

func (g *Game) reveal(gen uint64) {
	g.µ.Lock()
	defer g.µ.Unlock()

	if gen != g.generation {
		// round was won, stopped or already advanced
		return
	}
	g.generation++

	g.revealed++
	if g.revealed > g.conf.MaxLettersToOpen {
		g.s.Broadcast(fmt.Sprintf(formatNobody, g.questions[g.current].Answer))
		g.nextRound()
		return
	}

	g.s.Broadcast(fmt.Sprintf(formatCurrentPrefix, g.prefix(g.revealed)))
	g.scheduleReveal()
}

// must hold g.µ
func (g *Game) roundBanner() string {
	q := g.questions[g.current]
	return fmt.Sprintf(formatNewRound, q.Question, len([]rune(q.Answer)))
}

// returns the first n letters of the current answer; must hold g.µ
func (g *Game) prefix(n int) string {
	answer := []rune(g.questions[g.current].Answer)
	if n > len(answer) {
		n = len(answer)
	}
	return string(answer[:n])
}
