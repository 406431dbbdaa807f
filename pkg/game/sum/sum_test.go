package sum

import (
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauerbraten/croupier/pkg/game"
)

type sent struct{ to, msg string }

type recorder struct {
	µ    sync.Mutex
	msgs []sent
}

func (r *recorder) SendTo(id, msg string) { r.add(sent{id, msg}) }
func (r *recorder) Broadcast(msg string)  { r.add(sent{"*", msg}) }

func (r *recorder) add(s sent) {
	r.µ.Lock()
	r.msgs = append(r.msgs, s)
	r.µ.Unlock()
}

func (r *recorder) take() []sent {
	r.µ.Lock()
	defer r.µ.Unlock()
	msgs := r.msgs
	r.msgs = nil
	return msgs
}

func sum(g *Game) string {
	a, b := g.Operands()
	return strconv.FormatInt(a+b, 10)
}

func TestDeterministicOperands(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	r := &recorder{}
	g := New(r, Config{Seed: 42})

	for round := 0; round < 5; round++ {
		a, b := g.Operands()
		assert.Equal(t, rng.Int63n(Bound), a)
		assert.Equal(t, rng.Int63n(Bound), b)
		assert.True(t, a >= 0 && a < Bound && b >= 0 && b < Bound)

		g.OnPlayerSentMsg("0", sum(g))
	}

	other := New(&recorder{}, Config{Seed: 42})
	first := New(&recorder{}, Config{Seed: 42})
	a1, b1 := first.Operands()
	a2, b2 := other.Operands()
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestRound(t *testing.T) {
	r := &recorder{}
	g := New(r, Config{Seed: DefaultSeed})

	a, b := g.Operands()
	task := strconv.FormatInt(a, 10) + " " + strconv.FormatInt(b, 10)
	assert.Equal(t, []sent{{"*", task}}, r.take())

	g.OnPlayerConnected("3")
	assert.Equal(t, []sent{{"3", task}}, r.take())

	g.OnPlayerSentMsg("3", strconv.FormatInt(a+b+1, 10))
	assert.Equal(t, []sent{{"3", "Wrong"}}, r.take())

	g.OnPlayerSentMsg("3", strconv.FormatInt(a+b, 10))
	msgs := r.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, sent{"3", "Right"}, msgs[0])

	na, nb := g.Operands()
	assert.Equal(t, sent{"*", strconv.FormatInt(na, 10) + " " + strconv.FormatInt(nb, 10)}, msgs[1])
}

func TestIgnoresNonIntegers(t *testing.T) {
	r := &recorder{}
	g := New(r, Config{Seed: 1})
	r.take()
	a, b := g.Operands()

	for _, msg := range []string{"", "abc", "1.5", " 3", "3 ", "+3", "1e3", "99999999999999999999"} {
		g.OnPlayerSentMsg("0", msg)
	}

	assert.Empty(t, r.take())
	na, nb := g.Operands()
	assert.Equal(t, a, na)
	assert.Equal(t, b, nb)
}

func TestConcurrentCorrectAnswersAdvanceOnce(t *testing.T) {
	const players = 20

	r := &recorder{}
	g := New(r, Config{Seed: 7})
	r.take()
	answer := sum(g)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			g.OnPlayerSentMsg(id, answer)
		}(strconv.Itoa(i))
	}
	close(start)
	wg.Wait()

	var right, wrong, rounds int
	for _, m := range r.take() {
		switch {
		case m.to == "*":
			rounds++
		case m.msg == "Right":
			right++
		case m.msg == "Wrong":
			wrong++
		}
	}

	assert.Equal(t, 1, right)
	assert.Equal(t, players-1, wrong)
	assert.Equal(t, 1, rounds)
}

func TestConfigFromOptions(t *testing.T) {
	conf, err := ConfigFromOptions(game.Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultSeed), conf.Seed)

	conf, err = ConfigFromOptions(game.Options{"seed": float64(12345)})
	require.NoError(t, err)
	assert.Equal(t, int64(12345), conf.Seed)

	_, err = ConfigFromOptions(game.Options{"seed": "not a number"})
	assert.Error(t, err)
}
