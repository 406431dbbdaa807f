package game_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauerbraten/croupier/pkg/game"
)

func TestOptionsInt(t *testing.T) {
	opts := game.Options{
		"int":     3,
		"int64":   int64(4),
		"float":   float64(500),
		"number":  json.Number("6"),
		"digits":  "7",
		"half":    1.5,
		"word":    "seven",
		"boolean": true,
	}

	for name, want := range map[string]int{"int": 3, "int64": 4, "float": 500, "number": 6, "digits": 7} {
		got, err := opts.Int(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"half", "word", "boolean"} {
		_, err := opts.Int(name)
		assert.Error(t, err, name)
	}

	_, err := opts.Int("absent")
	assert.ErrorIs(t, err, game.ErrMissingOption)
}

func TestOptionsString(t *testing.T) {
	opts := game.Options{"file": "questions.txt", "count": 2}

	s, err := opts.String("file")
	require.NoError(t, err)
	assert.Equal(t, "questions.txt", s)

	_, err = opts.String("count")
	assert.Error(t, err)

	_, err = opts.String("absent")
	assert.ErrorIs(t, err, game.ErrMissingOption)
}

func TestOptionsMillis(t *testing.T) {
	opts := game.Options{"delay": "500", "negative": -1}

	d, err := opts.Millis("delay")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)

	_, err = opts.Millis("negative")
	assert.Error(t, err)
}
