package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sauerbraten/croupier/pkg/game"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0o644))
	return fileName
}

func TestParseConfig(t *testing.T) {
	conf, err := parseConfig(writeConfig(t, `// quiz on the default port
{
	"game": "quiz",
	"game_options": {
		"dictionary_file": "questions.txt",
		"max_letters_to_open": 2,
		"delay_until_next_letter": 500
	},
	"http_listen_address": "localhost:8080"
}
`))
	require.NoError(t, err)

	assert.Equal(t, 28800, conf.ListenPort)
	assert.Equal(t, modeGame, conf.Mode)
	assert.Equal(t, "quiz", conf.Game)
	assert.Equal(t, "localhost:8080", conf.HTTPListenAddress)
	assert.Equal(t, "croupier.broadcasts", conf.EventsSubject)

	n, err := conf.GameOptions.Int("max_letters_to_open")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = games.New(conf.Game, nopServer{}, conf.GameOptions)
	assert.NoError(t, err)
}

func TestParseConfigHelloMode(t *testing.T) {
	conf, err := parseConfig(writeConfig(t, `{"mode": "hello", "listen_port": 1234}`))
	require.NoError(t, err)
	assert.Equal(t, modeHello, conf.Mode)
	assert.Equal(t, 1234, conf.ListenPort)
	assert.Equal(t, game.Options{}, conf.GameOptions)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := parseConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = parseConfig(writeConfig(t, `{"mode": "game"}`))
	assert.ErrorContains(t, err, "no game configured")

	_, err = parseConfig(writeConfig(t, `{"mode": "poker"}`))
	assert.ErrorContains(t, err, "unknown mode")
}

type nopServer struct{}

func (nopServer) SendTo(string, string) {}
func (nopServer) Broadcast(string)      {}
