package main

import (
	"fmt"

	"github.com/sauerbraten/jsonfile"

	"github.com/sauerbraten/croupier/pkg/game"
)

const (
	modeGame  = "game"
	modeHello = "hello"
)

type Config struct {
	ListenAddress     string `json:"listen_address"`
	ListenPort        int    `json:"listen_port"`
	HTTPListenAddress string `json:"http_listen_address"` // serves /ws and /status; empty disables

	Mode        string       `json:"mode"` // "game" or "hello"
	Game        string       `json:"game"`
	GameOptions game.Options `json:"game_options"`

	BansFile            string `json:"bans_file"`
	MasterServerAddress string `json:"master_server_address"`

	NATSURL       string `json:"nats_url"`
	EventsSubject string `json:"events_subject"`
}

func parseConfig(fileName string) (*Config, error) {
	conf := &Config{
		ListenPort:    28800,
		Mode:          modeGame,
		EventsSubject: "croupier.broadcasts",
	}

	err := jsonfile.ParseFile(fileName, conf)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	switch conf.Mode {
	case modeGame:
		if conf.Game == "" {
			return nil, fmt.Errorf("%s: no game configured", fileName)
		}
	case modeHello:
	default:
		return nil, fmt.Errorf("%s: unknown mode %q", fileName, conf.Mode)
	}

	if conf.GameOptions == nil {
		conf.GameOptions = game.Options{}
	}

	return conf, nil
}
