package game

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownGame = errors.New("unknown game")

// Constructor builds a game talking to s, configured by opts.
type Constructor func(s Server, opts Options) (Game, error)

// Registry maps game names to constructors.
type Registry map[string]Constructor

func (r Registry) New(name string, s Server, opts Options) (Game, error) {
	newGame, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownGame, name, r.Names())
	}

	g, err := newGame(s, opts)
	if err != nil {
		return nil, fmt.Errorf("setting up %s: %w", name, err)
	}

	return g, nil
}

func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
