package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

var ErrMissingOption = errors.New("missing option")

// Options is the flat name → value configuration of a game. Values are strings or integers;
// integers may also be given as strings of digits.
type Options map[string]interface{}

func (o Options) Has(name string) bool {
	_, ok := o[name]
	return ok
}

func (o Options) String(name string) (string, error) {
	v, ok := o[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingOption, name)
	}

	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("option %s: expected string, got %T", name, v)
	}
}

func (o Options) Int(name string) (int, error) {
	v, ok := o[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingOption, name)
	}

	switch v := v.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// encoding/json decodes all numbers into float64
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("option %s: %v is not an integer", name, v)
		}
		return int(v), nil
	case json.Number:
		i, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, fmt.Errorf("option %s: %w", name, err)
		}
		return i, nil
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("option %s: %w", name, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("option %s: expected integer, got %T", name, v)
	}
}

// Millis reads an integer option as a duration in milliseconds.
func (o Options) Millis(name string) (time.Duration, error) {
	ms, err := o.Int(name)
	if err != nil {
		return 0, err
	}
	if ms < 0 {
		return 0, fmt.Errorf("option %s: negative duration %d", name, ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
