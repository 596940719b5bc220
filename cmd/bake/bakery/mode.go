package bakery

import (
	"fmt"
	"strings"
)

// Mode selects what a bake produces.
type Mode string

const (
	Matchmove Mode = "matchmove"
	Stabilize Mode = "stabilize"
	Roto      Mode = "roto"
	CornerPin Mode = "cpin"
)

var Modes = []Mode{Matchmove, Stabilize, Roto, CornerPin}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown bake mode %q (want one of %v)", s, Modes)
}

// Description is the one line summary shown for the mode.
func (m Mode) Description() string {
	switch m {
	case Matchmove:
		return "Bake a Match Move"
	case Stabilize:
		return "Bake a Stabilize"
	case Roto:
		return "Bake a Roto|RotoPaint"
	case CornerPin:
		return "Bake a CornerPin"
	}
	return string(m)
}
