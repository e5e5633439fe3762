package model

import (
	"fmt"
	"strings"
)

// Level is one of the ordered approval stages.
type Level string

const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
	LevelL3 Level = "L3"
)

// Levels lists every approval stage in ascending order.
var Levels = []Level{LevelL1, LevelL2, LevelL3}

// levelLabelSuffix is how levels are persisted on approval level rows ("L1 Approval").
const levelLabelSuffix = " Approval"

// ParseLevel accepts "L1", "l1" or the persisted label "L1 Approval".
func ParseLevel(s string) (Level, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, strings.ToUpper(levelLabelSuffix))
	switch Level(v) {
	case LevelL1, LevelL2, LevelL3:
		return Level(v), nil
	}
	return "", fmt.Errorf("unknown approval level %q", s)
}

// Ordinal returns 1..3 for valid levels and 0 otherwise.
func (l Level) Ordinal() int {
	switch l {
	case LevelL1:
		return 1
	case LevelL2:
		return 2
	case LevelL3:
		return 3
	}
	return 0
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool { return l.Ordinal() > 0 }

// Label is the stored form of the level.
func (l Level) Label() string { return string(l) + levelLabelSuffix }

func (l Level) String() string { return string(l) }

// LevelFromOrdinal is the inverse of Ordinal.
func LevelFromOrdinal(n int) (Level, bool) {
	if n < 1 || n > len(Levels) {
		return "", false
	}
	return Levels[n-1], true
}
