// Package personnel contains the pure business logic for personnel operations.
// This is part of the Functional Core - no I/O, only pure functions.
package personnel

import (
	"fmt"
	"strings"

	"github.com/example/chimera/internal/core/text"
)

// Rank is the closed set of personnel ranks. Every PERSONNEL row carries
// exactly one subtype row (GRUNT, SCIENTIST or BOSS) matching its rank.
type Rank string

const (
	RankBoss      Rank = "Boss"
	RankGrunt     Rank = "Grunt"
	RankScientist Rank = "Scientist"
)

// Ranks returns every valid rank in display order.
func Ranks() []Rank {
	return []Rank{RankBoss, RankGrunt, RankScientist}
}

// ParseRank normalizes raw input ("grunt", " SCIENTIST ") and checks it
// against the closed set.
func ParseRank(raw string) (Rank, error) {
	r := Rank(text.Capitalize(raw))
	switch r {
	case RankBoss, RankGrunt, RankScientist:
		return r, nil
	}
	return "", fmt.Errorf("%q is not a rank (valid: %s)", strings.TrimSpace(raw), joinRanks())
}

func joinRanks() string {
	parts := make([]string, 0, 3)
	for _, r := range Ranks() {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ", ")
}
