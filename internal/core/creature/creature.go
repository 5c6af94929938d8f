// Package creature contains the pure business logic for creature (Pokemon) records.
// This is part of the Functional Core - no I/O, only pure functions.
package creature

import (
	"fmt"
	"strings"

	"github.com/example/chimera/internal/core/text"
)

// Type is a pre-approved creature type.
type Type string

const (
	TypeNormal   Type = "Normal"
	TypeFire     Type = "Fire"
	TypeWater    Type = "Water"
	TypeGrass    Type = "Grass"
	TypeElectric Type = "Electric"
	TypeIce      Type = "Ice"
	TypeFighting Type = "Fighting"
	TypePoison   Type = "Poison"
	TypeGround   Type = "Ground"
	TypeFlying   Type = "Flying"
	TypePsychic  Type = "Psychic"
	TypeBug      Type = "Bug"
	TypeRock     Type = "Rock"
	TypeGhost    Type = "Ghost"
	TypeDragon   Type = "Dragon"
	TypeSteel    Type = "Steel"
	TypeDark     Type = "Dark"
	TypeFairy    Type = "Fairy"
)

var approved = []Type{
	TypeNormal, TypeFire, TypeWater, TypeGrass, TypeElectric, TypeIce,
	TypeFighting, TypePoison, TypeGround, TypeFlying, TypePsychic, TypeBug,
	TypeRock, TypeGhost, TypeDragon, TypeSteel, TypeDark, TypeFairy,
}

// ParseType normalizes raw input ("fire") and rejects anything off the approved list.
func ParseType(raw string) (Type, error) {
	s := text.Capitalize(raw)
	for _, t := range approved {
		if Type(s) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%q is not a pre-approved creature type", strings.TrimSpace(raw))
}

// Stats are a creature's base combat numbers.
type Stats struct {
	HP      int64
	Attack  int64
	Defense int64
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanRegister evaluates whether a new creature can be inserted.
// Rule: a name is required and no stat may be negative.
func CanRegister(name string, stats Stats) GuardResult {
	if strings.TrimSpace(name) == "" {
		return GuardResult{Allowed: false, Reason: "creature name is required"}
	}
	if stats.HP < 0 || stats.Attack < 0 || stats.Defense < 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("stats must be non-negative (got %d/%d/%d)", stats.HP, stats.Attack, stats.Defense),
		}
	}
	return GuardResult{Allowed: true}
}
