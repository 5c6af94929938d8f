package catalog

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/example/chimera/internal/core/creature"
	"github.com/example/chimera/internal/core/mission"
	"github.com/example/chimera/internal/core/personnel"
	"github.com/example/chimera/internal/core/text"
)

// ParamType is the constraint a raw parameter value must satisfy.
type ParamType int

const (
	// ParamText is any non-empty string, trimmed.
	ParamText ParamType = iota
	// ParamName is a non-empty string, capitalized ("ana" -> "Ana").
	ParamName
	// ParamCode is a non-empty string, upper-cased.
	ParamCode
	// ParamID is a positive integer.
	ParamID
	// ParamCount is a non-negative integer.
	ParamCount
	// ParamAmount is a non-negative decimal.
	ParamAmount
	// ParamRank is a personnel.Rank.
	ParamRank
	// ParamMissionStatus is a mission.Status.
	ParamMissionStatus
	// ParamCreatureType is a creature.Type.
	ParamCreatureType
)

func (t ParamType) String() string {
	switch t {
	case ParamText:
		return "text"
	case ParamName:
		return "name"
	case ParamCode:
		return "code"
	case ParamID:
		return "id"
	case ParamCount:
		return "count"
	case ParamAmount:
		return "amount"
	case ParamRank:
		return "rank"
	case ParamMissionStatus:
		return "mission-status"
	case ParamCreatureType:
		return "creature-type"
	}
	return "unknown"
}

// Param declares one input of an operation.
type Param struct {
	Name     string
	Prompt   string
	Type     ParamType
	Optional bool
	Default  string
	// AppliesWhen limits the parameter to some inputs (e.g. only for Scientists).
	// It sees the raw values; nil means always.
	AppliesWhen func(raw map[string]string) bool
}

// Applies reports whether p is collected for the given raw values.
func (p Param) Applies(raw map[string]string) bool {
	return p.AppliesWhen == nil || p.AppliesWhen(raw)
}

// Args are validated, typed parameter values keyed by name.
// Optional parameters that were left blank are absent.
type Args map[string]any

// String returns a text parameter, or "".
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns an integer parameter, or 0.
func (a Args) Int(name string) int64 {
	n, _ := a[name].(int64)
	return n
}

// OptionalInt returns an integer parameter, or nil when it was left blank.
func (a Args) OptionalInt(name string) *int64 {
	n, ok := a[name].(int64)
	if !ok {
		return nil
	}
	return &n
}

// Float returns a decimal parameter, or 0.
func (a Args) Float(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

// Rank returns a rank parameter.
func (a Args) Rank(name string) personnel.Rank {
	r, _ := a[name].(personnel.Rank)
	return r
}

// MissionStatus returns a mission status parameter.
func (a Args) MissionStatus(name string) mission.Status {
	s, _ := a[name].(mission.Status)
	return s
}

// CreatureType returns a creature type parameter.
func (a Args) CreatureType(name string) creature.Type {
	t, _ := a[name].(creature.Type)
	return t
}

// Validate checks raw values against op's parameters in declaration order and
// returns the first failure as a *ValidationError.
func Validate(op *Operation, raw map[string]string) (Args, error) {
	declared := make(map[string]bool, len(op.Params))
	args := make(Args, len(op.Params))

	for _, p := range op.Params {
		declared[p.Name] = true
		if !p.Applies(raw) {
			continue
		}

		value := strings.TrimSpace(raw[p.Name])
		if value == "" {
			value = p.Default
		}
		if value == "" {
			if p.Optional {
				continue
			}
			return nil, &ValidationError{Param: p.Name, Reason: "is required"}
		}

		v, err := parseValue(p.Type, value)
		if err != nil {
			return nil, &ValidationError{Param: p.Name, Reason: err.Error()}
		}
		args[p.Name] = v
	}

	var unknown []string
	for name := range raw {
		if !declared[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{
			Param:  unknown[0],
			Reason: fmt.Sprintf("not a parameter of %s", op.ID),
		}
	}

	if op.Check != nil {
		if err := op.Check(args); err != nil {
			return nil, err
		}
	}

	return args, nil
}

func parseValue(t ParamType, value string) (any, error) {
	switch t {
	case ParamText:
		return value, nil
	case ParamName:
		return text.Capitalize(value), nil
	case ParamCode:
		return mission.NormalizeAssetCode(value), nil
	case ParamID:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", value)
		}
		if n <= 0 {
			return nil, fmt.Errorf("must be a positive id (got %d)", n)
		}
		return n, nil
	case ParamCount:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number", value)
		}
		if n < 0 {
			return nil, fmt.Errorf("must be non-negative (got %d)", n)
		}
		return n, nil
	case ParamAmount:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", value)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q is not a finite number", value)
		}
		if f < 0 {
			return nil, fmt.Errorf("must be non-negative (got %.2f)", f)
		}
		return f, nil
	case ParamRank:
		return personnel.ParseRank(value)
	case ParamMissionStatus:
		return mission.ParseStatus(value)
	case ParamCreatureType:
		return creature.ParseType(value)
	}
	return nil, fmt.Errorf("unsupported parameter type %s", t)
}

// whenRank limits a parameter to recruits of one rank.
func whenRank(rank personnel.Rank) func(map[string]string) bool {
	return func(raw map[string]string) bool {
		r, err := personnel.ParseRank(raw["rank"])
		return err == nil && r == rank
	}
}
