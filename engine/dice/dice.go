// Package dice evaluates standard dice notation ("1d6", "2d8+1") into results.
// Pure functions over an injected Roller, no package-level state.
package dice

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/chicocaine/game-master-ai/types"
)

// Roller produces a random integer in [1, sides]. The engine's seeded RNG
// satisfies this; tests use scripted rollers.
type Roller interface {
	Roll(sides int) int
}

// Expr is a parsed dice expression: Count dice of Sides sides plus Modifier.
type Expr struct {
	Count    int
	Sides    int
	Modifier int
}

var exprPattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Parse parses notation like "2d8+1" into an Expr.
func Parse(s string) (Expr, error) {
	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return Expr{}, fmt.Errorf("invalid dice notation %q", s)
	}
	count, _ := strconv.Atoi(m[1])
	sides, _ := strconv.Atoi(m[2])
	modifier := 0
	if m[3] != "" {
		modifier, _ = strconv.Atoi(m[3])
	}
	if count < 1 || sides < 1 {
		return Expr{}, fmt.Errorf("invalid dice notation %q: count and sides must be positive", s)
	}
	return Expr{Count: count, Sides: sides, Modifier: modifier}, nil
}

// Roll evaluates a dice expression with the given roller.
func Roll(expr string, r Roller) (types.DiceOutcome, error) {
	e, err := Parse(expr)
	if err != nil {
		return types.DiceOutcome{}, err
	}
	rolls := make([]int, e.Count)
	total := e.Modifier
	for i := range rolls {
		rolls[i] = r.Roll(e.Sides)
		total += rolls[i]
	}
	return types.DiceOutcome{
		Expression: expr,
		Rolls:      rolls,
		Modifier:   e.Modifier,
		Total:      total,
	}, nil
}

// D20 rolls a single twenty-sided die.
func D20(r Roller) int {
	return r.Roll(20)
}
