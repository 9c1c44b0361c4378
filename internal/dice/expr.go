package dice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprRe = regexp.MustCompile(`^(\d*)d(\d+)(\s*([+-])\s*(\d+))?$`)

// ErrBadExpr is returned for strings that are neither an int nor NdM[+-K].
var ErrBadExpr = errors.New("dice: bad expression")

// Expr is a parsed dice expression such as "2d6", "d6+1" or "3".
type Expr struct {
	Count    int
	Sides    int
	Modifier int
}

// ParseExpr parses a dice expression. A bare integer parses as a constant.
func ParseExpr(input string) (Expr, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return Expr{}, fmt.Errorf("%w: empty", ErrBadExpr)
	}
	m := exprRe.FindStringSubmatch(input)
	if m == nil {
		n, err := strconv.Atoi(input)
		if err != nil {
			return Expr{}, fmt.Errorf("%w: %q", ErrBadExpr, input)
		}
		return Expr{Modifier: n}, nil
	}
	count := 1
	if m[1] != "" {
		count, _ = strconv.Atoi(m[1])
	}
	sides, _ := strconv.Atoi(m[2])
	if count < 1 || sides < 1 {
		return Expr{}, fmt.Errorf("%w: %q", ErrBadExpr, input)
	}
	mod := 0
	if m[5] != "" {
		mod, _ = strconv.Atoi(m[5])
		if m[4] == "-" {
			mod = -mod
		}
	}
	return Expr{Count: count, Sides: sides, Modifier: mod}, nil
}

// Constant reports whether the expression rolls no dice.
func (e Expr) Constant() bool { return e.Count == 0 }

// Eval rolls the expression. Results below zero are clamped to zero.
func (e Expr) Eval(r Roller) int {
	total := e.Modifier
	if e.Count > 0 {
		total += r.Roll(e.Count, e.Sides)
	}
	if total < 0 {
		total = 0
	}
	return total
}

// Max returns the highest value the expression can produce.
func (e Expr) Max() int {
	return e.Count*e.Sides + e.Modifier
}

func (e Expr) String() string {
	if e.Constant() {
		return strconv.Itoa(e.Modifier)
	}
	s := fmt.Sprintf("%dd%d", e.Count, e.Sides)
	switch {
	case e.Modifier > 0:
		s += fmt.Sprintf("+%d", e.Modifier)
	case e.Modifier < 0:
		s += fmt.Sprintf("%d", e.Modifier)
	}
	return s
}
