// Package optim searches configuration settings for the best routine run.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var ErrAxis = errors.New("optim: bad axis")

// Objective scores one point of the grid. Lower is better. A point that
// returns an error is skipped.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type Result struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Failed    int
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d names for %d ranges", ErrAxis, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: %s has no values", ErrAxis, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of points in the grid.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every point and keeps the lowest. Value is +Inf when no
// point succeeded.
func (g *GridSearch) Search(ctx context.Context, obj Objective) (*Result, error) {
	res := &Result{Value: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), obj, res); err != nil {
		return res, err
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, obj Objective, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, err := obj(ctx, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			res.Failed++
			return nil
		}
		res.Evaluated++
		if val < res.Value || res.Params == nil {
			res.Value = val
			res.Params = make(map[string]float64, len(current))
			for k, v := range current {
				res.Params[k] = v
			}
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, obj, res); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// ParseAxis reads "name=lo:hi:n" or "name=v1,v2,...".
func ParseAxis(s string) (string, []float64, error) {
	name, rest, ok := strings.Cut(s, "=")
	if !ok || name == "" || rest == "" {
		return "", nil, fmt.Errorf("%w: %q, want name=lo:hi:n or name=v1,v2", ErrAxis, s)
	}

	if parts := strings.Split(rest, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err := errors.Join(err1, err2, err3); err != nil {
			return "", nil, fmt.Errorf("%w: %q: %v", ErrAxis, s, err)
		}
		if n < 1 {
			return "", nil, fmt.Errorf("%w: %q: need at least one point", ErrAxis, s)
		}
		return name, Span(lo, hi, n), nil
	}

	var vals []float64
	for _, f := range strings.Split(rest, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %q: %v", ErrAxis, s, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}
