// Package optim searches scene parameters for the best value of a metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"maps"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/forcesim/internal/automation"
	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/dynamo"
	"github.com/san-kum/forcesim/internal/experiment"
)

// BuildFunc prepares an experiment for one point of the grid.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

// GridSearch tries every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the objective; by default the metric is minimised.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d params for %d ranges", dynamo.ErrInvalidConfig, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", dynamo.ErrInvalidConfig, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Size is the number of runs a full search takes.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point and returns the best parameters and metric
// value. Points whose build or run fails are skipped; cancellation stops the
// search and returns ctx.Err().
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("no grid point reported %q", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildFunc,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return ctx.Err()
		}
		val, ok := result.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			return nil
		}
		if (g.Maximize && val > *best) || (!g.Maximize && val < *best) {
			*best = val
			*bestParams = maps.Clone(current)
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, next, build, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// SceneBuilder applies grid parameters to copies of base and attaches the
// registry's default metrics.
func SceneBuilder(base *config.Config, registry *experiment.Registry) BuildFunc {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := automation.SetParam(cfg, name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(experiment.MetricOptions(registry.DefaultMetrics(cfg))...); err != nil {
			return nil, err
		}
		return exp, nil
	}
}
