package entropy

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Strategy names the binning method that produced a Discretized column
type Strategy string

const (
	StrategyQuantile   Strategy = "quantile"
	StrategyEqualWidth Strategy = "equal_width"
)

// DefaultBins is the bin count used when none is configured
const DefaultBins = 4

var (
	// ErrInvalidBins means the bin count is below one
	ErrInvalidBins = errors.New("bin count must be at least 1")
	// ErrNaNValue means the column holds a missing value
	ErrNaNValue = errors.New("cannot discretize NaN values")
)

// Discretized is a numeric column mapped onto ordered, right-closed bins.
// Assignments[i] is the bin of the i-th input value.
type Discretized struct {
	Strategy    Strategy  `json:"strategy"`
	Edges       []float64 `json:"edges"`
	Bins        int       `json:"bins"`
	Assignments []int     `json:"-"`
}

// Labels returns the interval of each bin, e.g. "(150, 162.5]".
// The first bin is closed on the left.
func (d *Discretized) Labels() []string {
	labels := make([]string, d.Bins)
	for i := 0; i < d.Bins; i++ {
		open := "("
		if i == 0 {
			open = "["
		}
		labels[i] = fmt.Sprintf("%s%g, %g]", open, d.Edges[i], d.Edges[i+1])
	}
	return labels
}

// Groups returns the number of non-empty bins
func (d *Discretized) Groups() int {
	seen := make(map[int]struct{}, d.Bins)
	for _, a := range d.Assignments {
		seen[a] = struct{}{}
	}
	return len(seen)
}

// FellBack reports whether quantile edges collapsed and equal-width bins were used
func (d *Discretized) FellBack() bool {
	return d.Strategy == StrategyEqualWidth
}

// Discretize partitions values into bins quantile buckets. Duplicate quantile
// edges are dropped; when fewer than two distinct edges remain the column is
// split into bins equal-width intervals over [min, max] instead.
func Discretize(values []float64, bins int) (*Discretized, error) {
	if bins < 1 {
		return nil, ErrInvalidBins
	}
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}
	if slices.ContainsFunc(values, math.IsNaN) {
		return nil, ErrNaNValue
	}

	sorted := slices.Clone(values)
	sort.Float64s(sorted)

	edges := quantileEdges(sorted, bins)
	if len(edges) >= 2 {
		return assign(values, edges, StrategyQuantile), nil
	}

	return assign(values, equalWidthEdges(sorted, bins), StrategyEqualWidth), nil
}

// DiscretizeFeatures discretizes several named columns with the same bin count
func DiscretizeFeatures(columns map[string][]float64, features []string, bins int) (map[string]*Discretized, error) {
	out := make(map[string]*Discretized, len(features))
	for _, f := range features {
		col, ok := columns[f]
		if !ok {
			return nil, fmt.Errorf("feature %q: no such column", f)
		}
		d, err := Discretize(col, bins)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", f, err)
		}
		out[f] = d
	}
	return out, nil
}

// quantileEdges returns the distinct k/bins quantiles of a sorted column
func quantileEdges(sorted []float64, bins int) []float64 {
	edges := make([]float64, 0, bins+1)
	for k := 0; k <= bins; k++ {
		q := quantile(sorted, float64(k)/float64(bins))
		if len(edges) == 0 || q > edges[len(edges)-1] {
			edges = append(edges, q)
		}
	}
	return edges
}

// quantile interpolates linearly between the order statistics around rank
// p*(n-1) of a sorted column, so the median of 1..10 is 5.5
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := p * float64(n-1)
	lower := int(math.Floor(rank))
	if lower >= n-1 {
		return sorted[n-1]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[lower+1]*weight
}

// equalWidthEdges splits [min, max] into bins intervals, widening a zero-width
// range by 0.1% on each side
func equalWidthEdges(sorted []float64, bins int) []float64 {
	lo, hi := floats.Min(sorted), floats.Max(sorted)
	if lo == hi {
		adj := 0.001 * math.Abs(lo)
		if adj == 0 {
			adj = 0.001
		}
		lo, hi = lo-adj, hi+adj
	}
	return floats.Span(make([]float64, bins+1), lo, hi)
}

// assign maps each value to the right-closed bin (edges[i], edges[i+1]];
// values at or below the first edge go to bin 0
func assign(values, edges []float64, strategy Strategy) *Discretized {
	nbins := len(edges) - 1
	upper := edges[1:]

	assignments := make([]int, len(values))
	for i, v := range values {
		b := sort.SearchFloat64s(upper, v)
		if b >= nbins {
			b = nbins - 1
		}
		assignments[i] = b
	}

	return &Discretized{
		Strategy:    strategy,
		Edges:       edges,
		Bins:        nbins,
		Assignments: assignments,
	}
}
