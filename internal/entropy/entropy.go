package entropy

import (
	"errors"
	"math"
)

// Epsilon keeps log2 finite for zero probabilities
const Epsilon = 1e-9

var (
	// ErrEmptyInput means there is nothing to measure
	ErrEmptyInput = errors.New("entropy of empty input is undefined")
	// ErrLengthMismatch means groups and target differ in length
	ErrLengthMismatch = errors.New("groups and target lengths differ")
)

// Entropy returns -Σ p·log2(p+ε) over the distinct values of labels
func Entropy[T comparable](labels []T) (float64, error) {
	if len(labels) == 0 {
		return 0, ErrEmptyInput
	}

	n := float64(len(labels))
	var h float64
	for _, c := range counts(labels) {
		p := float64(c) / n
		h -= p * math.Log2(p+Epsilon)
	}
	return h, nil
}

// InformationGain returns H(target) minus the row-weighted entropy of target
// within each distinct value of groups
func InformationGain[K, T comparable](groups []K, target []T) (float64, error) {
	if len(groups) != len(target) {
		return 0, ErrLengthMismatch
	}

	total, err := Entropy(target)
	if err != nil {
		return 0, err
	}

	order, members := partition(groups)
	n := float64(len(target))

	var weighted float64
	for _, g := range order {
		idx := members[g]
		subset := make([]T, len(idx))
		for i, j := range idx {
			subset[i] = target[j]
		}
		h, err := Entropy(subset)
		if err != nil {
			return 0, err
		}
		weighted += float64(len(idx)) / n * h
	}

	return total - weighted, nil
}

// counts tallies values in first-appearance order so sums are reproducible
func counts[T comparable](values []T) []int {
	index := make(map[T]int)
	var out []int
	for _, v := range values {
		i, ok := index[v]
		if !ok {
			i = len(out)
			index[v] = i
			out = append(out, 0)
		}
		out[i]++
	}
	return out
}

// partition returns the distinct group values in first-appearance order and
// the row indices belonging to each
func partition[K comparable](groups []K) ([]K, map[K][]int) {
	var order []K
	members := make(map[K][]int)
	for i, g := range groups {
		if _, ok := members[g]; !ok {
			order = append(order, g)
		}
		members[g] = append(members[g], i)
	}
	return order, members
}
