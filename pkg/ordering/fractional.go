// Package ordering implements the fractional-indexing scheme used for manual
// email ordering and pin ordering on the Kanban board. Keys are float64 sort
// keys; inserting between two neighbors takes their midpoint so the rest of
// the list never needs renumbering. Repeated insertion at the same spot
// eventually exhausts float precision, at which point Allocate returns
// ErrGapExhausted and the caller must rewrite the whole list with Spread.
package ordering

import (
	"errors"
	"math"
)

const (
	// Seed is the key assigned to the first item of an empty list.
	Seed = 65536.0
	// Step is the gap used when allocating above or below the existing keys,
	// and the spacing of canonical keys produced by Spread.
	Step = 65536.0
	// Epsilon is the minimum usable gap between two adjacent keys.
	Epsilon = 1e-9
)

// ErrGapExhausted signals that the gap between the given neighbors is too
// small to hold another key. The caller owns the rebalance: rewrite the list
// with Spread, then retry.
var ErrGapExhausted = errors.New("ordering: gap between neighbor keys exhausted")

// Allocate computes a sort key strictly between prev and next. Either bound
// may be nil: nil/nil seeds an empty list, prev/nil appends after prev,
// nil/next prepends before next.
func Allocate(prev, next *float64) (float64, error) {
	switch {
	case prev == nil && next == nil:
		return Seed, nil
	case prev == nil:
		return *next - Step, nil
	case next == nil:
		return *prev + Step, nil
	}

	if *next-*prev <= Epsilon {
		return 0, ErrGapExhausted
	}

	mid := (*prev + *next) / 2
	if mid <= *prev || mid >= *next || math.IsInf(mid, 0) || math.IsNaN(mid) {
		return 0, ErrGapExhausted
	}
	return mid, nil
}

// Spread returns n canonical evenly spaced keys (Step, 2*Step, ...). Assigning
// them to a list in its current sort order preserves relative order exactly
// while restoring the full gap between every pair of neighbors.
func Spread(n int) []float64 {
	keys := make([]float64, n)
	for i := 0; i < n; i++ {
		keys[i] = float64(i+1) * Step
	}
	return keys
}
