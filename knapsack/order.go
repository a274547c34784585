package knapsack

import (
	"math/bits"
	"sort"
)

// EfficiencyOrder returns the item indices of p sorted by value/weight
// descending. Equal ratios keep ascending index order, so the result is
// deterministic. Zero-weight items with a positive value rank first.
//
// Ratios are compared exactly by cross-multiplication in 128 bits
// (v_i·w_j vs v_j·w_i), so large values never suffer float rounding.
//
// Complexity: O(n log n).
func EfficiencyOrder(p *Problem) []int {
	idx := make([]int, p.Len())
	for i := range idx {
		idx[i] = i
	}
	eo := efficiencyOrder{idx: idx, p: p}
	sort.Stable(&eo)

	return eo.idx
}

// efficiencyOrder implements sort.Interface over item indices by ratio.
type efficiencyOrder struct {
	idx []int
	p   *Problem
}

func (eo efficiencyOrder) Len() int { return len(eo.idx) }
func (eo efficiencyOrder) Less(i, j int) bool {
	a, b := eo.idx[i], eo.idx[j]

	return ratioGreater(eo.p.values[a], eo.p.weights[a], eo.p.values[b], eo.p.weights[b])
}
func (eo *efficiencyOrder) Swap(i, j int) { eo.idx[i], eo.idx[j] = eo.idx[j], eo.idx[i] }

// ratioGreater reports whether va/wa > vb/wb for non-negative operands.
// An empty item (0/0) counts as ratio 0.
func ratioGreater(va, wa, vb, wb int64) bool {
	if va == 0 && wa == 0 {
		wa = 1
	}
	if vb == 0 && wb == 0 {
		wb = 1
	}
	hi1, lo1 := bits.Mul64(uint64(va), uint64(wb))
	hi2, lo2 := bits.Mul64(uint64(vb), uint64(wa))
	if hi1 != hi2 {
		return hi1 > hi2
	}

	return lo1 > lo2
}
