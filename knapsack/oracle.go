package knapsack

// Oracle returns the best value achievable with the first count items of p
// (indices 0..count-1) under the given capacity. It is the recurrence both
// solvers are derived from:
//
//	Oracle(k, 0)   = 0
//	Oracle(k, j+1) = Oracle(k, j)                                 if w_j > k
//	               = max(Oracle(k, j), v_j + Oracle(k − w_j, j))  otherwise
//
// Counts below zero also yield 0. The evaluation is the naive recursion and
// costs O(2^count); use a Cache for anything but small inputs.
//
// Panics if count > p.Len(), or if capacity < 0 while count > 0.
func Oracle(p *Problem, capacity int64, count int) int64 {
	if count <= 0 {
		return 0
	}
	if count > p.Len() {
		panic(panicCountRange)
	}
	if capacity < 0 {
		panic(panicNegativeCapacity)
	}

	j := count - 1
	skip := Oracle(p, capacity, j)
	if p.weights[j] > capacity {
		return skip
	}
	take := p.values[j] + Oracle(p, capacity-p.weights[j], j)
	if take > skip {
		return take
	}

	return skip
}
