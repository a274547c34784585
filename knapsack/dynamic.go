package knapsack

import (
	"slices"
	"time"
)

// DynamicSolve solves p exactly with the Oracle Cache.
//
// After building the cache once, items are visited from last to first. Item
// i is packed iff Oracle(k, i+1) > Oracle(k, i) for the remaining capacity k,
// i.e. no optimal packing of the first i+1 items under k can leave it out.
// Decisions are collected back-to-front and reversed at the end.
//
// Complexity: O(n·K) time for the cache, O(n·log steps) for the walk.
func DynamicSolve(p *Problem) Solution {
	s, _, _ := dynamicSolve(p, time.Time{})

	return s
}

func dynamicSolve(p *Problem, deadline time.Time) (Solution, Stats, error) {
	cache, err := buildCache(p, p.capacity, deadline)
	if err != nil {
		return Solution{}, Stats{}, err
	}

	var (
		n         = p.Len()
		k         = p.capacity
		total     int64
		contained = make([]bool, 0, n)
		i         int
	)
	for i = n - 1; i >= 0; i-- {
		if cache.Query(k, i) < cache.Query(k, i+1) {
			contained = append(contained, true)
			k -= p.weights[i]
			total += p.values[i]
		} else {
			contained = append(contained, false)
		}
	}
	slices.Reverse(contained)

	s := Solution{Value: total, Contained: contained}
	if total != cache.Query(p.capacity, n) || p.Check(s) != nil {
		panic(panicInconsistent)
	}

	return s, Stats{CachePoints: cache.Points()}, nil
}
