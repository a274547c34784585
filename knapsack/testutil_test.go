// Package knapsack_test provides small helpers shared across the *_test.go
// files of this package: instance generators and a brute-force reference.
package knapsack_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/knapsack/knapsack"
)

const (
	// seedDet is the fixed seed for generated instances.
	seedDet = int64(42)

	// randomRounds is the number of generated instances per property test.
	randomRounds = 200
)

// scenarioOne is values=[5,6,3], weights=[4,5,2], K=9 (optimum 11).
func scenarioOne(t testing.TB) *knapsack.Problem {
	t.Helper()
	p, err := knapsack.NewProblem([]int64{5, 6, 3}, []int64{4, 5, 2}, 9)
	require.NoError(t, err)

	return p
}

// scenarioTwo is values=[1,1,2,3], weights=[2,3,5,1], K=5 (optimum 4).
func scenarioTwo(t testing.TB) *knapsack.Problem {
	t.Helper()
	p, err := knapsack.NewProblem([]int64{1, 1, 2, 3}, []int64{2, 3, 5, 1}, 5)
	require.NoError(t, err)

	return p
}

// randomProblem draws n∈[0,maxN], values in [0,20], weights in [0,15] and a
// capacity in [0, Σw]. Roughly one item in eight has zero weight.
func randomProblem(t testing.TB, rng *rand.Rand, maxN int) *knapsack.Problem {
	t.Helper()
	n := rng.Intn(maxN + 1)
	values := make([]int64, n)
	weights := make([]int64, n)
	var sum int64
	for i := 0; i < n; i++ {
		values[i] = rng.Int63n(21)
		if rng.Intn(8) != 0 {
			weights[i] = 1 + rng.Int63n(15)
		}
		sum += weights[i]
	}
	p, err := knapsack.NewProblem(values, weights, rng.Int63n(sum+1))
	require.NoError(t, err)

	return p
}

// bruteForce enumerates every subset and returns the best value.
func bruteForce(p *knapsack.Problem) int64 {
	n := p.Len()
	var best int64
	for mask := 0; mask < 1<<n; mask++ {
		var v, w int64
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				v += p.Value(i)
				w += p.Weight(i)
			}
		}
		if w <= p.Capacity() && v > best {
			best = v
		}
	}

	return best
}

// requireValid asserts feasibility and consistency of s for p.
func requireValid(t testing.TB, p *knapsack.Problem, s knapsack.Solution) {
	t.Helper()
	require.NoError(t, p.Check(s))
	require.Len(t, s.Contained, p.Len())
}
