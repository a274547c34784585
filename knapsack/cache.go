package knapsack

import (
	"sort"
	"time"
)

// Step is one point of increase of the Oracle staircase: with at least
// Threshold capacity, Value is achievable.
type Step struct {
	Threshold int64
	Value     int64
}

// Cache is the compressed memo of Oracle. For every item count j in 0..n it
// stores the step function c ↦ Oracle(c, j) on 0..Limit as an ascending list
// of Steps, recording only the capacities where the value strictly grows.
// Every row starts with the (0, 0) sentinel.
//
// A Cache is immutable once built and safe for concurrent queries.
type Cache struct {
	limit int64
	rows  [][]Step
}

// BuildCache builds the Oracle Cache of p up to its capacity.
//
// Complexity: O(n·K) time, O(points) memory.
func BuildCache(p *Problem) *Cache {
	c, _ := buildCache(p, p.capacity, time.Time{})

	return c
}

// BuildCacheLimit builds the Oracle Cache of p for capacities 0..limit.
// Panics if limit < 0.
func BuildCacheLimit(p *Problem, limit int64) *Cache {
	if limit < 0 {
		panic(panicNegativeCapacity)
	}
	c, _ := buildCache(p, limit, time.Time{})

	return c
}

// buildCache derives row j from row j−1 alone. Capacities are swept in
// ascending order, so both lookups into the previous row (at c and at c−w)
// advance monotonically and each row costs O(K + len(prev)).
//
// A non-zero deadline is checked at the start of every row and every 4096
// capacities within a row; on expiry ErrTimeLimit is returned with a nil cache.
func buildCache(p *Problem, limit int64, deadline time.Time) (*Cache, error) {
	n := p.Len()
	c := &Cache{
		limit: limit,
		rows:  make([][]Step, n+1),
	}
	c.rows[0] = []Step{{Threshold: 0, Value: 0}}

	var (
		j          int
		capacity   int64
		at, atLess int   // cursors into prev for capacity and capacity−w
		best, last int64 // value at capacity, last recorded value
	)
	for j = 1; j <= n; j++ {
		if pastDeadline(deadline) {
			return nil, ErrTimeLimit
		}
		prev := c.rows[j-1]
		w, v := p.weights[j-1], p.values[j-1]
		row := make([]Step, 1, len(prev)+1)
		row[0] = Step{Threshold: 0, Value: 0}
		at, atLess, last = 0, 0, 0
		for capacity = 0; capacity <= limit; capacity++ {
			if capacity&4095 == 4095 && pastDeadline(deadline) {
				return nil, ErrTimeLimit
			}
			for at+1 < len(prev) && prev[at+1].Threshold <= capacity {
				at++
			}
			best = prev[at].Value
			if w <= capacity {
				for atLess+1 < len(prev) && prev[atLess+1].Threshold <= capacity-w {
					atLess++
				}
				if take := v + prev[atLess].Value; take > best {
					best = take
				}
			}
			if best > last {
				row = append(row, Step{Threshold: capacity, Value: best})
				last = best
			}
		}
		c.rows[j] = row
	}

	return c, nil
}

// pastDeadline reports whether a non-zero deadline has passed.
func pastDeadline(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}

// Limit returns the largest capacity the cache answers for.
func (c *Cache) Limit() int64 { return c.limit }

// Len returns the number of items covered (rows minus the empty prefix).
func (c *Cache) Len() int { return len(c.rows) - 1 }

// Points returns the total number of recorded steps over all rows.
func (c *Cache) Points() int {
	var total int
	for _, row := range c.rows {
		total += len(row)
	}

	return total
}

// Steps returns a copy of the staircase for the given item count.
func (c *Cache) Steps(count int) []Step {
	if count < 0 || count >= len(c.rows) {
		panic(panicCountRange)
	}
	out := make([]Step, len(c.rows[count]))
	copy(out, c.rows[count])

	return out
}

// Query returns Oracle(capacity, count): the value of the last step whose
// threshold does not exceed capacity. Counts below zero yield 0.
//
// Panics if count > Len(), capacity < 0 or capacity > Limit().
//
// Complexity: O(log steps).
func (c *Cache) Query(capacity int64, count int) int64 {
	if count < 0 {
		return 0
	}
	if count >= len(c.rows) {
		panic(panicCountRange)
	}
	if capacity < 0 {
		panic(panicNegativeCapacity)
	}
	if capacity > c.limit {
		panic(panicCapacityRange)
	}
	row := c.rows[count]
	i := sort.Search(len(row), func(i int) bool { return row[i].Threshold > capacity })

	return row[i-1].Value
}
