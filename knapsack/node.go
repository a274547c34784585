package knapsack

// node is a partial assignment in the branch-and-bound tree. decisions[d]
// tells whether the d-th item in efficiency order is packed; the length of
// decisions is the node's depth. Nodes are never mutated once built.
type node struct {
	value     int64
	room      int64
	bound     int64
	decisions []bool
}

// depth returns how many items have been decided.
func (nd node) depth() int { return len(nd.decisions) }

// extend returns the child that decides the next item. The decision slice is
// copied so siblings never share backing storage.
func (nd node) extend(e *bbEngine, take bool) node {
	d := nd.depth()
	decisions := make([]bool, d+1)
	copy(decisions, nd.decisions)
	decisions[d] = take

	child := node{value: nd.value, room: nd.room, decisions: decisions}
	if take {
		child.value += e.ov[d]
		child.room -= e.ow[d]
	}
	child.bound = e.bound(d+1, child.value, child.room)

	return child
}

// frontierItem wraps a node with its insertion sequence for stable ordering.
type frontierItem struct {
	node
	seq uint64
}

// frontier is a max-heap of nodes keyed by bound. Ties go to the deeper node,
// then the higher value, then the earlier insertion.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	a, b := f[i], f[j]
	if a.bound != b.bound {
		return a.bound > b.bound
	}
	if a.depth() != b.depth() {
		return a.depth() > b.depth()
	}
	if a.value != b.value {
		return a.value > b.value
	}

	return a.seq < b.seq
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

// Push is called by heap.Push; x must be a frontierItem.
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(frontierItem)) }

// Pop is called by heap.Pop and returns the last element.
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = frontierItem{}
	*f = old[:n-1]

	return item
}
