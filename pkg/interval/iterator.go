package interval

// Iterator walks the intervals of a Tree that overlap a query range, in
// ascending order. It is used like bufio.Scanner:
//
//	for it := tree.Range(lo, hi); it.Next(); {
//		fmt.Println(it.Key(), it.Value())
//	}
//
// An Iterator cannot be rewound; ask the tree for a new one instead.
type Iterator[V any] struct {
	low, high uint64
	// stack holds the nodes whose left subtrees are being visited, the
	// next node in order on top.
	stack []*node[V]
	cur   *node[V]
}

func newIterator[V any](root *node[V], low, high uint64) *Iterator[V] {
	it := &Iterator[V]{low: low, high: high}
	it.pushLeft(root)
	return it
}

// pushLeft stacks n and its chain of left children, skipping any subtree
// whose highest endpoint is below the query.
func (it *Iterator[V]) pushLeft(n *node[V]) {
	for n != nil && n.max >= it.low {
		it.stack = append(it.stack, n)
		n = n.left
	}
}

// Next advances to the next overlapping interval and reports whether
// there is one.
func (it *Iterator[V]) Next() bool {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		// Everything left on the stack sorts after n.
		if n.key.low > it.high {
			it.stack = nil
			break
		}
		it.pushLeft(n.right)
		if n.key.high >= it.low {
			it.cur = n
			return true
		}
	}
	it.cur = nil
	return false
}

// Key returns the current interval. It is only valid after Next
// returned true.
func (it *Iterator[V]) Key() Interval {
	return it.cur.key
}

// Value returns the payload of the current interval.
func (it *Iterator[V]) Value() V {
	return it.cur.payload
}
