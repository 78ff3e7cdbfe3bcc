package interval

// isIntervalTree reports whether the tree rooted at root satisfies the
// ordering, red-black and max invariants. Tests only.
func isIntervalTree[V any](root *node[V]) bool {
	if root == nil {
		return true
	}
	if root.parent != nil || root.color != black {
		return false
	}
	_, ok := checkNode(root, nil, nil)
	return ok
}

// checkNode validates the subtree at n, whose keys must lie strictly
// between lo and hi when those are set, and returns its black height.
func checkNode[V any](n *node[V], lo, hi *Interval) (int, bool) {
	if n == nil {
		return 1, true
	}
	if lo != nil && !lo.Less(n.key) || hi != nil && !n.key.Less(*hi) {
		return 0, false
	}
	if n.key.low > n.key.high {
		return 0, false
	}
	for _, c := range []*node[V]{n.left, n.right} {
		if c == nil {
			continue
		}
		if c.parent != n || n.color == red && c.color == red {
			return 0, false
		}
	}

	max := n.key.high
	for _, c := range []*node[V]{n.left, n.right} {
		if c != nil && c.max > max {
			max = c.max
		}
	}
	if n.max != max {
		return 0, false
	}

	lh, ok := checkNode(n.left, lo, &n.key)
	if !ok {
		return 0, false
	}
	rh, ok := checkNode(n.right, &n.key, hi)
	if !ok || lh != rh {
		return 0, false
	}
	if n.color == black {
		lh++
	}
	return lh, true
}
