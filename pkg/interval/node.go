package interval

type color bool

const (
	black color = false
	red   color = true
)

func (c color) String() string {
	if c == red {
		return "red"
	}
	return "black"
}

type node[V any] struct {
	key     Interval
	color   color
	left    *node[V]
	right   *node[V]
	parent  *node[V]
	max     uint64
	payload V
}

// colorOf treats absent children as black leaves.
func colorOf[V any](n *node[V]) color {
	if n == nil {
		return black
	}
	return n.color
}

// updateMax recomputes max from the node's key and its children.
func (n *node[V]) updateMax() {
	max := n.key.high
	if n.left != nil && n.left.max > max {
		max = n.left.max
	}
	if n.right != nil && n.right.max > max {
		max = n.right.max
	}
	n.max = max
}

// updateMaxToRoot refreshes max on n and every ancestor.
func (n *node[V]) updateMaxToRoot() {
	for ; n != nil; n = n.parent {
		n.updateMax()
	}
}

func (n *node[V]) min() *node[V] {
	for n.left != nil {
		n = n.left
	}
	return n
}

func (n *node[V]) maxNode() *node[V] {
	for n.right != nil {
		n = n.right
	}
	return n
}

func (n *node[V]) height() int {
	if n == nil {
		return 0
	}
	l, r := n.left.height(), n.right.height()
	if l < r {
		return r + 1
	}
	return l + 1
}
