package interval

import (
	"math"
)

// Result is an interval and the payload stored under it.
type Result[V any] struct {
	Interval Interval
	Payload  V
}

// Tree is an interval tree: a red-black tree keyed by Interval in which
// every node caches the highest endpoint found in its subtree.
//
// A Tree is not safe for concurrent use. Callers must serialize access,
// and must not mutate the tree while an Iterator over it is in use.
type Tree[V any] struct {
	root  *node[V]
	count int
}

// NewIntervalTree returns an empty tree.
func NewIntervalTree[V any]() *Tree[V] {
	return &Tree[V]{}
}

// Len returns the number of intervals stored in the tree.
func (t *Tree[V]) Len() int { return t.count }

// Empty reports whether the tree holds no intervals.
func (t *Tree[V]) Empty() bool { return t.root == nil }

// Clear removes all intervals.
func (t *Tree[V]) Clear() {
	t.root = nil
	t.count = 0
}

// Height is the number of levels in the tree; one node has height 1.
func (t *Tree[V]) Height() int { return t.root.height() }

// MaxHeight is the upper bound on Height for the current number of nodes.
func (t *Tree[V]) MaxHeight() int {
	return int((2 * math.Log2(float64(t.count+1))) + 0.5)
}

// Insert stores payload under key, replacing the payload if key is
// already present.
func (t *Tree[V]) Insert(key Interval, payload V) {
	var parent *node[V]
	x := t.root
	for x != nil {
		parent = x
		switch c := key.Compare(x.key); {
		case c < 0:
			x = x.left
		case c > 0:
			x = x.right
		default:
			x.payload = payload
			return
		}
	}

	z := &node[V]{
		key:     key,
		color:   red,
		parent:  parent,
		max:     key.high,
		payload: payload,
	}
	switch {
	case parent == nil:
		t.root = z
	case key.Less(parent.key):
		parent.left = z
	default:
		parent.right = z
	}
	t.count++

	// Rotations assume correct aggregates below them.
	parent.updateMaxToRoot()
	t.insertFixup(z)
}

// replaceChild puts n where old was under parent.
func (t *Tree[V]) replaceChild(parent, old, n *node[V]) {
	switch {
	case parent == nil:
		t.root = n
	case parent.left == old:
		parent.left = n
	default:
		parent.right = n
	}
	if n != nil {
		n.parent = parent
	}
}

func (t *Tree[V]) insertFixup(z *node[V]) {
	for colorOf(z.parent) == red {
		// A red parent is never the root, so the grandparent exists.
		gp := z.parent.parent
		if z.parent == gp.left {
			uncle := gp.right
			if colorOf(uncle) == red {
				z.parent.color = black
				uncle.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.right {
				z = z.parent
				t.rotateLeft(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateRight(gp)
		} else {
			uncle := gp.left
			if colorOf(uncle) == red {
				z.parent.color = black
				uncle.color = black
				gp.color = red
				z = gp
				continue
			}
			if z == z.parent.left {
				z = z.parent
				t.rotateRight(z)
			}
			z.parent.color = black
			gp.color = red
			t.rotateLeft(gp)
		}
	}
	t.root.color = black
}

// Delete removes key from the tree, returning true if it was present.
func (t *Tree[V]) Delete(key Interval) bool {
	z := t.search(key)
	if z == nil {
		return false
	}

	if z.left != nil && z.right != nil {
		succ := z.right.min()
		z.key = succ.key
		z.payload = succ.payload
		z = succ
	}

	child := z.left
	if child == nil {
		child = z.right
	}
	parent := z.parent
	t.replaceChild(parent, z, child)
	z.left, z.right, z.parent = nil, nil, nil
	t.count--

	parent.updateMaxToRoot()

	if z.color == black {
		if colorOf(child) == red {
			child.color = black
		} else {
			t.deleteFixup(child, parent)
		}
	}
	return true
}

// deleteFixup restores the black height after a black node was spliced
// out. x carries the extra black and may be nil, so its parent is
// tracked separately.
func (t *Tree[V]) deleteFixup(x, parent *node[V]) {
	for x != t.root && colorOf(x) == black {
		if x == parent.left {
			w := parent.right
			if colorOf(w) == red {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}
			if colorOf(w.left) == black && colorOf(w.right) == black {
				w.color = red
				x = parent
				parent = x.parent
				continue
			}
			if colorOf(w.right) == black {
				w.left.color = black
				w.color = red
				t.rotateRight(w)
				w = parent.right
			}
			w.color = parent.color
			parent.color = black
			w.right.color = black
			t.rotateLeft(parent)
			x = t.root
		} else {
			w := parent.left
			if colorOf(w) == red {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}
			if colorOf(w.left) == black && colorOf(w.right) == black {
				w.color = red
				x = parent
				parent = x.parent
				continue
			}
			if colorOf(w.left) == black {
				w.right.color = black
				w.color = red
				t.rotateLeft(w)
				w = parent.left
			}
			w.color = parent.color
			parent.color = black
			w.left.color = black
			t.rotateRight(parent)
			x = t.root
		}
	}
	if x != nil {
		x.color = black
	}
}

func (t *Tree[V]) search(key Interval) *node[V] {
	x := t.root
	for x != nil {
		switch c := key.Compare(x.key); {
		case c < 0:
			x = x.left
		case c > 0:
			x = x.right
		default:
			return x
		}
	}
	return nil
}

// Get returns the payload stored under key.
func (t *Tree[V]) Get(key Interval) (V, bool) {
	if n := t.search(key); n != nil {
		return n.payload, true
	}
	var zero V
	return zero, false
}

// GetOr returns the payload stored under key, or def if key is absent.
func (t *Tree[V]) GetOr(key Interval, def V) V {
	if n := t.search(key); n != nil {
		return n.payload
	}
	return def
}

// Contains reports whether key is stored in the tree.
func (t *Tree[V]) Contains(key Interval) bool {
	return t.search(key) != nil
}

// Min returns the smallest interval and its payload, or false if the
// tree is empty.
func (t *Tree[V]) Min() (Interval, V, bool) {
	if t.root == nil {
		var zero V
		return Interval{}, zero, false
	}
	n := t.root.min()
	return n.key, n.payload, true
}

// Max returns the largest interval and its payload, or false if the
// tree is empty.
func (t *Tree[V]) Max() (Interval, V, bool) {
	if t.root == nil {
		var zero V
		return Interval{}, zero, false
	}
	n := t.root.maxNode()
	return n.key, n.payload, true
}

// Iter returns an iterator over every interval in ascending order.
func (t *Tree[V]) Iter() *Iterator[V] {
	return t.Range(0, math.MaxUint64)
}

// Range returns an iterator over the intervals overlapping [low, high]
// in ascending order.
func (t *Tree[V]) Range(low, high uint64) *Iterator[V] {
	return newIterator(t.root, low, high)
}

// Intersects reports whether any stored interval overlaps iv.
func (t *Tree[V]) Intersects(iv Interval) bool {
	return t.Range(iv.low, iv.high).Next()
}

// FindFirstOverlapping returns the smallest interval overlapping iv.
func (t *Tree[V]) FindFirstOverlapping(iv Interval) (Result[V], error) {
	it := t.Range(iv.low, iv.high)
	if !it.Next() {
		return Result[V]{}, ErrNotFound
	}
	return Result[V]{Interval: it.Key(), Payload: it.Value()}, nil
}

// FindAllOverlapping returns every interval overlapping iv in ascending
// order.
func (t *Tree[V]) FindAllOverlapping(iv Interval) ([]Result[V], error) {
	var res []Result[V]
	for it := t.Range(iv.low, iv.high); it.Next(); {
		res = append(res, Result[V]{Interval: it.Key(), Payload: it.Value()})
	}
	if len(res) == 0 {
		return nil, ErrNotFound
	}
	return res, nil
}
