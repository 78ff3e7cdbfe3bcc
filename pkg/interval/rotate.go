package interval

// rotateLeft moves x down to the left of its right child y.
//
//	    x              y
//	   / \            / \
//	  a   y    =>    x   c
//	     / \        / \
//	    b   c      a   b
func (t *Tree[V]) rotateLeft(x *node[V]) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	t.replaceChild(x.parent, x, y)
	y.left = x
	x.parent = y

	// x is now below y, so it goes first.
	x.updateMax()
	y.updateMax()
}

// rotateRight moves x down to the right of its left child y.
//
//	      x          y
//	     / \        / \
//	    y   c  =>  a   x
//	   / \            / \
//	  a   b          b   c
func (t *Tree[V]) rotateRight(x *node[V]) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	t.replaceChild(x.parent, x, y)
	y.right = x
	x.parent = y

	x.updateMax()
	y.updateMax()
}
