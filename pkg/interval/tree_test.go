package interval

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestIntervalTree(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree[string]()
	r.True(tree.Empty())

	tree.Insert(MustInterval(10, 20), "a")
	tree.Insert(Point(15), "b")
	tree.Insert(MustInterval(250, 255), "c")
	tree.Insert(MustInterval(15, 16), "d")
	r.True(isIntervalTree(tree.root))
	r.Equal(4, tree.Len())

	tests := []struct {
		Point         uint64
		ShouldBeFound bool
	}{
		{10, true},
		{15, true},
		{255, true},
		{30, false},
		{20, true},
		{21, false},
		{250, true},
		{249, false},
	}

	for _, tt := range tests {
		search := Point(tt.Point)

		res, err := tree.FindFirstOverlapping(search)
		if tt.ShouldBeFound {
			r.NoError(err, "point %d", tt.Point)
			r.True(res.Interval.Overlaps(search))
		} else {
			r.True(errors.Is(err, ErrNotFound), "point %d", tt.Point)
		}

		all, err := tree.FindAllOverlapping(search)
		if tt.ShouldBeFound {
			r.NoError(err)
			r.Equal(res, all[0])
			for _, re := range all {
				r.True(re.Interval.Overlaps(search), "%s %s", re.Interval, re.Payload)
			}
		} else {
			r.Error(err)
			r.Empty(all)
		}
		r.Equal(tt.ShouldBeFound, tree.Intersects(search))
	}

	all, err := tree.FindAllOverlapping(Point(15))
	r.NoError(err)
	r.Equal([]Result[string]{
		{MustInterval(10, 20), "a"},
		{Point(15), "b"},
		{MustInterval(15, 16), "d"},
	}, all)
}

func TestInsertGet(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree[int]()
	for i := uint64(0); i < 100; i++ {
		k := MustInterval(i, i+i%7)
		tree.Insert(k, int(i))
		r.True(tree.Contains(k))
		v, ok := tree.Get(k)
		r.True(ok)
		r.Equal(int(i), v)
	}
	r.Equal(100, tree.Len())

	_, ok := tree.Get(Point(1000))
	r.False(ok)
	r.Equal(-1, tree.GetOr(Point(1000), -1))
	r.Equal(3, tree.GetOr(MustInterval(3, 6), -1))
}

func TestInsertOverwrites(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree[int]()
	tree.Insert(Point(2), 25)
	r.Equal(25, tree.GetOr(Point(2), 0))
	tree.Insert(Point(2), 30)
	r.Equal(30, tree.GetOr(Point(2), 0))
	r.Equal(1, tree.Len())
	r.True(isIntervalTree(tree.root))
}

func TestDelete(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree[int]()
	tree.Insert(Point(2), 25)
	r.True(tree.Delete(Point(2)))
	r.True(tree.Empty())

	// Deleting absent keys does nothing.
	r.False(tree.Delete(Point(3)))
	r.True(tree.Empty())

	for i := uint64(0); i < 64; i++ {
		tree.Insert(MustInterval(i, 2*i), int(i))
	}
	r.False(tree.Delete(MustInterval(3, 5)))
	r.Equal(64, tree.Len())

	for i := uint64(0); i < 64; i += 2 {
		r.True(tree.Delete(MustInterval(i, 2*i)))
		r.False(tree.Contains(MustInterval(i, 2*i)))
		r.True(isIntervalTree(tree.root))
	}
	r.Equal(32, tree.Len())
	for i := uint64(1); i < 64; i += 2 {
		v, ok := tree.Get(MustInterval(i, 2*i))
		r.True(ok)
		r.Equal(int(i), v)
	}
}

func TestDeleteKeepsMax(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree[struct{}]()
	tree.Insert(MustInterval(5, 1000), struct{}{})
	for i := uint64(0); i < 20; i++ {
		tree.Insert(MustInterval(i, i), struct{}{})
	}
	r.True(tree.Intersects(Point(900)))

	tree.Delete(MustInterval(5, 1000))
	r.True(isIntervalTree(tree.root))
	r.False(tree.Intersects(Point(900)))
	r.Equal(uint64(19), tree.root.max)
}

func TestMinMax(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree[int]()
	_, _, ok := tree.Min()
	r.False(ok)
	_, _, ok = tree.Max()
	r.False(ok)

	tree.Insert(Point(2), 25)
	tree.Insert(Point(3), 50)
	tree.Insert(MustInterval(2, 9), 75)

	k, v, ok := tree.Min()
	r.True(ok)
	r.Equal(Point(2), k)
	r.Equal(25, v)

	k, v, ok = tree.Max()
	r.True(ok)
	r.Equal(Point(3), k)
	r.Equal(50, v)

	tree.Clear()
	r.True(tree.Empty())
	r.Equal(0, tree.Len())
	_, _, ok = tree.Min()
	r.False(ok)
}

func TestFuzz(t *testing.T) {
	r := require.New(t)

	tree := NewIntervalTree[int]()
	for i := 0; i < 5000; i++ {
		rnd := uint64(rand.Intn(500))
		k := Point(rnd)
		if rand.Intn(2) == 0 {
			tree.Insert(k, 1337)
			r.True(tree.Contains(k))
		} else {
			tree.Delete(k)
			r.False(tree.Contains(k))
		}
		r.True(isIntervalTree(tree.root), "step %d", i)
	}
}

func TestFuzzWide(t *testing.T) {
	r := require.New(t)

	rng := rand.New(rand.NewSource(42))
	tree := NewIntervalTree[uint64]()
	ref := make(map[Interval]uint64)
	for i := 0; i < 5000; i++ {
		low := uint64(rng.Intn(300))
		k := MustInterval(low, low+uint64(rng.Intn(50)))
		if rng.Intn(3) > 0 {
			tree.Insert(k, uint64(i))
			ref[k] = uint64(i)
		} else {
			_, present := ref[k]
			r.Equal(present, tree.Delete(k))
			delete(ref, k)
		}
		r.True(isIntervalTree(tree.root), "step %d", i)
		r.Equal(len(ref), tree.Len())
	}
	for k, v := range ref {
		got, ok := tree.Get(k)
		r.True(ok)
		r.Equal(v, got)
	}
}

func TestHeightBound(t *testing.T) {
	r := require.New(t)

	rng := rand.New(rand.NewSource(7))
	tree := NewIntervalTree[struct{}]()
	seen := make(map[uint64]bool)
	for len(seen) < 10000 {
		x := rng.Uint64()
		if seen[x] {
			continue
		}
		seen[x] = true
		tree.Insert(Point(x), struct{}{})
	}
	r.True(isIntervalTree(tree.root))
	r.Equal(10000, tree.Len())
	r.LessOrEqual(float64(tree.Height()), 2*math.Log2(float64(tree.Len()+1)))
	r.LessOrEqual(tree.Height(), tree.MaxHeight())

	// Ascending inserts are the worst case for an unbalanced tree.
	seq := NewIntervalTree[struct{}]()
	for i := uint64(0); i < 4096; i++ {
		seq.Insert(Point(i), struct{}{})
	}
	r.LessOrEqual(float64(seq.Height()), 2*math.Log2(float64(seq.Len()+1)))
}

func TestIsIntervalTreeDetectsBrokenTrees(t *testing.T) {
	r := require.New(t)

	build := func() *Tree[int] {
		tree := NewIntervalTree[int]()
		for i := uint64(0); i < 10; i++ {
			tree.Insert(MustInterval(i, i+1), int(i))
		}
		r.True(isIntervalTree(tree.root))
		return tree
	}

	tree := build()
	tree.root.max++
	r.False(isIntervalTree(tree.root), "stale max")

	tree = build()
	tree.root.color = red
	r.False(isIntervalTree(tree.root), "red root")

	tree = build()
	tree.root.left.key, tree.root.right.key = tree.root.right.key, tree.root.left.key
	r.False(isIntervalTree(tree.root), "order")

	tree = build()
	n := tree.root.min()
	n.color = !n.color
	r.False(isIntervalTree(tree.root), "black height")
}
