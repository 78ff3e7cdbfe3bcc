package interval

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInterval is returned when an interval's low endpoint is after its high endpoint.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrNotFound is returned by the overlap searches when nothing overlaps.
	ErrNotFound = errors.New("no overlapping interval found")
)

// Interval is a closed range [low, high] of uint64 endpoints.
type Interval struct {
	low  uint64
	high uint64
}

// NewInterval returns a new Interval or an error if high is before low.
func NewInterval(low, high uint64) (Interval, error) {
	if low > high {
		return Interval{}, errors.Wrapf(ErrInvalidInterval, "high before low [%d - %d]", low, high)
	}

	return Interval{low: low, high: high}, nil
}

// MustInterval is like NewInterval but panics on an invalid interval.
func MustInterval(low, high uint64) Interval {
	i, err := NewInterval(low, high)
	if err != nil {
		panic(err)
	}
	return i
}

// Point returns the degenerate interval [x, x].
func Point(x uint64) Interval {
	return Interval{low: x, high: x}
}

// Low returns the lower bound of the interval.
func (i Interval) Low() uint64 {
	return i.low
}

// High returns the upper bound of the interval.
func (i Interval) High() uint64 {
	return i.high
}

// Compare orders intervals by low endpoint, then by high endpoint.
func (i Interval) Compare(x Interval) int {
	switch {
	case i.low < x.low:
		return -1
	case i.low > x.low:
		return 1
	case i.high < x.high:
		return -1
	case i.high > x.high:
		return 1
	default:
		return 0
	}
}

// Less reports whether i sorts before x.
func (i Interval) Less(x Interval) bool {
	return i.low < x.low || i.low == x.low && i.high < x.high
}

// Overlaps reports whether i and x share at least one point.
func (i Interval) Overlaps(x Interval) bool {
	return i.low <= x.high && i.high >= x.low
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d - %d]", i.low, i.high)
}
