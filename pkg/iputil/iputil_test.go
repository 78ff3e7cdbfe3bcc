package iputil

import (
	"testing"

	"github.com/eqv/interval-tree/pkg/interval"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestIPv4RoundTrip(t *testing.T) {
	r := require.New(t)

	n, err := ParseIPv4("10.20.30.40")
	r.NoError(err)
	r.Equal(uint64(0x0a141e28), n)
	r.Equal("10.20.30.40", FormatIPv4(n))
	r.Equal("4294967296", FormatIPv4(1<<32))

	_, err = ParseIPv4("::1")
	r.True(errors.Is(err, ErrInvalidEndpoint))
}

func TestParseEndpoint(t *testing.T) {
	r := require.New(t)

	n, err := ParseEndpoint(" 42 ")
	r.NoError(err)
	r.Equal(uint64(42), n)

	n, err = ParseEndpoint("0.0.1.0")
	r.NoError(err)
	r.Equal(uint64(256), n)

	_, err = ParseEndpoint("-1")
	r.True(errors.Is(err, ErrInvalidEndpoint))
	_, err = ParseEndpoint("abc")
	r.True(errors.Is(err, ErrInvalidEndpoint))
}

func TestCIDRToRange(t *testing.T) {
	r := require.New(t)

	iv, err := CIDRToRange("10.10.10.0/24")
	r.NoError(err)
	r.Equal("10.10.10.0", FormatIPv4(iv.Low()))
	r.Equal("10.10.10.255", FormatIPv4(iv.High()))

	iv, err = CIDRToRange("1.2.3.4/32")
	r.NoError(err)
	r.Equal(iv.Low(), iv.High())

	_, err = CIDRToRange("10.0.0.0/33")
	r.Error(err)
	_, err = CIDRToRange("2001:db8::/32")
	r.Error(err)
}

func TestParseRange(t *testing.T) {
	r := require.New(t)

	tests := []struct {
		in   string
		want interval.Interval
	}{
		{"5", interval.Point(5)},
		{"5-9", interval.MustInterval(5, 9)},
		{"0.0.0.1-0.0.1.0", interval.MustInterval(1, 256)},
		{"0.0.0.0/30", interval.MustInterval(0, 3)},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		r.NoError(err, tt.in)
		r.Equal(tt.want, got, tt.in)
	}

	_, err := ParseRange("9-5")
	r.True(errors.Is(err, interval.ErrInvalidInterval))
	_, err = ParseRange("x-5")
	r.True(errors.Is(err, ErrInvalidEndpoint))
}
