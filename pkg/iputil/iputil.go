package iputil

import (
	"encoding/binary"
	"net"
	"strconv"
	"strings"

	"github.com/eqv/interval-tree/pkg/interval"
	"github.com/pkg/errors"
)

// ErrInvalidEndpoint is returned when a string is neither an unsigned
// integer nor an IPv4 address.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// ParseIPv4 converts a dotted quad to its numeric value.
func ParseIPv4(ip string) (uint64, error) {
	v4 := net.ParseIP(ip).To4()
	if v4 == nil {
		return 0, errors.Wrapf(ErrInvalidEndpoint, "not an IPv4 address: '%s'", ip)
	}
	return uint64(binary.BigEndian.Uint32(v4)), nil
}

// FormatIPv4 converts n back to a dotted quad. Values above the IPv4
// space are formatted as plain integers.
func FormatIPv4(n uint64) string {
	if n > 0xffffffff {
		return strconv.FormatUint(n, 10)
	}
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, uint32(n))
	return ip.To4().String()
}

// ParseEndpoint accepts either an unsigned decimal integer or an IPv4
// address.
func ParseEndpoint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		return ParseIPv4(s)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidEndpoint, "could not parse '%s': %v", s, err)
	}
	return n, nil
}

// CIDRToRange returns the closed interval of addresses covered by an
// IPv4 CIDR block.
func CIDRToRange(cidr string) (interval.Interval, error) {
	_, ipv4Net, err := net.ParseCIDR(strings.TrimSpace(cidr))
	if err != nil {
		return interval.Interval{}, errors.Wrapf(err, "could not convert CIDR '%s' to IP range", cidr)
	}
	if len(ipv4Net.IP.To4()) != net.IPv4len || len(ipv4Net.Mask) != net.IPv4len {
		return interval.Interval{}, errors.Wrapf(ErrInvalidEndpoint, "not an IPv4 CIDR: '%s'", cidr)
	}

	mask := binary.BigEndian.Uint32(ipv4Net.Mask)
	start := binary.BigEndian.Uint32(ipv4Net.IP.To4())
	end := (start & mask) | (mask ^ 0xffffffff)

	return interval.NewInterval(uint64(start), uint64(end))
}

// ParseRange parses "lo-hi", a CIDR block or a single endpoint into an
// interval.
func ParseRange(s string) (interval.Interval, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		return CIDRToRange(s)
	}

	lo, hi := s, s
	if i := strings.IndexByte(s, '-'); i >= 0 {
		lo, hi = s[:i], s[i+1:]
	}
	low, err := ParseEndpoint(lo)
	if err != nil {
		return interval.Interval{}, err
	}
	high, err := ParseEndpoint(hi)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.NewInterval(low, high)
}
