package carpet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidDepth is returned by ParseDepth for text that is not a number.
var ErrInvalidDepth = errors.New("invalid depth")

// NormalizeDepth coerces a raw control value into a recursion depth.
// NaN, infinities and values below 1 map to 0 (no cubes). Fractional values
// are truncated toward zero, so 2.9 is depth 2.
func NormalizeDepth(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 1 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// ParseDepth parses slider text ("3", "2.0", " 4 ") into a depth.
// Unparseable text yields 0 and an error wrapping ErrInvalidDepth.
func ParseDepth(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidDepth, s, err)
	}
	return NormalizeDepth(v), nil
}
