package problem

import (
	"math"
	mrand "math/rand"
)

// checkedAdd returns a+b, or false if the sum does not fit in an int.
func checkedAdd(a, b int) (int, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

// checkedSub returns a-b, or false if the difference does not fit in an int.
func checkedSub(a, b int) (int, bool) {
	d := a - b
	if (b > 0 && d > a) || (b < 0 && d < a) {
		return 0, false
	}
	return d, true
}

// checkedMul returns a*b, or false if the product does not fit in an int.
func checkedMul(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

// outcome is the value an operation derives from two drawn operands: the
// sum, the non-negative difference, the product, or for division the
// dividend.
func outcome(op Operation, a, b int) (int, bool) {
	switch op {
	case OperationSubtraction:
		return checkedSub(max(a, b), min(a, b))
	case OperationMultiplication, OperationDivision:
		return checkedMul(a, b)
	default:
		return checkedAdd(a, b)
	}
}

// fitsInt reports whether every outcome of op over the two ranges fits in
// an int. The extremes of each outcome lie on the range bounds.
func fitsInt(op Operation, first, second Range) bool {
	for _, a := range [2]int{first.Min, first.Max} {
		for _, b := range [2]int{second.Min, second.Max} {
			if _, ok := outcome(op, a, b); !ok {
				return false
			}
		}
	}
	return true
}

// drawIn returns a uniform value from r. Ranges too wide for Intn are
// drawn in uint64 space.
func drawIn(rng *mrand.Rand, r Range) int {
	width := uint64(r.Max) - uint64(r.Min)
	if width < uint64(math.MaxInt) {
		return r.Min + rng.Intn(int(width)+1)
	}

	n := width + 1
	if n == 0 {
		return int(uint64(r.Min) + rng.Uint64())
	}
	// Reject the 2^64 mod n lowest values so every residue is equally likely.
	threshold := -n % n
	for {
		if v := rng.Uint64(); v >= threshold {
			return int(uint64(r.Min) + v%n)
		}
	}
}
