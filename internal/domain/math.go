package domain

import (
	"math"
	"strconv"
)

// ShareEpsilon is the tolerance used for every "is this position empty"
// comparison. Repeated average-cost divisions leave float drift on share
// counts, so exact equality against zero is never used.
const ShareEpsilon = 1e-6

// SafeFloat coerces NaN and infinities to zero. Missing or unparseable
// numeric fields degrade to zero rather than poisoning downstream totals.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SafeDiv divides a by b, returning zero for a zero divisor.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return SafeFloat(a / b)
}

// IsZeroShares reports whether a share count is empty within ShareEpsilon.
func IsZeroShares(shares float64) bool {
	return math.Abs(shares) < ShareEpsilon
}

// FormatNumber renders a float with the minimal number of digits.
// Used for content hashing, so the rendering must be stable.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(SafeFloat(v), 'f', -1, 64)
}
