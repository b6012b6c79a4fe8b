package utils

import (
	"fmt"
)

// CombinationKey returns the canonical "min-max" key for a two-number
// pick, so that (12, 5) and (5, 12) map to the same key "5-12". Win
// matching compares these keys directly.
func CombinationKey(n1, n2 int) string {
	if n1 > n2 {
		n1, n2 = n2, n1
	}
	return fmt.Sprintf("%d-%d", n1, n2)
}

// NumberInRange reports whether n is a valid ball number for the given
// configured range.
func NumberInRange(n, min, max int) bool {
	return n >= min && n <= max
}
