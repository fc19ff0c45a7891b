// Package ledger computes bill-split shares, nets pairwise debts, and
// reduces the resulting balance graph to a small set of settlement
// instructions.
//
// Amounts cross the package boundary as rupee float64 values, matching the
// rest of the system. Internally every computation runs in integer paise so
// that shares sum to the split total exactly and balances cancel to true
// zero instead of floating-point dust.
package ledger

import "math"

// Tolerance for caller-supplied amounts: anything within one paisa is
// considered equal.
const epsilon = 0.01

// toPaise converts rupees to integer paise, rounding half away from zero.
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// toRupees converts integer paise back to rupees.
func toRupees(paise int64) float64 {
	return float64(paise) / 100
}
