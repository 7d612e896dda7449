// Package pricing holds the pure price rules of the economy. No state,
// no I/O: every function maps an input price to an output price.
package pricing

// EscalationNumerator / EscalationDenominator encode the 1.5x growth
// applied to a fan's price on every acquisition. Integer math keeps the
// result exact: floor(price * 1.5) == price * 3 / 2 for non-negative prices.
const (
	EscalationNumerator   = 3
	EscalationDenominator = 2
)

// Escalate returns the fan price in effect after one acquisition:
// floor(currentPrice * 1.5). The result never decreases for
// non-negative inputs.
func Escalate(currentPrice int64) int64 {
	return currentPrice * EscalationNumerator / EscalationDenominator
}
