// Package domain contains the core domain types for the arbitrage context.
package domain

// Verdict classifies an evaluated opportunity.
type Verdict string

const (
	// VerdictExecutable means the round trip nets positive after all fees.
	VerdictExecutable Verdict = "EXECUTABLE"

	// VerdictAcceptableLoss means the round trip loses money, but within
	// the configured tolerance. Useful for keeper warm-up and testing.
	VerdictAcceptableLoss Verdict = "ACCEPTABLE_LOSS"

	// VerdictRejected means the loss exceeds the tolerance.
	VerdictRejected Verdict = "REJECTED"
)

// Actionable reports whether an execution request may be built from an
// evaluation that carries this verdict.
func (v Verdict) Actionable() bool {
	return v == VerdictExecutable || v == VerdictAcceptableLoss
}

// String returns a human-readable description of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictExecutable:
		return "Executable (net profit after fees)"
	case VerdictAcceptableLoss:
		return "Acceptable loss (within tolerance)"
	case VerdictRejected:
		return "Rejected (loss exceeds tolerance)"
	default:
		return "Unknown"
	}
}
