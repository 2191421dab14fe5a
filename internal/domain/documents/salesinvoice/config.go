package salesinvoice

import "billbook/pkg/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for invoices.
	// Invoices are primary accounting documents, so numbering is gap-free.
	NumeratorStrategy = numerator.StrategyStrict

	// NumberPrefix for generated invoice numbers (INV-YYYY-NNNNN).
	NumberPrefix = "INV"
)

// LinePolicy controls what happens to input lines without a product reference.
type LinePolicy int

const (
	// LinePolicyDrop silently discards lines without a product reference.
	LinePolicyDrop LinePolicy = iota
	// LinePolicyReject fails validation when a line has no product reference.
	LinePolicyReject
)

// Config holds invoice service configuration.
type Config struct {
	// LinePolicy for lines missing a product reference. Default: drop.
	LinePolicy LinePolicy
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		LinePolicy: LinePolicyDrop,
	}
}
