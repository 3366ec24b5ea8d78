package common

const (
	// DefaultMassWeight is the mass contribution given to a freshly attached shape.
	DefaultMassWeight = 1.0

	// DefaultAABBMargin fattens broad-phase boxes so small moves skip a tree update.
	DefaultAABBMargin = 0.1

	// Epsilon is the tolerance used by geometric comparisons.
	Epsilon = 1e-9
)
