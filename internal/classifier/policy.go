package classifier

// ConfidencePolicy maps the number of distinct matched keywords for one
// category to a confidence score. It is only called with matched >= 1.
type ConfidencePolicy func(matched int) float64

// Default policy constants.
const (
	DefaultBase = 0.6
	DefaultStep = 0.1
)

// Linear returns base + step*matched with no upper bound. Enough matches push
// the score past 1.0.
func Linear(base, step float64) ConfidencePolicy {
	return func(matched int) float64 {
		return base + step*float64(matched)
	}
}

// Clamped caps the scores produced by p at limit.
func Clamped(p ConfidencePolicy, limit float64) ConfidencePolicy {
	return func(matched int) float64 {
		return min(p(matched), limit)
	}
}

// DefaultPolicy is Linear(DefaultBase, DefaultStep), unclamped.
func DefaultPolicy() ConfidencePolicy {
	return Linear(DefaultBase, DefaultStep)
}
