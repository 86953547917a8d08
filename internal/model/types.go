package model

// Category is one of the five rule categories from the security rule catalog.
type Category string

const (
	HardcodedCredentials        Category = "HardcodedCredentials"
	SSLVerificationDisabled     Category = "SSLVerificationDisabled"
	InputValidationMissing      Category = "InputValidationMissing"
	InformationDisclosureInLogs Category = "InformationDisclosureInLogs"
	InsufficientErrorHandling   Category = "InsufficientErrorHandling"
)

// Categories returns all categories in catalog document order.
func Categories() []Category {
	return []Category{
		HardcodedCredentials,
		SSLVerificationDisabled,
		InputValidationMissing,
		InformationDisclosureInLogs,
		InsufficientErrorHandling,
	}
}

// Tier is the baseline severity tier a rule carries in the catalog.
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// Band is a severity band of the risk rubric. Scores 1-10 map onto four
// bands: Low 1-3, Medium 4-6, High 7-8, Critical 9-10.
type Band string

const (
	BandCritical Band = "CRITICAL"
	BandHigh     Band = "HIGH"
	BandMedium   Band = "MEDIUM"
	BandLow      Band = "LOW"
)

// BandFor maps a severity score to its rubric band.
func BandFor(score int) Band {
	switch {
	case score >= 9:
		return BandCritical
	case score >= 7:
		return BandHigh
	case score >= 4:
		return BandMedium
	default:
		return BandLow
	}
}

// BandRange returns the inclusive score range of a band.
func BandRange(b Band) (lo, hi int) {
	switch b {
	case BandCritical:
		return 9, 10
	case BandHigh:
		return 7, 8
	case BandMedium:
		return 4, 6
	default:
		return 1, 3
	}
}

// BandRank orders bands for filtering and sorting (higher is worse).
func BandRank(b Band) int {
	switch b {
	case BandCritical:
		return 4
	case BandHigh:
		return 3
	case BandMedium:
		return 2
	default:
		return 1
	}
}
