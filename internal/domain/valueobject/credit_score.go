package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// CreditScore – immutable value object
// ---------------------------------------------------------------------------

// Credit score bounds. Deployments with a different bureau model can override
// the effective range at the gateway layer; the domain invariant is this one.
const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

// ScoreCategory is the qualitative band a score falls into.
type ScoreCategory string

const (
	ScoreCategoryExcellent ScoreCategory = "EXCELLENT"
	ScoreCategoryGood      ScoreCategory = "GOOD"
	ScoreCategoryFair      ScoreCategory = "FAIR"
	ScoreCategoryPoor      ScoreCategory = "POOR"
	ScoreCategoryVeryPoor  ScoreCategory = "VERY_POOR"
)

// CreditScore is an integer credit score bounded to [300, 850].
type CreditScore struct {
	value int
}

// NewCreditScore creates a CreditScore after validating the bounds.
func NewCreditScore(value int) (CreditScore, error) {
	if value < MinCreditScore || value > MaxCreditScore {
		return CreditScore{}, fmt.Errorf("%w: credit score %d outside [%d, %d]",
			ErrInvalidInput, value, MinCreditScore, MaxCreditScore)
	}
	return CreditScore{value: value}, nil
}

// MustCreditScore creates a CreditScore and panics on error. Test fixtures only.
func MustCreditScore(value int) CreditScore {
	s, err := NewCreditScore(value)
	if err != nil {
		panic(err)
	}
	return s
}

// Value returns the raw integer score.
func (s CreditScore) Value() int { return s.value }

// IsZero returns true if the score has not been initialised.
func (s CreditScore) IsZero() bool { return s.value == 0 }

// Category maps the score onto its qualitative band. The bands partition the
// whole valid range: every score in [300, 850] lands in exactly one category.
func (s CreditScore) Category() ScoreCategory {
	switch {
	case s.value >= 750:
		return ScoreCategoryExcellent
	case s.value >= 700:
		return ScoreCategoryGood
	case s.value >= 650:
		return ScoreCategoryFair
	case s.value >= 600:
		return ScoreCategoryPoor
	default:
		return ScoreCategoryVeryPoor
	}
}

// Equal reports structural equality.
func (s CreditScore) Equal(other CreditScore) bool { return s.value == other.value }

// String returns the decimal representation of the score.
func (s CreditScore) String() string { return fmt.Sprintf("%d", s.value) }
