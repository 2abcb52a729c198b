package scoring

import "fmt"

const (
	MinRating = 1
	MaxRating = 5
)

// RatingRange bounds the rating (skor) drawn for a factor.
type RatingRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

func DefaultRatingRange() RatingRange {
	return RatingRange{Min: 2, Max: 5}
}

// Validate checks that the range is non-empty and inside [MinRating, MaxRating].
func (r RatingRange) Validate() error {
	if r.Min < MinRating || r.Max > MaxRating {
		return fmt.Errorf("rating range [%d, %d] outside [%d, %d]", r.Min, r.Max, MinRating, MaxRating)
	}
	if r.Min > r.Max {
		return fmt.Errorf("rating range min %d above max %d", r.Min, r.Max)
	}
	return nil
}

func (r RatingRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}
