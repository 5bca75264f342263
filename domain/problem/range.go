package problem

import "fmt"

// Range is a closed integer interval [Min, Max].
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// NewRange creates a range without validating it.
func NewRange(lo, hi int) Range {
	return Range{Min: lo, Max: hi}
}

// Validate checks that Min <= Max. The prefix names the range in the
// error, e.g. "first" yields "first-min: 5 > first-max 3".
func (r Range) Validate(prefix string) error {
	if r.Min > r.Max {
		return &ValidationError{
			Field:   prefix + "-min",
			Message: fmt.Sprintf("%d > %s-max %d", r.Min, prefix, r.Max),
			Err:     ErrInvalidRange,
		}
	}
	return nil
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// String returns the range as "min-max".
func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}
