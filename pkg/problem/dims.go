package problem

import "fmt"

// Dimensions are the three integers at the head of every problem file. They
// size every block that follows.
type Dimensions struct {
	Views        int `json:"views" yaml:"views"`
	Points       int `json:"points" yaml:"points"`
	Observations int `json:"observations" yaml:"observations"`
}

// Limits bound what a loader is willing to allocate for a single problem.
type Limits struct {
	MaxViews        int `yaml:"max_views"`
	MaxPoints       int `yaml:"max_points"`
	MaxObservations int `yaml:"max_observations"`
	// MaxElements caps the total number of doubles across all buffers.
	MaxElements int `yaml:"max_elements"`
}

// DefaultLimits bounds dimensions well above any real capture session.
func DefaultLimits() Limits {
	return Limits{
		MaxViews:        4096,
		MaxPoints:       1 << 16,
		MaxObservations: 1 << 16,
		MaxElements:     1 << 28,
	}
}

// withDefaults fills zero limits from DefaultLimits.
func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxViews <= 0 {
		l.MaxViews = def.MaxViews
	}
	if l.MaxPoints <= 0 {
		l.MaxPoints = def.MaxPoints
	}
	if l.MaxObservations <= 0 {
		l.MaxObservations = def.MaxObservations
	}
	if l.MaxElements <= 0 {
		l.MaxElements = def.MaxElements
	}
	return l
}

// Validate rejects negative or oversized counts. It runs before any buffer
// is allocated.
func (d Dimensions) Validate(l Limits) error {
	l = l.withDefaults()
	switch {
	case d.Views < 0 || d.Points < 0 || d.Observations < 0:
		return fmt.Errorf("%w: negative count in %s", ErrInvalidDimensions, d)
	case d.Views > l.MaxViews:
		return fmt.Errorf("%w: %d views exceeds limit %d", ErrInvalidDimensions, d.Views, l.MaxViews)
	case d.Points > l.MaxPoints:
		return fmt.Errorf("%w: %d points exceeds limit %d", ErrInvalidDimensions, d.Points, l.MaxPoints)
	case d.Observations > l.MaxObservations:
		return fmt.Errorf("%w: %d observations exceeds limit %d", ErrInvalidDimensions, d.Observations, l.MaxObservations)
	}
	return nil
}

func (d Dimensions) String() string {
	return fmt.Sprintf("views=%d points=%d observations=%d", d.Views, d.Points, d.Observations)
}
