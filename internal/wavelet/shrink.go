package wavelet

import (
	"fmt"
	"math"
)

// Shrinkage selects the rule applied to detail coefficients during
// reconstruction to suppress noise.
type Shrinkage int

const (
	// ShrinkNone applies no filtering.
	ShrinkNone Shrinkage = iota
	// ShrinkHard zeroes coefficients with |d| <= T and keeps the rest.
	ShrinkHard
	// ShrinkSoft zeroes coefficients with |d| <= T and moves the rest
	// toward zero by T.
	ShrinkSoft
	// ShrinkGarrote applies the non-negative garrote: d - T²/d for
	// |d| > T, zero otherwise. A compromise between hard and soft that
	// better preserves large coefficients.
	ShrinkGarrote
)

// String returns the rule name used in CLI flags and logs.
func (s Shrinkage) String() string {
	switch s {
	case ShrinkNone:
		return "none"
	case ShrinkHard:
		return "hard"
	case ShrinkSoft:
		return "soft"
	case ShrinkGarrote:
		return "garrote"
	}
	return fmt.Sprintf("Shrinkage(%d)", int(s))
}

// ParseShrinkage maps a rule name to its Shrinkage value.
func ParseShrinkage(name string) (Shrinkage, error) {
	switch name {
	case "none":
		return ShrinkNone, nil
	case "hard":
		return ShrinkHard, nil
	case "soft":
		return ShrinkSoft, nil
	case "garrote":
		return ShrinkGarrote, nil
	}
	return ShrinkNone, fmt.Errorf("unknown shrinkage %q (want none, hard, soft, or garrote)", name)
}

// HardShrink keeps d unchanged when |d| > t, otherwise returns zero.
func HardShrink(d, t float64) float64 {
	if math.Abs(d) > t {
		return d
	}
	return 0
}

// SoftShrink returns sgn(d)*(|d|-t) when |d| > t, otherwise zero.
func SoftShrink(d, t float64) float64 {
	abs := math.Abs(d)
	if abs > t {
		return sgn(d) * (abs - t)
	}
	return 0
}

// GarroteShrink returns d - t²/d when |d| > t, otherwise zero.
func GarroteShrink(d, t float64) float64 {
	if math.Abs(d) > t {
		return d - (t*t)/d
	}
	return 0
}

func (s Shrinkage) fn() (func(d, t float64) float64, error) {
	switch s {
	case ShrinkNone:
		return nil, nil
	case ShrinkHard:
		return HardShrink, nil
	case ShrinkSoft:
		return SoftShrink, nil
	case ShrinkGarrote:
		return GarroteShrink, nil
	}
	return nil, fmt.Errorf("unknown shrinkage %d", int(s))
}

func sgn(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
