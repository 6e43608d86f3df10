package maths

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Signum returns -1 for negative-signed values (including -0) and 1 otherwise.
func Signum(x float64) float64 {
	if math.Signbit(x) {
		return -1
	}
	return 1
}

func Abs(x float64) float64 {
	return x * Signum(x)
}

// Avg calculates the average of two values
func Avg(x, y float64) float64 {
	return (x + y) / 2
}

func Pow(x, y float64) float64 {
	return math.Pow(x, y)
}

func Sqrt(x float64) float64 {
	return math.Sqrt(x)
}

// CheckedDiv divides x by y, returning false if y is zero
func CheckedDiv(x, y float64) (float64, bool) {
	if y == 0 {
		return 0, false
	}
	return x / y, true
}

// Atan approximates the arc tangent of x in degrees.
// The approximation stays within ~0.3 degrees of math.Atan.
func Atan(x float64) float64 {
	pi2 := math.Pi * math.Pi
	atan := pi2 * x / (4 + Sqrt((pi2-4)*Sqrt(32)+Pow(2*math.Pi*x, 2)))
	return atan * 180 / math.Pi
}

// Lerp linearly interpolates between a and b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// WrapDegrees maps an angle of any magnitude into (-180, 180].
func WrapDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// Coerce returns a value that is at least min and at most max
func Coerce[T constraints.Ordered](value, min, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}
