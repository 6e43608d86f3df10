package joystick

import (
	"math"

	"github.com/bot-go-brr/brain/internal/maths"
)

const (
	// MaxRaw is the largest magnitude an analog stick reports
	MaxRaw = 127
	// MaxVoltage is the largest drive voltage in millivolts
	MaxVoltage = 12000

	// DefaultK1 scales the exponential response
	DefaultK1 = 1024.0
	// DefaultBase satisfies 1024 * base - 1024 == 12000
	DefaultBase = 12.71875
)

// Shaper maps a normalized stick deflection through an exponential response curve
// y = sign(x) * (K1 * Base^|x| - K1).
type Shaper struct {
	K1   float64 `json:"k1"`
	Base float64 `json:"base"`
}

var DefaultShaper = Shaper{
	K1:   DefaultK1,
	Base: DefaultBase,
}

// NewShaperForMax creates a Shaper with the given k1 whose output at full
// deflection equals max.
func NewShaperForMax(k1 float64, max float64) Shaper {
	return Shaper{
		K1:   k1,
		Base: (max + k1) / k1,
	}
}

// Shape passes x (-1..1) through the response curve, producing -12000..12000
func (s Shaper) Shape(x float64) float64 {
	x = maths.Coerce(x, -1, 1)
	return (s.K1*maths.Pow(s.Base, maths.Abs(x)) - s.K1) * maths.Signum(x)
}

// ShapeRaw normalizes a raw analog reading and shapes it
func (s Shaper) ShapeRaw(raw int) float64 {
	return s.Shape(Normalize(raw))
}

// Shape passes x through the default response curve
func Shape(x float64) float64 {
	return DefaultShaper.Shape(x)
}

// Normalize converts a raw analog reading (-127..127) into -1..1
func Normalize(raw int) float64 {
	return maths.Coerce(float64(raw)/MaxRaw, -1, 1)
}

// Voltage rounds a shaped value to whole millivolts
func Voltage(shaped float64) int {
	return int(math.Round(shaped))
}
