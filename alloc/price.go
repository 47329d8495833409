package alloc

import (
	"fmt"
	"math"
)

// Pricing model discriminators as they appear in configuration files.
const (
	KindLinear      = "linear"
	KindExponential = "exponential"
)

// PriceModel maps an effective quantity to a unit price.
// Implementations are immutable value types.
type PriceModel interface {
	// Price returns the unit price at effective quantity x, or an error
	// wrapping ErrNumericDomain if the model is undefined at x.
	Price(x float64) (float64, error)
	// Kind reports the configuration discriminator for this model.
	Kind() string
}

// Linear prices a unit as Slope*x + Offset.
type Linear struct {
	Slope  float64
	Offset float64
}

func (l Linear) Price(x float64) (float64, error) {
	p := l.Slope*x + l.Offset
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: linear price at x=%g is %g", ErrNumericDomain, x, p)
	}
	return p, nil
}

func (Linear) Kind() string { return KindLinear }

// Power prices a unit as 1/(Coefficient*(x-Shift)^Exponent) + Offset.
// Configuration files call this shape "exponential".
type Power struct {
	Coefficient float64
	Shift       float64 // horizontal shift b
	Exponent    float64
	Offset      float64
}

func (p Power) Price(x float64) (float64, error) {
	base := x - p.Shift
	if base == 0 && p.Exponent < 0 {
		return 0, fmt.Errorf("%w: power price at x=%g raises zero to negative exponent %g", ErrNumericDomain, x, p.Exponent)
	}
	pow := math.Pow(base, p.Exponent)
	if math.IsInf(pow, 0) {
		return 0, fmt.Errorf("%w: power price at x=%g overflows", ErrNumericDomain, x)
	}
	denom := p.Coefficient * pow
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return 0, fmt.Errorf("%w: power price denominator at x=%g is %g", ErrNumericDomain, x, denom)
	}
	price := 1/denom + p.Offset
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: power price at x=%g is %g", ErrNumericDomain, x, price)
	}
	return price, nil
}

func (Power) Kind() string { return KindExponential }
