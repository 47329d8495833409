package alloc

import (
	"errors"
	"fmt"
)

// CurvePoint is one sample of a use's price and revenue.
type CurvePoint struct {
	Quantity  float64
	Effective float64 // Quantity * Multiplier
	Price     float64
	Revenue   float64
	// Defined is false where the price model is undefined; Price and Revenue
	// are zero at such points.
	Defined bool
}

// RevenueCurve samples u at quantities 0, interval, 2*interval, ... up to
// total, using the same step budget as Enumerate so the samples line up with
// the quantities the search can assign to a single use.
func RevenueCurve(u Use, total, interval float64) ([]CurvePoint, error) {
	steps, err := stepBudget(total, interval, 1)
	if err != nil {
		return nil, err
	}
	if u.Price == nil {
		return nil, fmt.Errorf("%w: use %q has no price model", ErrConfiguration, u.Name)
	}
	points := make([]CurvePoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		q := float64(i) * interval
		pt := CurvePoint{Quantity: q, Effective: q * u.Multiplier}
		price, perr := u.Price.Price(pt.Effective)
		revenue, rerr := u.Revenue(q)
		switch {
		case perr == nil && rerr == nil:
			pt.Price, pt.Revenue, pt.Defined = price, revenue, true
		case errors.Is(perr, ErrNumericDomain) || errors.Is(rerr, ErrNumericDomain):
		default:
			return nil, errors.Join(perr, rerr)
		}
		points = append(points, pt)
	}
	return points, nil
}
