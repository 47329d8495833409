package alloc

import (
	"fmt"
	"math"
)

// Use is one competing consumer of the resource.
// A Use is built once from configuration and shared read-only afterwards.
type Use struct {
	Name string
	// Multiplier scales an allocated quantity into the effective quantity
	// the price model is evaluated at.
	Multiplier float64
	Price      PriceModel
}

// Revenue returns Multiplier * quantity * Price(quantity * Multiplier).
func (u Use) Revenue(quantity float64) (float64, error) {
	if u.Price == nil {
		return 0, fmt.Errorf("%w: use %q has no price model", ErrConfiguration, u.Name)
	}
	effective := quantity * u.Multiplier
	price, err := u.Price.Price(effective)
	if err != nil {
		return 0, fmt.Errorf("use %q: %w", u.Name, err)
	}
	revenue := u.Multiplier * quantity * price
	if math.IsNaN(revenue) || math.IsInf(revenue, 0) {
		return 0, fmt.Errorf("use %q: %w: revenue at quantity=%g is %g", u.Name, ErrNumericDomain, quantity, revenue)
	}
	return revenue, nil
}

func checkUses(uses []Use) error {
	if len(uses) < MinUses {
		return fmt.Errorf("%w: at least %d uses required, got %d", ErrConfiguration, MinUses, len(uses))
	}
	for i, u := range uses {
		if u.Price == nil {
			return fmt.Errorf("%w: use[%d] %q has no price model", ErrConfiguration, i, u.Name)
		}
	}
	return nil
}
