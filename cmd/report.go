package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/inference-sim/fracalloc/alloc"
	"github.com/inference-sim/fracalloc/alloc/config"
)

// Report is the solve command's output.
type Report struct {
	PriceUnit     string          `json:"priceUnit"`
	QuantityUnit  string          `json:"quantityUnit"`
	TotalQuantity float64         `json:"totalQuantity"`
	Interval      float64         `json:"interval"`
	Allocations   []UseAllocation `json:"allocations"`
	TotalRevenue  float64         `json:"totalRevenue"`
	Evaluated     int             `json:"evaluated"`
	Excluded      int             `json:"excluded"`
}

// UseAllocation is one use's share of the winning allocation.
type UseAllocation struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

func newReport(cfg *config.Config, uses []alloc.Use, interval float64, res *alloc.Result) Report {
	r := Report{
		PriceUnit:     cfg.PriceUnit,
		QuantityUnit:  cfg.QuantityUnit,
		TotalQuantity: cfg.TotalQuantity,
		Interval:      interval,
		Allocations:   make([]UseAllocation, len(uses)),
		TotalRevenue:  res.Revenue,
		Evaluated:     res.Evaluated,
		Excluded:      res.Excluded,
	}
	for i, u := range uses {
		r.Allocations[i] = UseAllocation{Name: u.Name, Quantity: res.Allocation[i], Revenue: res.UseRevenue[i]}
	}
	return r
}

// WriteText prints one line per use followed by the total revenue.
func (r Report) WriteText(w io.Writer) error {
	for _, a := range r.Allocations {
		if _, err := fmt.Fprintf(w, "Quantity for %s:\t%.2f%s\n", a.Name, a.Quantity, unitSuffix(r.QuantityUnit)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total Revenue: %.2f%s\n", r.TotalRevenue, unitSuffix(r.PriceUnit))
	return err
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " " + unit
}
