// Package pricing is the single source of truth for the estimate math:
// waste factor, per-line cost formulas and quote totals. Every caller prices
// through this package instead of re-deriving the formulas.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// Units of measure used by the price book.
const (
	UnitSquareFoot = "SF"
	UnitLinearFoot = "LF"
	UnitEach       = "EA"
)

// ErrInvalidArea is returned for negative or NaN area inputs.
var ErrInvalidArea = errors.New("area must be a non-negative number")

// Config carries the business parameters that are supplied externally.
// The profit percentage is deliberately not a constant anywhere else in the
// codebase; historical copies of the calculator disagreed on its value.
type Config struct {
	// ProfitPercent is the pro-mode margin, e.g. 42.61 for 42.61%.
	ProfitPercent float64
}

// WasteFactor maps a raw measured area in square feet to the material waste
// multiplier. Boundaries are inclusive: 25 and 50 both map to 1.20.
func WasteFactor(areaSqFt float64) (float64, error) {
	if math.IsNaN(areaSqFt) || areaSqFt < 0 {
		return 0, fmt.Errorf("waste factor: %w (got %v)", ErrInvalidArea, areaSqFt)
	}
	switch {
	case areaSqFt < 25:
		return 1.30, nil
	case areaSqFt <= 50:
		return 1.20, nil
	default:
		return 1.15, nil
	}
}

// LineInput describes a single quote line to be priced.
type LineInput struct {
	Unit      string
	UnitPrice float64
	// Quantity is square feet for SF lines, linear feet for LF lines and a
	// count for EA lines.
	Quantity float64
	// ApplyWaste marks area-measured material lines whose cost carries the
	// waste multiplier. Flat-fee and per-length lines leave it false.
	ApplyWaste bool
}

// LineCost prices one quote line.
//
// SF lines with ApplyWaste set are multiplied by the waste factor for their
// own area; all other lines are plain unit price times quantity.
func LineCost(in LineInput) (float64, error) {
	if math.IsNaN(in.Quantity) || in.Quantity < 0 {
		return 0, fmt.Errorf("line cost: %w (got %v)", ErrInvalidArea, in.Quantity)
	}
	switch in.Unit {
	case UnitSquareFoot, UnitLinearFoot, UnitEach:
	default:
		return 0, fmt.Errorf("line cost: unknown unit %q", in.Unit)
	}

	cost := in.UnitPrice * in.Quantity
	if in.ApplyWaste && in.Unit == UnitSquareFoot {
		factor, err := WasteFactor(in.Quantity)
		if err != nil {
			return 0, err
		}
		cost *= factor
	}
	return cost, nil
}

// BacksplashFeet converts client-measured backsplash inches to the linear
// feet the price book bills in.
func BacksplashFeet(linearInches float64) float64 {
	return linearInches / 12
}

// Totals is the roll-up of a quote.
type Totals struct {
	Subtotal float64
	Profit   float64
	Total    float64
}

// Aggregate sums line costs into quote totals. Profit is added only when
// proMode is enabled, at the configured percentage of the subtotal.
func Aggregate(lineCosts []float64, proMode bool, cfg Config) Totals {
	var t Totals
	for _, c := range lineCosts {
		t.Subtotal += c
	}
	if proMode {
		t.Profit = t.Subtotal * cfg.ProfitPercent / 100
	}
	t.Total = t.Subtotal + t.Profit
	return t
}

// Round2 rounds a money amount to cents for display and persistence.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
