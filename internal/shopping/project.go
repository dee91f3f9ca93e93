package shopping

import (
	"fmt"
	"math"

	"mealplanner/internal/units"
)

// RoundToNearestHalf rounds x up to the next multiple of 0.5.
func RoundToNearestHalf(x float64) float64 {
	return math.Ceil(x*2) / 2
}

// trimFloatNoise drops digits below 1e-9 so a conversion that lands on
// 8.000000000000002 is rounded as 8.
func trimFloatNoise(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}

// Projected is a merged entry converted into base and shopping units.
type Projected struct {
	Entry
	ImperialBase        units.Quantity
	MetricBase          units.Quantity
	ImperialShoppingQty float64
	MetricShoppingQty   float64
}

// Project converts a merged entry's fundamental quantities into the
// ingredient's base units and then into rounded shopping quantities.
//
// The imperial and metric sides are converted independently. Lines that
// cannot be converted are still emitted: a side without a usable base falls
// back to the plan quantity (or 1) in Item(s), a side whose base unit is
// unknown falls back to the ingredient's rounded shopping quantity, and the
// reason is appended to Issues.
func Project(entry Entry) Projected {
	p := Projected{Entry: entry}
	p.Issues = append([]error(nil), entry.Issues...)
	ing := entry.Ingredient

	imperial := localeSide{
		name:        "imperial",
		planQty:     entry.MealPlanImperialQty,
		baseUnit:    ing.ImperialBaseUnit,
		baseQty:     ing.ImperialBaseQty,
		shoppingQty: ing.ImperialShoppingQty,
	}.project(p.Type)
	metric := localeSide{
		name:        "metric",
		planQty:     entry.MealPlanMetricQty,
		baseUnit:    ing.MetricBaseUnit,
		baseQty:     ing.MetricBaseQty,
		shoppingQty: ing.MetricShoppingQty,
	}.project(p.Type)

	p.ImperialBase, p.ImperialShoppingQty = imperial.base, imperial.shopping
	p.MetricBase, p.MetricShoppingQty = metric.base, metric.shopping
	p.Issues = append(p.Issues, imperial.issues...)
	p.Issues = append(p.Issues, metric.issues...)
	return p
}

type localeSide struct {
	name        string
	planQty     float64 // in the fundamental unit
	baseUnit    string
	baseQty     float64
	shoppingQty float64
}

type sideResult struct {
	base     units.Quantity
	shopping float64
	issues   []error
}

func (s localeSide) project(mtype units.MeasurementType) sideResult {
	var r sideResult

	if mtype != units.Count && mtype != "" && s.planQty > 0 && s.baseUnit != "" {
		fundamental := units.FundamentalUnit(mtype)
		base, err := units.FromFundamental(mtype, fundamental, s.planQty, s.baseUnit)
		if err != nil {
			r.base = units.Quantity{Unit: fundamental, Value: s.planQty}
			r.shopping = RoundToNearestHalf(math.Max(s.shoppingQty, 0))
			r.issues = append(r.issues, fmt.Errorf("%w: %s base conversion: %w", ErrConversionUnderflow, s.name, err))
			return r
		}
		r.base = base
	} else {
		r.base = units.Quantity{Unit: units.Items, Value: s.planQty}
		if r.base.Value <= 0 {
			r.base.Value = 1
			r.issues = append(r.issues, fmt.Errorf("%w: no usable %s quantity, assumed 1", ErrDefaultedQuantity, s.name))
		}
	}

	if s.shoppingQty > 0 && s.baseQty > 0 {
		r.shopping = RoundToNearestHalf(trimFloatNoise(s.shoppingQty / s.baseQty * r.base.Value))
		if r.shopping <= 0 {
			r.shopping = s.shoppingQty
			r.issues = append(r.issues, fmt.Errorf("%w: %s shopping quantity rounded to zero", ErrDefaultedQuantity, s.name))
		}
		return r
	}

	r.shopping = RoundToNearestHalf(math.Max(s.shoppingQty, 0))
	if r.shopping == 0 {
		r.issues = append(r.issues, fmt.Errorf("%w: no %s shopping quantity on ingredient", ErrConversionUnderflow, s.name))
	} else {
		r.issues = append(r.issues, fmt.Errorf("%w: using the ingredient's %s shopping quantity", ErrConversionUnderflow, s.name))
	}
	return r
}
