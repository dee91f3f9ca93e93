package units

import "fmt"

// Quantity is a value paired with the unit it is expressed in.
type Quantity struct {
	Unit  string
	Value float64
}

// ToFundamental converts qty of the named unit into the fundamental unit of t.
// Count quantities and zero quantities pass through unchanged.
func ToFundamental(t MeasurementType, unitName string, qty float64) (Quantity, error) {
	if qty == 0 {
		return Quantity{Unit: unitName, Value: qty}, nil
	}

	switch t {
	case Count:
		return Quantity{Unit: unitName, Value: qty}, nil
	case Volume, Weight:
	default:
		return Quantity{}, fmt.Errorf("%w: %q", ErrInvalidMeasurementType, t)
	}

	unit, err := Lookup(t, unitName)
	if err != nil {
		return Quantity{}, err
	}

	table, _ := TableFor(t)
	return Quantity{
		Unit:  table.Fundamental,
		Value: (table.Reference / unit.Value) * qty,
	}, nil
}

// FromFundamental converts qty, expressed in current, into target.
//
// current must be a recognised spelling of t's fundamental unit ("mL",
// "milliliters", "Gram(s)", ...) or "count". Any other spelling is rejected
// with ErrUnknownFundamentalUnit.
func FromFundamental(t MeasurementType, current string, qty float64, target string) (Quantity, error) {
	if current == target {
		return Quantity{Unit: target, Value: qty}, nil
	}

	switch t {
	case Count:
		return Quantity{Unit: target, Value: qty}, nil
	case Volume, Weight:
	default:
		return Quantity{}, fmt.Errorf("%w: %q", ErrInvalidMeasurementType, t)
	}

	unit, err := Lookup(t, target)
	if err != nil {
		return Quantity{}, err
	}

	if current == string(Count) {
		return Quantity{Unit: target, Value: qty}, nil
	}

	table, _ := TableFor(t)
	if !table.isFundamental(current) {
		return Quantity{}, fmt.Errorf("%w: %q is not the %s fundamental unit", ErrUnknownFundamentalUnit, current, t)
	}

	return Quantity{
		Unit:  target,
		Value: (unit.Value / table.Reference) * qty,
	}, nil
}
