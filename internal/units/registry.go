// Package units holds the measurement tables used to normalise recipe quantities
// into a fundamental unit (millilitres for volume, grams for weight) and back.
package units

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidMeasurementType = errors.New("units: invalid measurement type")
	ErrInvalidUnit            = errors.New("units: invalid unit")
	ErrUnknownFundamentalUnit = errors.New("units: unknown fundamental unit")
)

// MeasurementType is the physical dimension of an ingredient.
type MeasurementType string

const (
	Volume MeasurementType = "volume"
	Weight MeasurementType = "weight"
	Count  MeasurementType = "count"
)

const (
	Milliliters = "mL"
	Grams       = "g"
	Items       = "Item(s)"
)

// ParseMeasurementType validates a measurement type, case-insensitively.
func ParseMeasurementType(value string) (MeasurementType, error) {
	switch t := MeasurementType(strings.ToLower(strings.TrimSpace(value))); t {
	case Volume, Weight, Count:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMeasurementType, value)
}

// Unit is a named unit and how many of it make up its table's reference total.
// A volume Cup(s) value of 4 means four cups equal 946 mL.
type Unit struct {
	Name    string
	Value   float64
	Aliases []string
}

// Table lists the units of one measurement type against a reference total
// expressed in the type's fundamental unit.
type Table struct {
	Type        MeasurementType
	Fundamental string
	Reference   float64
	Spellings   []string // accepted spellings of the fundamental unit
	Units       []Unit
}

var volumeTable = Table{
	Type:        Volume,
	Fundamental: Milliliters,
	Reference:   946,
	Spellings:   []string{"mL", "milliliters", "millilitres", "Milliliter(s)"},
	Units: []Unit{
		{Name: "Cup(s)", Value: 4, Aliases: []string{"c"}},
		{Name: "Pint(s)", Value: 2, Aliases: []string{"pt"}},
		{Name: "Quart(s)", Value: 1, Aliases: []string{"qt"}},
		{Name: "Gallon(s)", Value: 0.25, Aliases: []string{"gal"}},
		{Name: "Ounce(s)", Value: 32, Aliases: []string{"oz"}},
		{Name: "Fluid Ounce(s)", Value: 32, Aliases: []string{"fl oz", "fl. oz"}},
		{Name: "Tablespoon(s)", Value: 64, Aliases: []string{"tbsp", "tbs", "T"}},
		{Name: "Teaspoon(s)", Value: 192, Aliases: []string{"tsp", "t"}},
		{Name: "Milliliter(s)", Value: 946, Aliases: []string{"ml", "millilitre"}},
		{Name: "Liter(s)", Value: 0.946, Aliases: []string{"l", "L", "litre"}},
	},
}

var weightTable = Table{
	Type:        Weight,
	Fundamental: Grams,
	Reference:   453.6,
	Spellings:   []string{"g", "grams", "Gram(s)"},
	Units: []Unit{
		{Name: "Teaspoon(s)", Value: 96, Aliases: []string{"tsp", "t"}},
		{Name: "Tablespoon(s)", Value: 32, Aliases: []string{"tbsp", "tbs", "T"}},
		{Name: "Ounce(s)", Value: 16, Aliases: []string{"oz"}},
		{Name: "Pound(s)", Value: 1, Aliases: []string{"lb", "lbs"}},
		{Name: "Cup(s)", Value: 2, Aliases: []string{"c"}},
		{Name: "Pint(s)", Value: 1, Aliases: []string{"pt"}},
		{Name: "Gram(s)", Value: 453.6, Aliases: []string{"g"}},
		{Name: "Kilogram(s)", Value: 0.4536, Aliases: []string{"kg"}},
	},
}

// TableFor returns the unit table for a measurement type. Count has no table.
func TableFor(t MeasurementType) (Table, bool) {
	switch t {
	case Volume:
		return volumeTable, true
	case Weight:
		return weightTable, true
	default:
		return Table{}, false
	}
}

// FundamentalUnit returns the fundamental unit name for a measurement type.
func FundamentalUnit(t MeasurementType) string {
	if table, ok := TableFor(t); ok {
		return table.Fundamental
	}
	return string(Count)
}

// Lookup finds the named unit in the table for t.
//
// An exact case-insensitive match on the name or an alias wins, with the "(s)"
// plural suffix optional. Otherwise the first unit, in table order, whose name
// contains the requested text is returned; so "ounce" resolves to Ounce(s)
// rather than Fluid Ounce(s).
func Lookup(t MeasurementType, name string) (Unit, error) {
	table, ok := TableFor(t)
	if !ok {
		if t == Count {
			return Unit{}, fmt.Errorf("%w: count has no named units", ErrInvalidUnit)
		}
		return Unit{}, fmt.Errorf("%w: %q", ErrInvalidMeasurementType, t)
	}

	raw := strings.TrimSpace(name)
	key := canonical(raw)
	if key == "" {
		return Unit{}, fmt.Errorf("%w: empty %s unit", ErrInvalidUnit, t)
	}

	for _, unit := range table.Units {
		if canonical(unit.Name) == key {
			return unit, nil
		}
		for _, alias := range unit.Aliases {
			// single-letter aliases are case-sensitive (T vs t)
			if len(alias) == 1 {
				if alias == raw {
					return unit, nil
				}
				continue
			}
			if canonical(alias) == key {
				return unit, nil
			}
		}
	}

	needle := strings.ToLower(raw)
	for _, unit := range table.Units {
		if strings.Contains(strings.ToLower(unit.Name), needle) {
			return unit, nil
		}
	}

	return Unit{}, fmt.Errorf("%w: %q is not a %s unit", ErrInvalidUnit, name, t)
}

// canonical lowercases a unit name and strips the plural markers "(s)" and "s".
func canonical(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, "(s)")
	key = strings.TrimSuffix(key, ".")
	if len(key) > 3 {
		key = strings.TrimSuffix(key, "s")
	}
	return strings.TrimSpace(key)
}

func (t Table) isFundamental(unit string) bool {
	for _, spelling := range t.Spellings {
		if unit == spelling {
			return true
		}
	}
	return false
}
