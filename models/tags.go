package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDietVariant    = errors.New("models: invalid diet variant")
	ErrInvalidUnitPreference = errors.New("models: invalid unit preference")
	ErrUnknownCategory       = errors.New("models: unknown category")
)

// DietVariant selects one of the ingredient lists a recipe carries.
type DietVariant string

const (
	DietOmnivore   DietVariant = "omnivore"
	DietVegetarian DietVariant = "vegetarian"
	DietVegan      DietVariant = "vegan"
	DietDairyFree  DietVariant = "dairy_free"
)

// ParseDietVariant maps a free-text diet selector onto a DietVariant.
// Matching is case-insensitive and treats spaces and hyphens as underscores.
func ParseDietVariant(value string) (DietVariant, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch DietVariant(key) {
	case DietOmnivore, DietVegetarian, DietVegan, DietDairyFree:
		return DietVariant(key), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDietVariant, value)
}

// UnitPreference selects the locale a shopping list is projected into.
type UnitPreference string

const (
	UnitPreferenceImperial UnitPreference = "imperial"
	UnitPreferenceMetric   UnitPreference = "metric"

	DefaultUnitPreference = UnitPreferenceImperial
)

// ParseUnitPreference validates a unit preference, case-insensitively.
func ParseUnitPreference(value string) (UnitPreference, error) {
	switch pref := UnitPreference(strings.ToLower(strings.TrimSpace(value))); pref {
	case UnitPreferenceImperial, UnitPreferenceMetric:
		return pref, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnitPreference, value)
}

// Category is one of the fixed purchasing buckets.
type Category string

const (
	CategoryPantry       Category = "Pantry"
	CategoryProduce      Category = "Produce"
	CategoryRefrigerated Category = "Refrigerated"
)

// Categories lists the buckets in display order.
var Categories = []Category{CategoryPantry, CategoryProduce, CategoryRefrigerated}

// ParseCategory matches an ingredient category against the fixed buckets.
func ParseCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	for _, category := range Categories {
		if strings.EqualFold(trimmed, string(category)) {
			return category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, value)
}
