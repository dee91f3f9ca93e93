package shopping

import (
	"slices"
	"strings"
)

// Entry is a normalized line scaled to the plan's servings. After Merge there
// is one Entry per distinct ingredient.
type Entry struct {
	Normalized
	MealPlanImperialQty float64
	MealPlanMetricQty   float64
	Notes               []string
}

// Scale multiplies each record's recipe quantities by multiplier.
func Scale(records []Normalized, multiplier float64) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, Entry{
			Normalized:          record,
			MealPlanImperialQty: record.RecipeImperial.Value * multiplier,
			MealPlanMetricQty:   record.RecipeMetric.Value * multiplier,
			Notes:               CleanNotes(record.Note),
		})
	}
	return entries
}

// Merge folds entries by ingredient id, summing quantities and collecting
// notes and issues. Output keeps the position of each ingredient's first entry.
func Merge(entries []Entry) []Entry {
	merged := make([]Entry, 0, len(entries))
	index := make(map[uint]int, len(entries))

	for _, entry := range entries {
		idx, ok := index[entry.Ingredient.ID]
		if !ok {
			index[entry.Ingredient.ID] = len(merged)
			entry.Notes = appendNotes(nil, entry.Notes)
			entry.Issues = append([]error(nil), entry.Issues...)
			merged = append(merged, entry)
			continue
		}

		target := &merged[idx]
		target.MealPlanImperialQty += entry.MealPlanImperialQty
		target.MealPlanMetricQty += entry.MealPlanMetricQty
		target.Notes = appendNotes(target.Notes, entry.Notes)
		target.Issues = append(target.Issues, entry.Issues...)
	}

	return merged
}

// CleanNotes splits comma separated notes, trims them and drops empty,
// "null" and "undefined" tokens and repeats.
func CleanNotes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return appendNotes(nil, strings.Split(raw, ","))
}

func appendNotes(dst, notes []string) []string {
	for _, note := range notes {
		note = strings.TrimSpace(note)
		switch strings.ToLower(note) {
		case "", "null", "undefined":
			continue
		}
		if slices.Contains(dst, note) {
			continue
		}
		dst = append(dst, note)
	}
	return dst
}
