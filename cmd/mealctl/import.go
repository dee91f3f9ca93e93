package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	applog "mealplanner/internal/log"
	"mealplanner/internal/store"
	"mealplanner/internal/units"
	"mealplanner/models"
)

var (
	numberPattern   = regexp.MustCompile(`[-+]?\d*\.?\d+`)
	cleanWhitespace = regexp.MustCompile(`\s+`)
	headerPattern   = regexp.MustCompile(`[^a-z0-9]+`)
)

func newImportIngredientsCmd(v *viper.Viper) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "import-ingredients <csv>",
		Short: "Create or update ingredient conversion metadata from a CSV file",
		Long: `Reads a CSV with a header row and upserts one ingredient per row, matched by title.
Recognised columns: title, category, measurement type, legacy id, tags, and the imperial and
metric base and shopping quantities and units. Quantities may carry trailing text ("8 oz").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath := args[0]
			if _, err := os.Stat(csvPath); err != nil {
				return fmt.Errorf("locate csv: %w", err)
			}
			records, err := readCSV(csvPath)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			return withDatabase(cmd, v, func(ctx context.Context, _ options, database *gorm.DB) error {
				progress := cmd.ErrOrStderr()
				if quiet {
					progress = io.Discard
				}
				summary, err := importIngredients(ctx, store.New(database), records, progress)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d ingredients from %s", summary.imported, filepath.Base(csvPath))
				if len(summary.skipped) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), ", skipped %d", len(summary.skipped))
				}
				fmt.Fprintln(cmd.OutOrStdout())
				for _, reason := range summary.skipped {
					fmt.Fprintln(cmd.ErrOrStderr(), "  "+reason)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

type ingredientUpserter interface {
	UpsertIngredient(ctx context.Context, ingredient *models.Ingredient) error
}

type importSummary struct {
	imported int
	skipped  []string
}

// importIngredients upserts every valid record. Invalid rows are skipped and
// reported; a store failure aborts the import.
func importIngredients(ctx context.Context, st ingredientUpserter, records []map[string]string, progress io.Writer) (importSummary, error) {
	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("importing ingredients"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var summary importSummary
	for idx, record := range records {
		ingredient, err := buildIngredient(record)
		if err != nil {
			reason := fmt.Sprintf("row %d (%s): %v", idx+2, record["title"], err)
			applog.Warn(ctx, "skipping ingredient row", "row", idx+2, "error", err)
			summary.skipped = append(summary.skipped, reason)
			_ = bar.Add(1)
			continue
		}
		if err := st.UpsertIngredient(ctx, ingredient); err != nil {
			return summary, fmt.Errorf("row %d: %w", idx+2, err)
		}
		summary.imported++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return summary, nil
}

// readCSV returns one map per data row keyed by the normalised header.
func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := make([]string, len(rows[0]))
	for idx, key := range rows[0] {
		header[idx] = normalizeHeader(key)
	}
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx >= len(row) {
				continue
			}
			record[key] = strings.TrimSpace(row[idx])
		}
		records = append(records, record)
	}

	return records, nil
}

func buildIngredient(row map[string]string) (*models.Ingredient, error) {
	title := normalizeText(row["title"])
	if title == "" {
		return nil, errors.New("title is required")
	}
	category, err := models.ParseCategory(normalizeValue(row["category"]))
	if err != nil {
		return nil, err
	}
	measurement, err := units.ParseMeasurementType(normalizeValue(row["measurement_type"]))
	if err != nil {
		return nil, err
	}

	ingredient := &models.Ingredient{
		Title:                title,
		Category:             string(category),
		MeasurementType:      string(measurement),
		ImperialBaseQty:      parseFirstNumber(row["imperial_base_qty"]),
		ImperialBaseUnit:     normalizeValue(row["imperial_base_unit"]),
		ImperialShoppingQty:  parseFirstNumber(row["imperial_shopping_qty"]),
		ImperialShoppingUnit: normalizeValue(row["imperial_shopping_unit"]),
		MetricBaseQty:        parseFirstNumber(row["metric_base_qty"]),
		MetricBaseUnit:       normalizeValue(row["metric_base_unit"]),
		MetricShoppingQty:    parseFirstNumber(row["metric_shopping_qty"]),
		MetricShoppingUnit:   normalizeValue(row["metric_shopping_unit"]),
		Tags:                 splitTags(row["tags"]),
	}
	if raw := normalizeValue(row["legacy_id"]); raw != "" {
		legacyID, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid legacy id %q", raw)
		}
		ingredient.OldID = &legacyID
	}

	for _, base := range []struct {
		unit string
		qty  float64
	}{
		{ingredient.ImperialBaseUnit, ingredient.ImperialBaseQty},
		{ingredient.MetricBaseUnit, ingredient.MetricBaseQty},
	} {
		if measurement == units.Count || base.unit == "" {
			continue
		}
		if _, err := units.ToFundamental(measurement, base.unit, base.qty); err != nil {
			return nil, fmt.Errorf("base unit: %w", err)
		}
	}
	return ingredient, nil
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Trim(headerPattern.ReplaceAllString(value, "_"), "_")
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

func normalizeText(value string) string {
	value = normalizeValue(value)
	if value == "" {
		return value
	}
	value = cleanWhitespace.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

func parseFirstNumber(value string) float64 {
	value = normalizeValue(value)
	if value == "" {
		return 0
	}

	match := numberPattern.FindString(value)
	if match == "" {
		return 0
	}

	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func splitTags(value string) []string {
	value = normalizeValue(value)
	if value == "" {
		return nil
	}
	value = strings.ReplaceAll(value, ";", ",")
	seen := map[string]struct{}{}
	var tags []string
	for _, part := range strings.Split(value, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
