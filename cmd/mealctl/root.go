package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"mealplanner/internal/config"
	"mealplanner/internal/db"
	"mealplanner/internal/db/mock"
	applog "mealplanner/internal/log"
)

// options are the settings shared by every subcommand. Values come from
// flags, MEALCTL_* environment variables, or an optional config file.
type options struct {
	DatabaseURL       string        `mapstructure:"database_url"`
	UseMock           bool          `mapstructure:"mock"`
	LogLevel          string        `mapstructure:"log_level"`
	Timeout           time.Duration `mapstructure:"timeout"`
	LookupConcurrency int           `mapstructure:"lookup_concurrency"`
}

var openDatabase = func(ctx context.Context, opts options) (*gorm.DB, error) {
	if opts.UseMock {
		return mock.New(ctx)
	}
	return db.Configure(config.DatabaseConfig{URL: opts.DatabaseURL})
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "mealctl",
		Short:         "Administer meal planner ingredients and shopping lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %s: %w", cfgFile, err)
				}
			}
			opts, err := loadOptions(v)
			if err != nil {
				return err
			}
			return applog.SetLevel(opts.LogLevel)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("database-url", "", "Postgres connection string (defaults to DATABASE_URL)")
	flags.Bool("mock", false, "use the seeded in-memory mock database")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Duration("timeout", 2*time.Minute, "overall command timeout")
	flags.Int("lookup-concurrency", 8, "concurrent ingredient lookups while generating lists")

	v.SetEnvPrefix("MEALCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"database-url", "mock", "log-level", "timeout", "lookup-concurrency"} {
		cobra.CheckErr(v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name)))
	}
	cobra.CheckErr(v.BindEnv("database_url", "MEALCTL_DATABASE_URL", "DATABASE_URL"))

	root.AddCommand(newImportIngredientsCmd(v), newShoppingListCmd(v))
	return root
}

func loadOptions(v *viper.Viper) (options, error) {
	var opts options
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&opts, hook); err != nil {
		return options{}, fmt.Errorf("decode options: %w", err)
	}
	if !opts.UseMock && strings.TrimSpace(opts.DatabaseURL) == "" {
		return options{}, fmt.Errorf("a database URL or --mock is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	return opts, nil
}

// withDatabase opens the configured database for the duration of fn.
func withDatabase(cmd *cobra.Command, v *viper.Viper, fn func(ctx context.Context, opts options, database *gorm.DB) error) error {
	opts, err := loadOptions(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()

	database, err := openDatabase(ctx, opts)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(ctx, opts, database)
}
