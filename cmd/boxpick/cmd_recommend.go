package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/packhouse/boxpick/internal/catalog"
	"github.com/packhouse/boxpick/internal/configstore"
	"github.com/packhouse/boxpick/internal/models"
	"github.com/packhouse/boxpick/internal/projectconfig"
	"github.com/packhouse/boxpick/internal/recommend"
	"github.com/packhouse/boxpick/internal/rules"
)

func newRecommendCommand() *cobra.Command {
	var catalogPath string
	var dims string
	var level string
	var storeID string
	var dbPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the boxes that fit an item",
		Long: `Rank the boxes that fit an item at the given packing level.

The catalog file lists every box with its evaluated strategy results.
When a config database and store id are given, the store's custom engine
configuration is used; otherwise the factory defaults apply.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := projectconfig.Load(".")
			if err != nil {
				return err
			}
			if catalogPath == "" {
				catalogPath = proj.Defaults.Catalog
			}
			if level == "" {
				level = proj.Defaults.PackingLevel
			}
			if storeID == "" {
				storeID = proj.Store.StoreID
			}
			if dbPath == "" {
				dbPath = proj.Store.DB
			}

			item, err := parseDims(dims)
			if err != nil {
				return err
			}

			cat, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}

			cfg, err := engineConfig(dbPath, storeID)
			if err != nil {
				return err
			}
			engine, err := recommend.NewEngine(cfg)
			if err != nil {
				return err
			}

			recs := engine.Recommend(cat.EngineBoxes(), item, models.PackingLevel(level))
			if len(recs) == 0 {
				return &NoFitError{Message: fmt.Sprintf("no box fits a %s item at %s packing", item, level)}
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(recs)
			}

			printRecommendations(cmd, recs)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Box catalog file (YAML)")
	cmd.Flags().StringVar(&dims, "dims", "", "Item dimensions as LxWxH in inches (e.g. 12x9x4)")
	cmd.Flags().StringVar(&level, "level", "", "Packing level (Basic, Standard, Fragile, Custom)")
	cmd.Flags().StringVar(&storeID, "store", "", "Store id for custom engine configuration")
	cmd.Flags().StringVar(&dbPath, "db", "", "Config database path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output recommendations as JSON")
	cmd.MarkFlagRequired("dims") //nolint:errcheck

	return cmd
}

// engineConfig loads the store's engine configuration from the config
// database when it exists, falling back to the factory defaults.
func engineConfig(dbPath, storeID string) (recommend.Config, error) {
	if dbPath == "" || storeID == "" {
		return rules.DefaultEngineConfig(), nil
	}
	if _, err := os.Stat(dbPath); err != nil {
		return rules.DefaultEngineConfig(), nil
	}

	store, err := configstore.Open(dbPath)
	if err != nil {
		return recommend.Config{}, err
	}
	defer store.Close() //nolint:errcheck

	stored, err := store.EngineConfig(storeID)
	if err != nil {
		return recommend.Config{}, err
	}
	return stored.Config, nil
}

// parseDims parses "LxWxH" into item dimensions.
func parseDims(s string) (models.Dimensions, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 3 {
		return models.Dimensions{}, fmt.Errorf("dims must be LxWxH (e.g. 12x9x4), got %q", s)
	}
	var d models.Dimensions
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 {
			return models.Dimensions{}, fmt.Errorf("dims must be three positive numbers, got %q", s)
		}
		d[i] = v
	}
	return d, nil
}

func printRecommendations(cmd *cobra.Command, recs []models.Recommendation) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tBOX\tDIMS\tSTRATEGY\tPRICE\tTAG\tREASON")
	for i, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t$%.2f\t%s\t%s\n",
			i+1, r.BoxName, r.BoxDimensions, r.Strategy, r.Price, r.Tag, r.Reason)
	}
	w.Flush() //nolint:errcheck
}
