package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packhouse/boxpick/internal/configstore"
	"github.com/packhouse/boxpick/internal/projectconfig"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or reset a store's engine configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigResetCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var storeID string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a store's effective engine configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, id, err := openStore(dbPath, storeID)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			cfg, err := store.EngineConfig(id)
			if err != nil {
				return err
			}

			source := "defaults"
			if cfg.IsCustom {
				source = "custom"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store %s (%s):\n", id, source)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg.Config)
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "", "Store id")
	cmd.Flags().StringVar(&dbPath, "db", "", "Config database path")
	return cmd
}

func newConfigResetCommand() *cobra.Command {
	var storeID string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset a store's engine configuration and packing rules to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, id, err := openStore(dbPath, storeID)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			if err := store.ResetEngineConfig(id); err != nil {
				return err
			}
			if err := store.ResetPackingRules(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "store %s reset to defaults\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "", "Store id")
	cmd.Flags().StringVar(&dbPath, "db", "", "Config database path")
	return cmd
}

func openStore(dbPath, storeID string) (*configstore.Store, string, error) {
	proj, err := projectconfig.Load(".")
	if err != nil {
		return nil, "", err
	}
	if dbPath == "" {
		dbPath = proj.Store.DB
	}
	if storeID == "" {
		storeID = proj.Store.StoreID
	}

	store, err := configstore.Open(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening config database: %w", err)
	}
	return store, storeID, nil
}
