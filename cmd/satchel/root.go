package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/satchel/internal/config"
	"github.com/cory-johannsen/satchel/internal/game/inventory"
	"github.com/cory-johannsen/satchel/internal/observability"
	"github.com/cory-johannsen/satchel/internal/storage/file"
)

// Global flag values.
var (
	flagConfig   string
	flagFile     string
	flagCapacity int
)

// Set by PersistentPreRunE for every subcommand.
var (
	cfg    config.Config
	logger *zap.Logger
	store  *file.Store
)

var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "Satchel manages fixed-capacity slot inventories stored as flat text",
	Long: `Satchel edits an inventory file holding one item per line. Each item
is an attribute map such as {"name": "potion", "count": "3"}; blank lines are
empty slots. Commands that modify the inventory conform the file to the
configured capacity; show, get and find only read it.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: built-in defaults and SATCHEL_* env)")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "inventory file (overrides inventory.path)")
	rootCmd.PersistentFlags().IntVarP(&flagCapacity, "capacity", "c", 0, "slot capacity (overrides inventory.capacity)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(resizeCmd)
	rootCmd.AddCommand(kitCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
}

// setup loads configuration, applies flag overrides, and builds the logger
// and file store.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("file") {
		loaded.Inventory.Path = flagFile
	}
	if cmd.Flags().Changed("capacity") {
		loaded.Inventory.Capacity = flagCapacity
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logger, err = observability.NewLogger(cfg.Logging, "satchel")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	store = file.NewStore(cfg.Inventory.Path, cfg.Inventory.Capacity, logger)
	return nil
}

// mutate opens the inventory, applies fn, and saves the result when fn succeeds.
func mutate(fn func(inv *inventory.Inventory) error) error {
	inv, err := store.Open()
	if err != nil {
		return err
	}
	if err := fn(inv); err != nil {
		return err
	}
	return store.Save(inv)
}
