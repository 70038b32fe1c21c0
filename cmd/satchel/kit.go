package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/satchel/internal/game/inventory"
)

var kitCmd = &cobra.Command{
	Use:   "kit ID",
	Short: "Add every item of a kit from inventory.kits_dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kits, err := inventory.LoadKits(cfg.Inventory.KitsDir)
		if err != nil {
			return err
		}
		var kit *inventory.Kit
		for _, k := range kits {
			if k.ID == args[0] {
				kit = k
				break
			}
		}
		if kit == nil {
			return fmt.Errorf("kit %q not found in %s", args[0], cfg.Inventory.KitsDir)
		}
		return mutate(func(inv *inventory.Inventory) error {
			slots, err := kit.Apply(inv)
			if err != nil {
				return err
			}
			logger.Info("kit applied", zap.String("kit", kit.ID), zap.Ints("slots", slots))
			for _, slot := range slots {
				it, _, _ := inv.Get(slot)
				printSlot(cmd.OutOrStdout(), slot, it)
			}
			return nil
		})
	},
}
