package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/satchel/internal/game/inventory"
	"github.com/cory-johannsen/satchel/internal/scripting"
)

var showEmpty bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "List the inventory slots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := store.Read()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for slot, it := range inv.All() {
			if it.IsEmpty() && !showEmpty {
				continue
			}
			printSlot(w, slot, it)
		}
		printSummary(w, inv)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get SLOT",
	Short: "Print the item in a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		inv, err := store.Read()
		if err != nil {
			return err
		}
		it, _, err := inv.Get(slot)
		if err != nil {
			return err
		}
		printSlot(cmd.OutOrStdout(), slot, it)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add KEY=VALUE... | add '{\"key\": \"value\"}'",
	Short: "Add an item to the first empty slot",
	Example: `  satchel add name=potion count=3
  satchel add '{"name": "sword", "dmg": "4"}'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := parseItemArgs(args)
		if err != nil {
			return err
		}
		return mutate(func(inv *inventory.Inventory) error {
			slot, err := inv.Add(it)
			if err != nil {
				return err
			}
			logger.Info("item added", zap.Int("slot", slot), zap.Stringer("item", it))
			printSlot(cmd.OutOrStdout(), slot, it)
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set SLOT KEY=VALUE...",
	Short: "Replace the item in a slot",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		it, err := parseItemArgs(args[1:])
		if err != nil {
			return err
		}
		return mutate(func(inv *inventory.Inventory) error {
			if err := inv.Set(slot, it); err != nil {
				return err
			}
			logger.Info("slot set", zap.Int("slot", slot), zap.Stringer("item", it))
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove SLOT | remove --item KEY=VALUE...",
	Short: "Remove an item by slot or by value",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		byValue, _ := cmd.Flags().GetBool("item")
		return mutate(func(inv *inventory.Inventory) error {
			if byValue {
				it, err := parseItemArgs(args)
				if err != nil {
					return err
				}
				slot, err := inv.Remove(it)
				if err != nil {
					return err
				}
				logger.Info("item removed", zap.Int("slot", slot))
				printSlot(cmd.OutOrStdout(), slot, it)
				return nil
			}
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			it, err := inv.RemoveFrom(slot)
			if err != nil {
				return err
			}
			logger.Info("item removed", zap.Int("slot", slot))
			printSlot(cmd.OutOrStdout(), slot, it)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(func(inv *inventory.Inventory) error {
			removed := inv.RemoveAll()
			logger.Info("inventory cleared", zap.Int("items", len(removed)))
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d items\n", len(removed))
			return nil
		})
	},
}

var (
	findKey   string
	findValue string
	findWhere string
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "List items by attribute or Lua expression",
	Example: `  satchel find --key category
  satchel find --key category --value pots
  satchel find --where 'tonumber(item.count) > 2'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (findKey == "") == (findWhere == "") {
			return fmt.Errorf("exactly one of --key or --where is required")
		}
		inv, err := store.Read()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if findWhere != "" {
			f, err := scripting.CompileFilter(findWhere, cfg.Scripting.InstructionLimit)
			if err != nil {
				return err
			}
			slots, err := f.Select(inv)
			if err != nil {
				return err
			}
			for _, slot := range slots {
				it, _, _ := inv.Get(slot)
				printSlot(w, slot, it)
			}
			return nil
		}
		match := func(it inventory.Item) bool {
			v, ok := it.Get(findKey)
			return ok && (!cmd.Flags().Changed("value") || v == findValue)
		}
		for slot, it := range inv.All() {
			if match(it) {
				printSlot(w, slot, it)
			}
		}
		return nil
	},
}

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Move all items ahead of the empty slots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(func(inv *inventory.Inventory) error {
			inv.Compact()
			printSummary(cmd.OutOrStdout(), inv)
			return nil
		})
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort KEY",
	Short: "Compact and sort items by an attribute",
	Long: `Sort compacts the inventory and orders items by the value of KEY.
Items without KEY sort last. Integer values compare numerically, other values
byte-wise; mixing integer and non-integer values under KEY is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutate(func(inv *inventory.Inventory) error {
			if err := inv.SortBy(args[0]); err != nil {
				return err
			}
			logger.Info("inventory sorted", zap.String("key", args[0]))
			printSummary(cmd.OutOrStdout(), inv)
			return nil
		})
	},
}

var resizeCmd = &cobra.Command{
	Use:   "resize SIZE",
	Short: "Truncate or pad the inventory file to SIZE slots",
	Long: `Resize rewrites the file with SIZE slots. Later commands that modify
the inventory conform the file to the configured capacity again, so pass
--capacity SIZE or update inventory.capacity to keep the new size.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := parseSlot(args[0])
		if err != nil {
			return err
		}
		inv, err := store.Open()
		if err != nil {
			return err
		}
		if err := inv.Resize(size); err != nil {
			return err
		}
		if err := store.Save(inv); err != nil {
			return err
		}
		logger.Info("inventory resized", zap.Int("capacity", size), zap.Int("items", inv.Count()))
		printSummary(cmd.OutOrStdout(), inv)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVarP(&showEmpty, "all", "a", false, "include empty slots")
	removeCmd.Flags().Bool("item", false, "treat arguments as the item to remove instead of a slot")
	findCmd.Flags().StringVar(&findKey, "key", "", "attribute the item must have")
	findCmd.Flags().StringVar(&findValue, "value", "", "required value for --key")
	findCmd.Flags().StringVar(&findWhere, "where", "", "Lua boolean expression over `item`")
}
