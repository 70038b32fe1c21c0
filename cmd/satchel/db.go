package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/satchel/internal/storage/postgres"
)

var dbOwner string

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Copy the inventory file into PostgreSQL under --owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd.Context(), func(ctx context.Context, repo *postgres.InventoryRepository) error {
			inv, err := store.Open()
			if err != nil {
				return err
			}
			if err := repo.Save(ctx, dbOwner, inv); err != nil {
				return err
			}
			logger.Info("inventory pushed", zap.String("owner", dbOwner), zap.Int("items", inv.Count()))
			printSummary(cmd.OutOrStdout(), inv)
			return nil
		})
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the inventory file with the copy stored under --owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(cmd.Context(), func(ctx context.Context, repo *postgres.InventoryRepository) error {
			inv, err := repo.Load(ctx, dbOwner, store.Capacity())
			if errors.Is(err, postgres.ErrInventoryNotFound) {
				return fmt.Errorf("no inventory stored for owner %q", dbOwner)
			}
			if err != nil {
				return err
			}
			if err := store.Save(inv); err != nil {
				return err
			}
			logger.Info("inventory pulled", zap.String("owner", dbOwner), zap.Int("items", inv.Count()))
			printSummary(cmd.OutOrStdout(), inv)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{pushCmd, pullCmd} {
		c.Flags().StringVar(&dbOwner, "owner", "", "owner key of the stored inventory (required)")
		_ = c.MarkFlagRequired("owner")
	}
}

func withRepository(parent context.Context, fn func(context.Context, *postgres.InventoryRepository) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, pool.Inventories())
}
