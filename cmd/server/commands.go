package main

import (
	"context"
	"fmt"
	"time"

	"gadget-rental/config"
	"gadget-rental/internal/seed"
	"gadget-rental/internal/service"
	"gadget-rental/internal/store"
	"gadget-rental/internal/util"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, db *store.Store) error {
			if err := db.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Println("Schema is up to date")
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo admin, customers, gadgets and coupons",
	Long: `Load the demo catalog into the database.

Users and gadgets that already exist are left untouched, so the command can
be run more than once. Coupons are refreshed. Run migrate first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := seed.Default()
		if err != nil {
			return err
		}
		return withStore(func(ctx context.Context, db *store.Store) error {
			res, err := seed.Apply(ctx, db, catalog)
			if err != nil {
				return err
			}
			fmt.Printf("Created %d users and %d gadgets, upserted %d coupons\n", res.Users, res.Gadgets, res.Coupons)
			return nil
		})
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := service.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func withStore(fn func(ctx context.Context, db *store.Store) error) error {
	cfg := config.Load()
	if err := util.InitLogger(cfg.Server.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer util.SyncLogger()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return fn(ctx, db)
}
