// Command water is the operator CLI for the water reminder service.
//
// Usage:
//
//	water migrate
//	water users create alice
//	water users list
//	water remind --force
//	water stats <userID> --goal 2500
//	water day <userID> 2025-06-10
//	water vapid-keys
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mapleleafu/water/internal/api/request"
	"github.com/mapleleafu/water/internal/config"
	"github.com/mapleleafu/water/internal/db"
	"github.com/mapleleafu/water/internal/notifications"
	"github.com/mapleleafu/water/internal/push"
	"github.com/mapleleafu/water/internal/stats"
	"github.com/mapleleafu/water/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "water",
		Short:        "Water reminder operator CLI",
		SilenceUsage: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(usersCmd())
	root.AddCommand(remindCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(dayCmd())
	root.AddCommand(vapidKeysCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("Schema applied")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// users
// --------------------------------------------------------------------------

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage subscribers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a subscriber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := request.CreateUser{Name: args[0]}
			if err := body.Validate(); err != nil {
				return err
			}
			return withStore(func(ctx context.Context, _ *config.Config, st store.Store) error {
				u, err := st.CreateSubscriber(ctx, body.Name)
				if err != nil {
					return err
				}
				return printJSON(u)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subscribers, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, _ *config.Config, st store.Store) error {
				users, err := st.ListSubscribers(ctx)
				if err != nil {
					return err
				}
				return printJSON(users)
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// remind
// --------------------------------------------------------------------------

func remindCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run one reminder dispatch pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				provider := push.New(push.Credentials{
					Subject:    cfg.VAPIDSubject,
					PublicKey:  cfg.VAPIDPublicKey,
					PrivateKey: cfg.VAPIDPrivateKey,
				}, logger)
				d := notifications.NewDispatcher(st, provider, logger,
					notifications.WithWorkers(cfg.DispatchWorkers))
				res, err := d.Dispatch(ctx, force)
				if err != nil {
					return err
				}
				logger.Info("Dispatch finished", "summary", res.Summary())
				return printJSON(res)
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Ignore quiet hours (mutes still apply)")
	return cmd
}

// --------------------------------------------------------------------------
// stats / day
// --------------------------------------------------------------------------

func statsCmd() *cobra.Command {
	var goal int
	cmd := &cobra.Command{
		Use:   "stats <userID>",
		Short: "Print a subscriber's hydration statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				goal, err := resolveGoal(goal, cmd.Flags().Changed("goal"), cfg.DefaultGoal)
				if err != nil {
					return err
				}
				snap, err := stats.NewEngine(st, cfg.StatsLocation()).GetStats(ctx, args[0], goal)
				if err != nil {
					return err
				}
				return printJSON(snap)
			})
		},
	}
	cmd.Flags().IntVar(&goal, "goal", 0, "Daily goal in ml (default DEFAULT_GOAL)")
	return cmd
}

// resolveGoal applies DEFAULT_GOAL when --goal is absent and rejects
// non-positive values the same way the HTTP query parameter does.
func resolveGoal(flag int, set bool, def int) (int, error) {
	if !set {
		return def, nil
	}
	return request.ParseGoal(strconv.Itoa(flag), def)
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day <userID> <YYYY-MM-DD>",
		Short: "List a subscriber's drink logs for one day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, st store.Store) error {
				engine := stats.NewEngine(st, cfg.StatsLocation())
				day, err := request.ParseDate(args[1], engine.Location())
				if err != nil {
					return err
				}
				entries, err := engine.GetDayDetail(ctx, args[0], day)
				if err != nil {
					return err
				}
				return printJSON(entries)
			})
		},
	}
}

// --------------------------------------------------------------------------
// vapid-keys
// --------------------------------------------------------------------------

func vapidKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vapid-keys",
		Short: "Generate a VAPID key pair for VAPID_PUBLIC_KEY / VAPID_PRIVATE_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, pub, err := push.GenerateVAPIDKeys()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\n", pub, priv)
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withStore handles config loading, DB connection, and context cancellation.
func withStore(fn func(ctx context.Context, cfg *config.Config, st store.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, store.NewPostgres(pool.Pool))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
