package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"psp-reconciler/config"
	"psp-reconciler/internal/app"
	pgStorage "psp-reconciler/internal/adapter/storage/postgres"
	"psp-reconciler/internal/core/ports"
	"psp-reconciler/internal/service"
	"psp-reconciler/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env carries the factories the commands depend on.
type env struct {
	loadConfig func(path string) (*config.Config, error)
	openEngine func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.ReconciliationService, func(), error)
	migrate    func(ctx context.Context, dsn string, log zerolog.Logger) error
	stdout     io.Writer
	stderr     io.Writer
}

func defaultEnv() *env {
	return &env{
		loadConfig: config.Load,
		openEngine: func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.ReconciliationService, func(), error) {
			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return nil, nil, err
			}
			return a.Reconciler, a.Close, nil
		},
		migrate: pgStorage.Migrate,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

func newRootCmd(e *env) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:               "reconcilectl",
		Short:             "Operate the PSP transaction reconciler",
		Long:              `Manual refresh, notification replay, admin tokens and schema migrations for the PSP reconciler.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)

	load := func() (*config.Config, zerolog.Logger, error) {
		cfg, err := e.loadConfig(configPath)
		if err != nil {
			return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
		}
		return cfg, logger.NewWithWriter(cfg.Log.Level, e.stderr), nil
	}

	rootCmd.AddCommand(
		newRefreshCmd(e, load),
		newNotifyCmd(e, load),
		newTokenCmd(load),
		newMigrateCmd(e, load),
	)
	return rootCmd
}

type loader func() (*config.Config, zerolog.Logger, error)

func newRefreshCmd(e *env, load loader) *cobra.Command {
	var id, orderID string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Reconcile one recorded transaction against the PSP",
		Long: `Fetch the PSP state of a recorded transaction and apply it to the order.
Select the transaction either by its record id or by the order id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				key    uuid.UUID
				err    error
				byFlag = "id"
			)
			if orderID != "" {
				byFlag = "order-id"
				key, err = uuid.Parse(orderID)
			} else {
				key, err = uuid.Parse(id)
			}
			if err != nil {
				return fmt.Errorf("invalid --%s: %w", byFlag, err)
			}

			cfg, log, err := load()
			if err != nil {
				return err
			}
			engine, closeFn, err := e.openEngine(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeFn()

			var result ports.ReconcileResult
			if byFlag == "order-id" {
				result, err = engine.ReconcileByOrderID(cmd.Context(), key)
			} else {
				result, err = engine.ReconcileByID(cmd.Context(), key)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "transaction record id")
	cmd.Flags().StringVar(&orderID, "order-id", "", "order id")
	cmd.MarkFlagsMutuallyExclusive("id", "order-id")
	cmd.MarkFlagsOneRequired("id", "order-id")
	return cmd
}

func newNotifyCmd(e *env, load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "notify <psp-transaction-id>",
		Short: "Replay a PSP exchange notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			engine, closeFn, err := e.openEngine(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeFn()

			return printJSON(cmd.OutOrStdout(), engine.HandleNotification(cmd.Context(), args[0]))
		},
	}
}

func newTokenCmd(load loader) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := load()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is not configured")
			}

			tokens := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
			token, expiry, err := tokens.Generate(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiry.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject, e.g. the operator's name")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newMigrateCmd(e *env, load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			return e.migrate(cmd.Context(), cfg.Database.DSN(), log)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
