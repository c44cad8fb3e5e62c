package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	grantUser   string
	grantAmount int64
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}
		zap.L().Info("migrations applied", zap.String("driver", cfg.Store.Driver))

		if grantUser != "" {
			if grantAmount <= 0 {
				return eris.New("--grant-amount must be positive")
			}
			if err := st.Grant(ctx, grantUser, grantAmount); err != nil {
				return eris.Wrap(err, "grant credits")
			}
			zap.L().Info("credits granted",
				zap.String("user_id", grantUser),
				zap.Int64("amount", grantAmount),
			)
		}

		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&grantUser, "grant-user", "", "user ID to grant credits to after migrating")
	migrateCmd.Flags().Int64Var(&grantAmount, "grant-amount", 0, "credits to grant")
	rootCmd.AddCommand(migrateCmd)
}
