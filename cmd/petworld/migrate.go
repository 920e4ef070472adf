package main

import (
	"fmt"

	gormrepo "petworld/internal/adapter/repo/gorm"
	"petworld/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations to the metadata database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			if e.cfg.DB.Driver == "memory" {
				return fmt.Errorf("migrate: db.driver is memory, nothing to migrate")
			}
			db, err := gormrepo.Open(e.cfg.DB.Driver, e.cfg.DB.DSN, logger.Default.LogMode(logger.Warn))
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			applied, err := gormrepo.ApplyMigrations(cmd.Context(), db, migrations.FS)
			if err != nil {
				return err
			}
			e.log.Info("migrations applied", zap.Strings("versions", applied))
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
			}
			return nil
		},
	}
}
