package main

import (
	"fmt"

	"github.com/opdss/report/db"
	"github.com/opdss/report/process"
	"github.com/opdss/report/records"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

func cmdSeed(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	gdb, err := db.NewDB(log, seedCfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return db.ErrDB.Wrap(err)
	}
	defer func() { err = errs.Combine(err, sqlDB.Close()) }()

	src := records.NewGormSource(gdb)
	if err := src.Migrate(ctx); err != nil {
		return err
	}
	list, err := records.Sample(seedCfg.Count).Records(ctx)
	if err != nil {
		return err
	}
	if err := src.Seed(ctx, list); err != nil {
		return err
	}
	log.Info("records seeded", zap.Int("count", len(list)))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records\n", len(list))
	return err
}
