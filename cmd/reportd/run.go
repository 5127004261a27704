package main

import (
	"github.com/gin-gonic/gin"
	"github.com/opdss/report/api"
	"github.com/opdss/report/process"
	httpserver "github.com/opdss/report/server/http"
	"github.com/opdss/report/storage"
	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

func cmdRun(cmd *cobra.Command, args []string) (err error) {
	ctx, _ := process.Ctx(cmd)
	log := zap.L()

	a, err := newApp(ctx, log, &runCfg)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, a.close()) }()

	opts := []api.Option{
		api.WithLogger(log),
		api.WithReportOptions(runCfg.Report.Options(log)...),
	}
	if a.cache != nil {
		opts = append(opts, api.WithCache(a.cache))
	}
	if a.auth != nil {
		opts = append(opts, api.WithAuth(a.auth))
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(httpserver.Recovery(log), httpserver.Logger(log))

	if runCfg.Storage.Driver != "" {
		fs, err := storage.NewFileSystem(runCfg.Storage)
		if err != nil {
			return err
		}
		opts = append(opts, api.WithStorage(fs))
	}

	api.NewHandler(a.source, opts...).Register(engine)
	return httpserver.NewServer(engine, log, runCfg.Server).Run(ctx)
}
