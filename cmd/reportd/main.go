package main

import (
	"os"
	"path/filepath"

	"github.com/opdss/report/cfgstruct"
	"github.com/opdss/report/db"
	"github.com/opdss/report/jwt"
	"github.com/opdss/report/logger"
	"github.com/opdss/report/process"
	"github.com/opdss/report/redis"
	httpserver "github.com/opdss/report/server/http"
	"github.com/opdss/report/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Config reportd 的完整配置
type Config struct {
	Server  httpserver.Config
	Report  ReportConfig
	Source  SourceConfig
	DB      db.Config
	Redis   redis.Config
	Storage storage.Config
	Jwt     jwt.Config
}

type logConfig struct {
	Log logger.Config
}

var (
	rootCmd = &cobra.Command{
		Use:   "reportd",
		Short: "xlsx report service",
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "start the report http server",
		RunE:  cmdRun,
	}
	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "encode the configured source to a local file",
		RunE:  cmdExport,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "insert sample records into the database source",
		RunE:  cmdSeed,
	}
	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "create a bearer token for the report endpoints",
		RunE:  cmdToken,
	}

	runCfg    Config
	exportCfg struct {
		Config
		Out string `help:"导出文件路径,为空时写到临时目录" default:""`
	}
	seedCfg struct {
		DB    db.Config
		Count int `help:"插入的示例数据条数" default:"1000"`
	}
	tokenCfg struct {
		Jwt      jwt.Config
		UserId   int64  `help:"用户id" default:"1"`
		Username string `help:"用户名" default:"report"`
		Refresh  bool   `help:"同时生成 refresh token" default:"false"`
	}
	logCfg logConfig

	confDir string
)

func defaultConfDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "reportd")
}

func init() {
	defaultDir := defaultConfDir()
	rootCmd.PersistentFlags().StringVar(&confDir, "config-dir", defaultDir, "main directory for reportd configuration")
	confDirOpt := cfgstruct.ConfDir(defaultDir)

	rootCmd.AddCommand(runCmd, exportCmd, seedCmd, tokenCmd)
	process.Bind(runCmd, &runCfg, confDirOpt)
	process.Bind(exportCmd, &exportCfg, confDirOpt)
	process.Bind(seedCmd, &seedCfg, confDirOpt)
	process.Bind(tokenCmd, &tokenCfg, confDirOpt)
	for _, cmd := range rootCmd.Commands() {
		process.Bind(cmd, &logCfg, confDirOpt)
	}
}

func newLogger(fallback *zap.Logger) *zap.Logger {
	log, err := logger.NewLogger(logCfg.Log)
	if err != nil {
		fallback.Error("invalid log config", zap.Error(err))
		return fallback
	}
	return log
}

func main() {
	process.Exec(rootCmd, newLogger)
}
