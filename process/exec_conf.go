package process

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/opdss/report/cfgstruct"
	"github.com/opdss/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeebo/structs"
	"go.uber.org/zap"
)

// DefaultCfgFilename 配置目录下的配置文件名
const DefaultCfgFilename = "config.yaml"

var (
	commandMtx sync.Mutex
	contexts   = map[*cobra.Command]context.Context{}
	cancels    = map[*cobra.Command]context.CancelFunc{}
	configs    = map[*cobra.Command][]interface{}{}
)

// Bind 把配置结构体注册为命令的 flags, 命令执行前按 配置文件 > 环境变量 > flags 填充
func Bind(cmd *cobra.Command, config interface{}, opts ...cfgstruct.BindOpt) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	cfgstruct.Bind(cmd.Flags(), config, opts...)
	configs[cmd] = append(configs[cmd], config)
}

// Exec 执行命令树, loggerFactory 在配置解码之后构建全局 logger
func Exec(cmd *cobra.Command, loggerFactory func(*zap.Logger) *zap.Logger) {
	cmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "output the version's build information, if any",
		Annotations: map[string]string{"type": "setup"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.Build)
			return nil
		},
	})
	if exe, err := os.Executable(); err == nil && cmd.Use == "" {
		cmd.Use = exe
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	wrapRunE(cmd, loggerFactory)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Ctx 返回命令的 context, 收到 SIGINT/SIGTERM 时取消
func Ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	ctx := contexts[cmd]
	if ctx == nil {
		ctx = context.Background()
	}
	cancel := cancels[cmd]
	if cancel == nil {
		ctx, cancel = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		cancels[cmd] = cancel
	}
	contexts[cmd] = ctx
	return ctx, cancel
}

func releaseCtx(cmd *cobra.Command) {
	commandMtx.Lock()
	defer commandMtx.Unlock()
	delete(contexts, cmd)
	delete(cancels, cmd)
}

// newViper 合并 flags, 环境变量 (前缀取 ENV_PREFIX, 默认 report) 和 config-dir 下的配置文件
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	vip := viper.New()
	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return nil, ErrProcess.Wrap(err)
	}

	prefix := os.Getenv("ENV_PREFIX")
	if prefix == "" {
		prefix = "report"
	}
	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	if err := loadConfigFile(cmd, vip); err != nil {
		return nil, err
	}
	return vip, nil
}

// loadConfigFile 读取 config-dir 下的 config.yaml, 文件不存在时忽略.
// setup 类命令 (如 version) 不因配置文件损坏而失败
func loadConfigFile(cmd *cobra.Command, vip *viper.Viper) error {
	dir := cmd.Flags().Lookup("config-dir")
	if dir == nil || dir.Value.String() == "" {
		return nil
	}
	path := filepath.Join(os.ExpandEnv(dir.Value.String()), DefaultCfgFilename)
	exists, err := fileExists(path)
	if err != nil || !exists {
		return err
	}
	vip.SetConfigFile(path)
	if err := vip.ReadInConfig(); err != nil && cmd.Annotations["type"] != "setup" {
		return ErrProcess.Wrap(err)
	}
	return nil
}

// decodeConfig 把配置解码进 Bind 注册的结构体, 结构体里没有的 key 回写到同名 flag.
// 返回既不属于结构体也没有对应 flag 的 key, 以及无法赋值的 key, 均已排序
func decodeConfig(cmd *cobra.Command, vip *viper.Viper) (missing, broken []string) {
	commandMtx.Lock()
	values := configs[cmd]
	commandMtx.Unlock()

	settings := vip.AllSettings()
	used := map[string]struct{}{}
	unmatched := map[string]struct{}{}
	invalid := map[string]struct{}{}
	for _, config := range values {
		res := structs.Decode(settings, config)
		for key := range res.Used {
			used[key] = struct{}{}
		}
		for key := range res.Missing {
			unmatched[key] = struct{}{}
		}
		for key := range res.Broken {
			invalid[key] = struct{}{}
		}
	}

	for key := range unmatched {
		if _, ok := used[key]; ok {
			continue
		}
		val := vip.GetString(key)
		var err error
		if f := cmd.Flags().Lookup(key); f != nil {
			err = f.Value.Set(val)
			f.Changed = val != f.DefValue
		} else if f := flag.Lookup(key); f != nil {
			err = f.Value.Set(val)
		} else {
			missing = append(missing, key)
			continue
		}
		if err != nil {
			invalid[key] = struct{}{}
		}
	}
	for key := range invalid {
		broken = append(broken, key)
	}
	slices.Sort(missing)
	slices.Sort(broken)
	return missing, broken
}

// wrapRunE 为命令树的每个 RunE 加上配置加载, 全局 logger 和 context 清理
func wrapRunE(cmd *cobra.Command, loggerFactory func(*zap.Logger) *zap.Logger) {
	for _, sub := range cmd.Commands() {
		wrapRunE(sub, loggerFactory)
	}
	if cmd.Run != nil {
		panic("Please use cobra's RunE instead of Run")
	}
	run := cmd.RunE
	if run == nil {
		return
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		_, cancel := Ctx(cmd)
		defer cancel()
		defer releaseCtx(cmd)

		vip, err := newViper(cmd)
		if err != nil {
			return err
		}
		missing, broken := decodeConfig(cmd, vip)

		logger := zap.L()
		if loggerFactory != nil {
			logger = loggerFactory(logger)
		}
		defer func() { _ = logger.Sync() }()
		defer zap.ReplaceGlobals(logger)()
		defer zap.RedirectStdLog(logger)()

		if used := vip.ConfigFileUsed(); used != "" {
			if abs, err := filepath.Abs(used); err == nil {
				used = abs
			}
			logger.Info("Configuration loaded", zap.String("Location", used))
		}
		if cmd.Annotations["type"] != "helper" {
			for _, key := range missing {
				logger.Info("Invalid configuration file key", zap.String("Key", key))
			}
		}
		for _, key := range broken {
			logger.Warn("Invalid configuration file value for key", zap.String("Key", key))
		}

		if err := run(cmd, args); err != nil {
			logger.Error("Unrecoverable error", zap.Error(err))
			return err
		}
		return nil
	}
}
