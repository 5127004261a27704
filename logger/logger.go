package logger

import (
	"os"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var ErrLogger = errs.Class("logger")

type Config struct {
	Level       string `help:"日志级别 debug,info,warn,error" default:"info"`
	Filename    string `help:"日志文件,为空时输出到stderr" default:""`
	MaxSize     int    `help:"单个日志文件大小(MB)" default:"100"`
	MaxBackups  int    `help:"保留的旧日志文件数" default:"7"`
	MaxAge      int    `help:"旧日志保留天数" default:"30"`
	Compress    bool   `help:"是否压缩旧日志" default:"false"`
	Development bool   `help:"开发模式,输出console格式" default:"false" releaseDefault:"false"`
}

// NewLogger 根据配置创建 zap logger
func NewLogger(conf Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, ErrLogger.Wrap(err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if conf.Development {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, writeSyncer(conf), zap.NewAtomicLevelAt(level))
	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if conf.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

func writeSyncer(conf Config) zapcore.WriteSyncer {
	if conf.Filename == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   conf.Filename,
		MaxSize:    conf.MaxSize,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAge,
		Compress:   conf.Compress,
		LocalTime:  true,
	})
}
