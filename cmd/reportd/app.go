package main

import (
	"context"
	"time"

	"github.com/opdss/report/db"
	"github.com/opdss/report/excel/report"
	"github.com/opdss/report/jwt"
	"github.com/opdss/report/records"
	"github.com/opdss/report/redis"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

const (
	SourceSample = "sample"
	SourceYaml   = "yaml"
	SourceDB     = "db"
)

type ReportConfig struct {
	SheetName   string  `help:"工作表名称" default:"Sheet1"`
	FontSize    float64 `help:"字号,同时是数据行行高" default:"12"`
	WidthFactor float64 `help:"列宽放大系数" default:"1.2"`
	DateFormat  string  `help:"日期列显示格式" default:"dd/mm/yyyy hh:mm:ss AM/PM"`
	MaxRows     int     `help:"最大导出行数" default:"1000000"`
}

func (c ReportConfig) Options(log *zap.Logger) []report.Option {
	return []report.Option{
		report.WithSheetName(c.SheetName),
		report.WithFontSize(c.FontSize),
		report.WithWidthFactor(c.WidthFactor),
		report.WithDateFormat(c.DateFormat),
		report.WithMaxRows(c.MaxRows),
		report.WithLogger(log),
	}
}

type SourceConfig struct {
	Kind         string        `help:"数据源[sample|yaml|db]" default:"sample"`
	SampleSize   int           `help:"示例数据条数" default:"1000"`
	File         string        `help:"yaml 数据文件" default:"$ROOT/records.yaml"`
	PageSize     int           `help:"数据库分页查询数量" default:"2000"`
	QueryTimeout time.Duration `help:"数据库单页查询超时" default:"30s"`
}

// app 按配置组装的依赖, close 释放连接
type app struct {
	source  records.Source
	cache   *redis.Cache
	auth    *jwt.Jwt
	closers []func() error
}

func newApp(ctx context.Context, log *zap.Logger, cfg *Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			err = errs.Combine(err, a.close())
		}
	}()

	if a.source, err = a.newSource(ctx, log, cfg); err != nil {
		return nil, err
	}
	if cfg.Redis.Cache.Enabled {
		client, err := redis.NewRedis(log, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.cache = redis.NewCache(client, cfg.Redis.Cache)
	}
	if cfg.Jwt.Key != "" {
		a.auth = jwt.NewJwt(cfg.Jwt)
	}
	return a, nil
}

func (a *app) newSource(ctx context.Context, log *zap.Logger, cfg *Config) (records.Source, error) {
	switch cfg.Source.Kind {
	case SourceSample, "":
		// 启动时生成一次, 之后每次请求使用同一份数据
		return records.Sample(cfg.Source.SampleSize), nil
	case SourceYaml:
		return records.NewYamlSource(cfg.Source.File), nil
	case SourceDB:
		gdb, err := db.NewDB(log, cfg.DB)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, db.ErrDB.Wrap(err)
		}
		a.closers = append(a.closers, sqlDB.Close)
		src := records.NewGormSource(gdb,
			records.WithGormSourceLimit(cfg.Source.PageSize),
			records.WithGormSourceMaxRows(cfg.Report.MaxRows),
			records.WithGormSourceQueryTimeout(cfg.Source.QueryTimeout))
		if err := src.Migrate(ctx); err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, records.ErrSource.New("unknown source %q", cfg.Source.Kind)
	}
}

func (a *app) close() error {
	var group errs.Group
	for i := len(a.closers) - 1; i >= 0; i-- {
		group.Add(a.closers[i]())
	}
	a.closers = nil
	return group.Err()
}
