package api

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opdss/report/contracts/excel"
	"github.com/opdss/report/contracts/locker"
	"github.com/opdss/report/excel/report"
	"github.com/opdss/report/jwt"
	"github.com/opdss/report/records"
	"go.uber.org/zap"
)

// Cache 编码结果缓存, 由 redis.Cache 实现
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, b []byte) error
	Locker(key string) locker.Locker
	LockWait() time.Duration
}

// FileStore 报表文件存储, 由 storage 包的各驱动实现
type FileStore interface {
	excel.FileStorage
	Exists(ctx context.Context, file string) bool
	GetStream(ctx context.Context, file string) (io.ReadCloser, error)
	Delete(ctx context.Context, files ...string) error
}

// TokenValidator 校验 bearer token, 由 jwt.Jwt 实现
type TokenValidator interface {
	ValidateToken(token string) (*jwt.TokenPayload, error)
}

type Option func(h *Handler)

func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithReportOptions 编码参数, 同时作用于 xlsx 和 csv
func WithReportOptions(opts ...report.Option) Option {
	return func(h *Handler) {
		h.reportOpts = append(h.reportOpts, opts...)
	}
}

// WithStorage 开启 /report/upload 和 /report/files
func WithStorage(fs FileStore) Option {
	return func(h *Handler) {
		h.storage = fs
	}
}

func WithCache(c Cache) Option {
	return func(h *Handler) {
		h.cache = c
	}
}

// WithAuth 报表接口需要 Authorization: Bearer <token>
func WithAuth(v TokenValidator) Option {
	return func(h *Handler) {
		h.auth = v
	}
}

// Handler 报表接口
type Handler struct {
	logger     *zap.Logger
	source     records.Source
	reportOpts []report.Option
	encoders   map[string]excel.Exporter[report.Record]
	storage    FileStore
	cache      Cache
	auth       TokenValidator
}

func NewHandler(source records.Source, opts ...Option) *Handler {
	h := &Handler{
		logger: zap.NewNop(),
		source: source,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.reportOpts = append([]report.Option{report.WithLogger(h.logger)}, h.reportOpts...)
	h.encoders = map[string]excel.Exporter[report.Record]{
		report.ExcelSuffix: report.NewExcel(h.reportOpts...),
		report.CsvSuffix:   report.NewCsv(h.reportOpts...),
	}
	return h
}

// newEncoder 按格式创建编码器, extra 追加在配置的参数之后
func (h *Handler) newEncoder(format string, extra ...report.Option) excel.Exporter[report.Record] {
	opts := append(slices.Clone(h.reportOpts), extra...)
	if format == report.CsvSuffix {
		return report.NewCsv(opts...)
	}
	return report.NewExcel(opts...)
}

// Register 注册路由
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/report")
	if h.auth != nil {
		g.Use(h.authenticate)
	}
	g.GET("", h.getReport)
	g.POST("", h.postReport)
	g.POST("/upload", h.uploadReport)
	g.GET("/files/:name", h.getFile)
	g.DELETE("/files/:name", h.deleteFile)
}
