package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opdss/report/contracts/excel"
	"github.com/opdss/report/excel/report"
	"go.uber.org/zap"
)

const userKey = "report.user"

// getReport 按配置的数据源生成报表, ?format=csv 返回 csv
func (h *Handler) getReport(c *gin.Context) {
	start := time.Now()
	enc, ok := h.encoder(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	b, err := h.cached(ctx, enc.Suffix(), func() ([]byte, error) {
		list, err := h.source.Records(ctx)
		if err != nil {
			return nil, err
		}
		return enc.Encode(list)
	})
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	h.logger.Info("report took",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("format", enc.Suffix()),
		zap.Int("bytes", len(b)))
	h.write(c, enc, b)
}

// postReport 对请求体中的数据生成报表
func (h *Handler) postReport(c *gin.Context) {
	start := time.Now()
	enc, ok := h.encoder(c)
	if !ok {
		return
	}
	var list []report.Record
	if err := c.ShouldBindJSON(&list); err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	for i := range list {
		list[i] = list[i].UTC()
	}
	b, err := enc.Encode(list)
	if err != nil {
		h.fail(c, encodeStatus(err), err)
		return
	}
	h.logger.Info("report took",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("format", enc.Suffix()),
		zap.Int("rows", len(list)))
	h.write(c, enc, b)
}

func (h *Handler) encoder(c *gin.Context) (excel.Exporter[report.Record], bool) {
	format := strings.ToLower(c.DefaultQuery("format", report.ExcelSuffix))
	enc, ok := h.encoders[format]
	if !ok {
		h.fail(c, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
	}
	return enc, ok
}

// cached 命中缓存直接返回, 否则持锁生成, 同一时间只有一个实例在生成
func (h *Handler) cached(ctx context.Context, key string, gen func() ([]byte, error)) ([]byte, error) {
	if h.cache == nil {
		return gen()
	}
	b, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("report cache unavailable", zap.Error(err))
		return gen()
	}
	if ok {
		return b, nil
	}

	l := h.cache.Locker(key)
	if err := l.TryLock(h.cache.LockWait()); err != nil {
		h.logger.Warn("report lock", zap.String("key", key), zap.Error(err))
		return gen()
	}
	defer func() {
		if err := l.Unlock(); err != nil {
			h.logger.Warn("report unlock", zap.String("key", key), zap.Error(err))
		}
	}()

	// 等锁期间其他实例可能已经生成
	if b, ok, err := h.cache.Get(ctx, key); err == nil && ok {
		return b, nil
	}
	b, err = gen()
	if err != nil {
		return nil, err
	}
	if err := h.cache.Set(ctx, key, b); err != nil {
		h.logger.Warn("report cache set", zap.String("key", key), zap.Error(err))
	}
	return b, nil
}

func (h *Handler) write(c *gin.Context, enc excel.Encoder[report.Record], b []byte) {
	filename := fmt.Sprintf("report_%s.%s", time.Now().Format("20060102150405"), enc.Suffix())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, enc.ContentType(), b)
}

func (h *Handler) fail(c *gin.Context, status int, err error) {
	h.logger.Error("report failed", zap.Int("status", status), zap.Error(err))
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func encodeStatus(err error) int {
	if report.EncodingError.Has(err) || errors.Is(err, report.ErrMaximumLimit) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) authenticate(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	payload, err := h.auth.ValidateToken(token)
	if err != nil {
		h.logger.Debug("invalid token", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.Set(userKey, payload)
	c.Next()
}
