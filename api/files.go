package api

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opdss/report/excel/report"
	"go.uber.org/zap"
)

var (
	errNoStorage    = errors.New("file storage is not configured")
	errFileNotFound = errors.New("report file not found")
	errInvalidName  = errors.New("invalid report name")
)

var nameRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// uploadReport 生成报表并上传到文件存储, ?name= 指定文件名, 已存在时需要 replace=true
func (h *Handler) uploadReport(c *gin.Context) {
	if h.storage == nil {
		h.fail(c, http.StatusNotImplemented, errNoStorage)
		return
	}
	enc, ok := h.encoder(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if name := c.Query("name"); name != "" {
		if !nameRegexp.MatchString(name) {
			h.fail(c, http.StatusBadRequest, errInvalidName)
			return
		}
		file := name + "." + enc.Suffix()
		if c.Query("replace") != "true" && h.storage.Exists(ctx, file) {
			h.fail(c, http.StatusConflict, fmt.Errorf("report %q already exists", file))
			return
		}
		enc = h.newEncoder(enc.Suffix(), report.WithFilename(name))
	}

	list, err := h.source.Records(ctx)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	url, err := enc.ExportToStorage(ctx, list, h.storage)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	h.logger.Info("report uploaded", zap.String("url", url), zap.Int("rows", len(list)))
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// getFile 下载已上传的报表
func (h *Handler) getFile(c *gin.Context) {
	name, contentType, ok := h.storedFile(c)
	if !ok {
		return
	}
	rc, err := h.storage.GetStream(c.Request.Context(), name)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	defer func() {
		if err := rc.Close(); err != nil {
			h.logger.Warn("close report file", zap.String("name", name), zap.Error(err))
		}
	}()
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, name),
	})
}

// deleteFile 删除已上传的报表
func (h *Handler) deleteFile(c *gin.Context) {
	name, _, ok := h.storedFile(c)
	if !ok {
		return
	}
	if err := h.storage.Delete(c.Request.Context(), name); err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	h.logger.Info("report deleted", zap.String("name", name))
	c.Status(http.StatusNoContent)
}

// storedFile 校验文件名并确认文件存在, 返回文件名和 content type
func (h *Handler) storedFile(c *gin.Context) (string, string, bool) {
	if h.storage == nil {
		h.fail(c, http.StatusNotImplemented, errNoStorage)
		return "", "", false
	}
	name := c.Param("name")
	ext := path.Ext(name)
	enc, ok := h.encoders[strings.TrimPrefix(ext, ".")]
	if !ok || !nameRegexp.MatchString(strings.TrimSuffix(name, ext)) {
		h.fail(c, http.StatusNotFound, errFileNotFound)
		return "", "", false
	}
	if !h.storage.Exists(c.Request.Context(), name) {
		h.fail(c, http.StatusNotFound, errFileNotFound)
		return "", "", false
	}
	return name, enc.ContentType(), true
}
