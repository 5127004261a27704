package storage

import (
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/opdss/report/contracts/storage"
	"github.com/zeebo/errs"
)

var ErrStorage = errs.Class("storage")

const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverOss   = "oss"
	DriverCos   = "cos"
)

// Config 报表文件存储配置
type Config struct {
	Driver string      `help:"存储驱动[local|s3|oss|cos]" default:"local"`
	Local  LocalConfig `help:"本地存储"`
	S3     S3Config    `help:"s3 存储"`
	Oss    OssConfig   `help:"阿里云 oss"`
	Cos    CosConfig   `help:"腾讯云 cos"`
}

// NewFileSystem 根据驱动创建文件存储
func NewFileSystem(conf Config) (storage.FileSystem, error) {
	switch conf.Driver {
	case DriverLocal, "":
		return NewLocal(conf.Local)
	case DriverS3:
		return NewS3(conf.S3)
	case DriverOss:
		return NewOss(conf.Oss)
	case DriverCos:
		return NewCos(conf.Cos)
	default:
		return nil, ErrStorage.New("unknown driver %q", conf.Driver)
	}
}

// readContent buffers rs so the content type can be detected before upload.
func readContent(rs io.Reader) ([]byte, string, error) {
	content, err := io.ReadAll(rs)
	if err != nil {
		return nil, "", err
	}
	return content, mimetype.Detect(content).String(), nil
}
