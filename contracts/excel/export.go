package excel

import (
	"context"
	"io"
)

type FileStorage interface {
	PutStream(ctx context.Context, filename string, rs io.Reader) error
	Url(fileKey string) string
}

// Encoder 把完整的数据集编码为一个文档
type Encoder[T any] interface {
	// Encode 同步生成完整文档
	Encode(records []T) ([]byte, error)
	// Suffix 文件后缀
	Suffix() string
	// ContentType 文档的 media type
	ContentType() string
}

// Exporter 导出接口
type Exporter[T any] interface {
	Encoder[T]
	// Export 导出到本地文件，返回本地文件路径
	Export(ctx context.Context, records []T) (string, error)
	// ExportTo 导出到io.Writer
	ExportTo(ctx context.Context, records []T, w io.Writer) (int64, error)
	// ExportToStorage 导出到文件存储，返回下载地址
	ExportToStorage(ctx context.Context, records []T, fs FileStorage) (string, error)
}
