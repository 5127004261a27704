package storage

import (
	"context"
	"io"
)

// FileSystem 报表文件存储
type FileSystem interface {
	// Delete deletes the given file(s).
	Delete(ctx context.Context, file ...string) error
	// Exists determines if a file exists.
	Exists(ctx context.Context, file string) bool
	GetStream(ctx context.Context, file string) (io.ReadCloser, error)
	PutStream(ctx context.Context, file string, rs io.Reader) error
	// Url get the URL for the file at the given path.
	Url(file string) string
}
