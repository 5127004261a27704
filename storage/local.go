package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opdss/report/contracts/storage"
)

type LocalConfig struct {
	Endpoint string `help:"访问地址" default:"http://localhost:8080/report/files" json:"endpoint"`
	Root     string `help:"根目录" default:"$ROOT/reports" json:"root"`
}

var _ storage.FileSystem = (*Local)(nil)

type Local struct {
	root     string
	endpoint string
}

func NewLocal(config LocalConfig) (*Local, error) {
	if config.Root == "" {
		return nil, ErrStorage.New("please set local root")
	}
	if err := os.MkdirAll(config.Root, os.ModePerm); err != nil {
		return nil, ErrStorage.Wrap(err)
	}
	return &Local{
		root:     config.Root,
		endpoint: strings.TrimSuffix(config.Endpoint, "/"),
	}, nil
}

func (r *Local) Delete(ctx context.Context, files ...string) error {
	for _, file := range files {
		fileInfo, err := os.Stat(r.fullPath(file))
		if err != nil {
			return err
		}
		if fileInfo.IsDir() {
			return ErrStorage.New("can't delete directory %s", file)
		}
	}
	for _, file := range files {
		if err := os.Remove(r.fullPath(file)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Local) Exists(ctx context.Context, file string) bool {
	_, err := os.Stat(r.fullPath(file))
	return err == nil
}

func (r *Local) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	return os.Open(r.fullPath(file))
}

func (r *Local) PutStream(ctx context.Context, file string, rs io.Reader) error {
	file = r.fullPath(file)
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err = io.Copy(f, rs); err != nil {
		return err
	}
	return nil
}

func (r *Local) Url(file string) string {
	return r.endpoint + "/" + strings.TrimPrefix(filepath.ToSlash(file), "/")
}

func (r *Local) fullPath(path string) string {
	realPath := filepath.Clean("/" + path)
	if realPath == "/" {
		return r.root
	}
	return filepath.Join(r.root, realPath)
}
