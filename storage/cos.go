package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/opdss/report/contracts/storage"
	"github.com/tencentyun/cos-go-sdk-v5"
	"github.com/zeebo/errs"
)

/*
* Cos COS
* Document: https://cloud.tencent.com/document/product/436/31215
 */
var ErrCos = errs.Class("storage.cos")

type CosConfig struct {
	AccessKeyId     string `help:"accessKeyId" default:"" json:"access_key_id"`
	AccessKeySecret string `help:"accessKeySecret" default:"" json:"access_key_secret"`
	Endpoint        string `help:"存储桶地址" default:"" json:"endpoint"`
}

var _ storage.FileSystem = (*Cos)(nil)

type Cos struct {
	config   CosConfig
	instance *cos.Client
}

func NewCos(config CosConfig) (*Cos, error) {
	if config.AccessKeyId == "" || config.AccessKeySecret == "" || config.Endpoint == "" {
		return nil, ErrCos.New("please set configuration")
	}

	u, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, ErrCos.Wrap(err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  config.AccessKeyId,
			SecretKey: config.AccessKeySecret,
		},
	})
	return &Cos{
		config:   config,
		instance: client,
	}, nil
}

func (r *Cos) Delete(ctx context.Context, files ...string) error {
	var obs []cos.Object
	for _, v := range files {
		obs = append(obs, cos.Object{Key: v})
	}
	opt := &cos.ObjectDeleteMultiOptions{
		Objects: obs,
		Quiet:   true,
	}
	if _, _, err := r.instance.Object.DeleteMulti(ctx, opt); err != nil {
		return ErrCos.Wrap(err)
	}
	return nil
}

func (r *Cos) Exists(ctx context.Context, file string) bool {
	ok, err := r.instance.Object.IsExist(ctx, file)
	if err != nil {
		return false
	}
	return ok
}

func (r *Cos) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	resp, err := r.instance.Object.Get(ctx, file, nil)
	if err != nil {
		return nil, ErrCos.Wrap(err)
	}
	return resp.Body, nil
}

func (r *Cos) PutStream(ctx context.Context, file string, rs io.Reader) error {
	content, contentType, err := readContent(rs)
	if err != nil {
		return err
	}
	_, err = r.instance.Object.Put(ctx, file, bytes.NewReader(content), &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: contentType,
		},
	})
	return ErrCos.Wrap(err)
}

func (r *Cos) Url(file string) string {
	return r.instance.Object.GetObjectURL(file).String()
}
