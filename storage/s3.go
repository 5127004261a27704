package storage

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/opdss/report/contracts/storage"
)

/*
* S3 OSS
* Document: https://github.com/awsdocs/aws-doc-sdk-examples/blob/main/gov2/s3
 */

type S3Config struct {
	AccessKeyId     string `help:"accessKeyId" default:""`
	AccessKeySecret string `help:"accessKeySecret" default:""`
	Bucket          string `help:"存储桶" default:""`
	Region          string `help:"地区" default:""`
	Url             string `help:"访问地址" default:""`
	Endpoint        string `help:"api入口" default:""`
}

var _ storage.FileSystem = (*S3)(nil)

type S3 struct {
	config   S3Config
	instance *s3.Client
}

func NewS3(config S3Config) (*S3, error) {
	if config.AccessKeyId == "" || config.AccessKeySecret == "" || config.Endpoint == "" {
		return nil, ErrStorage.New("please set s3 configuration")
	}

	cfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.AccessKeyId, config.AccessKeySecret, "")),
		awsConfig.WithRegion(config.Region),
	)
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}

	if config.Url == "" {
		config.Url = config.Endpoint
	}
	config.Url = strings.TrimSuffix(config.Url, "/")

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.Endpoint)
		o.UsePathStyle = true
	})
	return &S3{
		config:   config,
		instance: client,
	}, nil
}

func (r *S3) Delete(ctx context.Context, files ...string) error {
	var objectIdentifiers []types.ObjectIdentifier
	for _, file := range files {
		objectIdentifiers = append(objectIdentifiers, types.ObjectIdentifier{
			Key: aws.String(r.key(file)),
		})
	}
	_, err := r.instance.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(r.config.Bucket),
		Delete: &types.Delete{
			Objects: objectIdentifiers,
			Quiet:   aws.Bool(true),
		},
	})
	return err
}

func (r *S3) Exists(ctx context.Context, file string) bool {
	_, err := r.instance.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.config.Bucket),
		Key:    aws.String(r.key(file)),
	})
	return err == nil
}

func (r *S3) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	resp, err := r.instance.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.config.Bucket),
		Key:    aws.String(r.key(file)),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (r *S3) key(file string) string {
	return strings.TrimPrefix(file, "/")
}

func (r *S3) PutStream(ctx context.Context, file string, rs io.Reader) error {
	content, contentType, err := readContent(rs)
	if err != nil {
		return err
	}
	_, err = r.instance.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.config.Bucket),
		Key:           aws.String(r.key(file)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType),
	})
	return err
}

func (r *S3) Url(file string) string {
	return r.config.Url + "/" + r.key(file)
}
