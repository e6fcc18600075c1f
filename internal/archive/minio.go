package archive

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	objectName      string
	accessKey       string
	secretAccessKey string
	useSSL          bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		endpoint: "s3.amazonaws.com",
		useSSL:   true,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

type minioDownloader struct {
	cfg    *minioConfig
	client *minio.Client
}

func NewMinioDownloader(opts ...MinioOpts) (*minioDownloader, error) {
	cfg := newConfig(opts...)
	if cfg.bucket == "" || cfg.objectName == "" {
		return nil, errors.New("s3 url must name a bucket and an object")
	}

	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating s3 client")
	}

	return &minioDownloader{cfg: cfg, client: minioClient}, nil
}

func (s *minioDownloader) Get(ctx context.Context, dst io.Writer) error {
	object, err := s.client.GetObject(ctx, s.cfg.bucket, s.cfg.objectName, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer object.Close()

	objInfo, err := object.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat s3://%s/%s", s.cfg.bucket, s.cfg.objectName)
	}

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	mw := newWrapper(newCtx, dst, objInfo.Size)

	if _, err = io.Copy(mw, object); err != nil {
		return err
	}

	return mw.check()
}

func (s *minioDownloader) Type() string {
	return "minio"
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithObjectName(name string) MinioOpts {
	return func(c *minioConfig) {
		c.objectName = name
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretKey
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}
