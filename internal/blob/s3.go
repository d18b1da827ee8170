package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds construction parameters for the S3 driver. Credentials come
// from the default AWS chain (env, shared config, instance role).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. a MinIO URL
	PathStyle bool
}

// S3 implements Store on a single S3 compatible bucket. Keys map to object
// keys directly.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 blob store.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blob: s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("blob: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// Driver returns DriverS3.
func (s *S3) Driver() Driver { return DriverS3 }

// Put emulates create-only semantics with a HeadObject probe.
func (s *S3) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	key, err := CleanKey(key)
	if err != nil {
		return Info{}, err
	}
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key}); err == nil {
		return Info{}, fmt.Errorf("%w: %s", ErrExists, key)
	}
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &key, Body: r}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if len(opts.Metadata) > 0 {
		input.Metadata = cloneMetadata(opts.Metadata)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return Info{}, err
	}
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return Info{}, err
	}
	return s3Info(key, out.ContentLength, out.ContentType, out.Metadata, out.LastModified), nil
}

// Get streams the object body.
func (s *S3) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	key, err := CleanKey(key)
	if err != nil {
		return Info{}, nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return Info{}, nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return Info{}, nil, err
	}
	return s3Info(key, out.ContentLength, out.ContentType, out.Metadata, out.LastModified), out.Body, nil
}

// Delete removes the object. S3 does not report whether it existed.
func (s *S3) Delete(ctx context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	return err
}

func s3Info(key string, size *int64, ct *string, md map[string]string, lm *time.Time) Info {
	info := Info{Key: key, Metadata: cloneMetadata(md)}
	if size != nil {
		info.Size = *size
	}
	if ct != nil {
		info.ContentType = *ct
	}
	if lm != nil {
		info.LastModified = lm.UTC()
	}
	return info
}
