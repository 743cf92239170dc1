package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"rentshare-backend/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Store struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage.bucket is required for s3 storage")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

func NewS3StoreWithClient(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(ref string) string {
	if s.prefix == "" {
		return ref
	}
	return path.Join(s.prefix, ref)
}

func (s *S3Store) Exists(ctx context.Context, ref string) (bool, error) {
	if !ValidRef(ref) {
		return false, nil
	}
	logger.ExternalServiceCall("s3", "HeadObject", "bucket", s.bucket, "ref", ref)
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(ref)),
	})
	if err != nil {
		var notFound *types.NotFound
		var noKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noKey) {
			logger.ExternalServiceResult("s3", "HeadObject", nil, "ref", ref, "exists", false)
			return false, nil
		}
		logger.ExternalServiceResult("s3", "HeadObject", err, "ref", ref)
		return false, err
	}
	logger.ExternalServiceResult("s3", "HeadObject", nil, "ref", ref, "exists", true)
	return true, nil
}

func (s *S3Store) Save(ctx context.Context, ref string, body io.Reader, contentType string) error {
	if !ValidRef(ref) {
		return fmt.Errorf("invalid evidence ref %q", ref)
	}
	logger.ExternalServiceCall("s3", "PutObject", "bucket", s.bucket, "ref", ref)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(ref)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	logger.ExternalServiceResult("s3", "PutObject", err, "ref", ref)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *S3Store) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if !ValidRef(ref) {
		return nil, ErrNotFound
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(ref)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out.Body, nil
}
