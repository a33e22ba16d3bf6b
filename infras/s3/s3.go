// Package s3 stores ticket documents in an S3 compatible bucket (R2, MinIO, AWS).
package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"charter/config"
	"charter/infras/otel"
	"charter/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrKey    = "s3.key"
	otelAttrBucket = "s3.bucket"
	otelAttrSize   = "s3.size"
	region         = "auto"
)

// S3 works on object keys inside the configured bucket.
type S3 interface {
	// Put writes an object and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
	Get(ctx context.Context, key string) (data []byte, err error)
	Delete(ctx context.Context, key string) error
}

type store struct {
	client       *s3.Client
	bucket       string
	publicDomain string
	otel         otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) S3 {
	conf := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(region),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, "")),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load s3 configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if conf.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(conf.APIEndpoint)
		}
		o.UsePathStyle = true
	})

	return &store{
		client:       client,
		bucket:       conf.BucketName,
		publicDomain: strings.TrimSuffix(conf.PublicDomain, "/"),
		otel:         ot,
	}
}

func (s *store) scope(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+"."+op)
	scope.SetAttributes(map[string]any{
		otelAttrKey:    key,
		otelAttrBucket: s.bucket,
	})

	return ctx, scope
}

func (s *store) Put(ctx context.Context, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := s.scope(ctx, "Put", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(otelAttrSize, len(data))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("s3 put failed")

		return constant.Empty, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return s.publicDomain + "/" + key, nil
}

func (s *store) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, scope := s.scope(ctx, "Get", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	if data, err = io.ReadAll(out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return data, nil
}

func (s *store) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := s.scope(ctx, "Delete", key)
	defer scope.End()
	defer scope.TraceIfError(&err)

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	return nil
}
