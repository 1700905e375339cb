package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/docupload/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPostObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
		return pc.PresignPostObject(ctx, in, optFns...)
	}
)

type S3Config struct {
	Region       string
	User         string
	Password     string
	Bucket       string
	BaseEndpoint string
	Expires      time.Duration
}

// S3Backend sends clients straight to an S3-compatible bucket with a
// presigned POST policy.
type S3Backend struct {
	cfg     S3Config
	presign *s3.PresignClient
}

func NewS3Backend(ctx context.Context, cfg S3Config) (*S3Backend, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.User, cfg.Password, "")),
	)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Backend{cfg: cfg, presign: newS3PresignClient(client)}, nil
}

func (b *S3Backend) UploadParameters(ctx context.Context, doc *models.Document) (Parameters, map[string]any, error) {
	bucket := b.cfg.Bucket
	key := doc.StorageKey

	req, err := presignPostObject(b.presign, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, func(o *s3.PresignPostOptions) {
		if b.cfg.Expires > 0 {
			o.Expires = b.cfg.Expires
		}
	})
	if err != nil {
		return Parameters{}, nil, fmt.Errorf("presign post: %w", err)
	}

	data := make(map[string]string, len(req.Values))
	for k, v := range req.Values {
		data[k] = v
	}

	return Parameters{URL: req.URL, Method: http.MethodPost, Data: data},
		map[string]any{"bucket": bucket, "key": key}, nil
}
