// Package photos hands out presigned upload URLs for profile photos stored in
// an S3-compatible bucket.
package photos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

const uploadValidity = 15 * time.Minute

type Storage interface {
	PresignUpload(ctx context.Context, uid string) (*models.PhotoUpload, error)
}

type Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
}

// S3Storage presigns uploads against one bucket, path-style so it works with
// MinIO as well as AWS.
type S3Storage struct {
	cfg    Config
	client *s3.PresignClient
}

func NewS3Storage(ctx context.Context, cfg Config) (*S3Storage, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Storage{cfg: cfg, client: newS3PresignClient(client)}, nil
}

func (s *S3Storage) PresignUpload(ctx context.Context, uid string) (*models.PhotoUpload, error) {
	key := photoKey(uid, time.Now())

	req, err := presignPutObject(s.client, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(uploadValidity))
	if err != nil {
		return nil, fmt.Errorf("presign photo upload: %w", err)
	}

	return &models.PhotoUpload{
		UploadURL: req.URL,
		PhotoURL:  s.objectURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(uploadValidity),
	}, nil
}

func (s *S3Storage) objectURL(key string) string {
	base := strings.TrimRight(s.cfg.BaseEndpoint, "/")
	if base == "" {
		base = fmt.Sprintf("https://s3.%s.amazonaws.com", s.cfg.Region)
	}
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.Bucket, key)
}

func photoKey(uid string, now time.Time) string {
	return fmt.Sprintf("photos/%s/%d/%v", uid, now.Unix(), uuid.New())
}
