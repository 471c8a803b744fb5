package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/freezeraudit/internal/server/config"
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

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ArchiveKey is the object key for an export of ownerID taken at t.
func ArchiveKey(ownerID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/freezer-audit-%s-%s.csv", ownerID, t.Format(exportDateLayout), uuid.New())
}

// ArchiveStore keeps CSV exports in an S3-compatible bucket.
type ArchiveStore struct {
	config *sc.Config
}

func NewArchiveStore(cfg *sc.Config) *ArchiveStore {
	return &ArchiveStore{config: cfg}
}

func (a *ArchiveStore) Enabled() bool {
	return a.config.ExportsEnabled()
}

func (a *ArchiveStore) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,
			a.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if a.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (a *ArchiveStore) Put(ctx context.Context, key string, data []byte) error {
	client, err := a.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := a.config.S3Bucket
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("upload export: %w", err)
	}
	return nil
}

func (a *ArchiveStore) PresignedURL(ctx context.Context, key string) (string, error) {
	client, err := a.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := a.config.S3Bucket
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(a.config.ExportURLValidity))
	if err != nil {
		return "", fmt.Errorf("presign export: %w", err)
	}
	return req.URL, nil
}
