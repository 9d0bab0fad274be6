// Package s3 archives submitted returns in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"gstledger/internal/config"
	"gstledger/internal/domain"
	"gstledger/internal/port"
)

const snapshotContentType = "application/json"

// maxSnapshotSize is the largest object Get will read.
const maxSnapshotSize = 32 << 20

var errSnapshotTooLarge = errors.New("archived snapshot exceeds size limit")

type archive struct {
	client    *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
	bucket    string
	prefix    string
	expiry    time.Duration
}

// NewArchive creates the S3-backed ReturnArchive. A custom endpoint
// (MinIO, LocalStack) switches to path-style addressing.
func NewArchive(cfg *config.S3Config) (port.ReturnArchive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 archive bucket is not configured")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &archive{
		client:    client,
		presigner: s3.NewPresignClient(client),
		uploader:  manager.NewUploader(client),
		bucket:    cfg.Bucket,
		prefix:    cfg.ArchivePrefix,
		expiry:    presignExpiry(cfg.PresignExpiry),
	}, nil
}

// ObjectKey lays archives out per company and month:
// <prefix>/<company>/<YYYY-MM>/<return type>/<ARN>.json
func ObjectKey(prefix string, period domain.ReturnPeriod, arn string) string {
	return path.Join(prefix, period.CompanyID.String(),
		fmt.Sprintf("%04d-%02d", period.Year, period.Month), string(period.ReturnType), arn+".json")
}

// snapshotMetadata identifies the filing on the object itself.
func snapshotMetadata(period domain.ReturnPeriod, arn string) map[string]string {
	return map[string]string{
		"arn":         arn,
		"company-id":  period.CompanyID.String(),
		"period":      fmt.Sprintf("%04d-%02d", period.Year, period.Month),
		"return-type": string(period.ReturnType),
	}
}

func presignExpiry(seconds int64) time.Duration {
	if seconds <= 0 {
		return time.Hour
	}
	return time.Duration(seconds) * time.Second
}

func (a *archive) Put(ctx context.Context, period domain.ReturnPeriod, arn string, snapshot []byte) (string, error) {
	key := ObjectKey(a.prefix, period, arn)
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(a.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(snapshot),
		ContentLength:        aws.Int64(int64(len(snapshot))),
		ContentType:          aws.String(snapshotContentType),
		Metadata:             snapshotMetadata(period, arn),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("archiving %s: %w", arn, err)
	}
	return key, nil
}

func (a *archive) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", key, err)
	}
	defer func() { _ = result.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(result.Body, maxSnapshotSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", key, err)
	}
	if len(data) > maxSnapshotSize {
		return nil, fmt.Errorf("%s: %w", key, errSnapshotTooLarge)
	}
	return data, nil
}

func (a *archive) Remove(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("removing archive %s: %w", key, err)
	}
	return nil
}

func (a *archive) URL(ctx context.Context, key string) (string, error) {
	result, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(a.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", path.Base(key))),
	}, s3.WithPresignExpires(a.expiry))
	if err != nil {
		return "", fmt.Errorf("presigning archive %s: %w", key, err)
	}
	return result.URL, nil
}
