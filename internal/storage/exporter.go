package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"route-backend/internal/config"
)

// Exporter pushes generated pick sheets to an S3-compatible bucket so office
// staff can fetch them without hitting the API. Disabled config yields a nil
// exporter and callers skip the upload.
type Exporter struct {
	client *s3.Client
	bucket string
}

// NewExporter builds the S3 client from export config. Returns nil when
// exports are disabled.
func NewExporter(cfg *config.Config) (*Exporter, error) {
	if !cfg.Exports.Enabled {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Exports.AccessKey,
			cfg.Exports.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Exports.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load export credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Exports.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Exports.Endpoint)
		}
	})

	return &Exporter{client: client, bucket: cfg.Exports.Bucket}, nil
}

// UploadPickSheet stores one rendered sheet under sheets/<run>/<timestamp>.
func (e *Exporter) UploadPickSheet(ctx context.Context, runID int, ext string, data []byte) (string, error) {
	key := fmt.Sprintf("sheets/run-%d/%s.%s", runID, time.Now().UTC().Format("20060102-150405"), ext)

	contentType := "application/pdf"
	if ext == "csv" {
		contentType = "text/csv"
	}

	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload pick sheet: %w", err)
	}

	log.Printf("[Export] Uploaded %s (%d bytes)", key, len(data))
	return key, nil
}
