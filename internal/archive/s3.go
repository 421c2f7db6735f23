// Package archive persists the raw bytes of an uploaded scanner file to S3
// for compliance retention, grounded in
// modules/remediation/connectors/s3.go's session/client setup, retargeted
// from PII masking to a plain write-once archive of ingestion uploads.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/google/uuid"
)

// Config mirrors the connection fields the teacher's S3Connector.Connect
// pulls out of its generic config map, but typed for this one use.
type Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Archiver uploads raw ingestion file bytes and retrieves them back for
// audit/dispute investigations.
type Archiver struct {
	client *s3.S3
	bucket string
}

func New(cfg Config) (*Archiver, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("create AWS session: %w", err)
	}
	return &Archiver{client: s3.New(sess), bucket: cfg.Bucket}, nil
}

// key lays raw scans out by ingestion log id so a later lookup from the
// ingestion_logs row is a single deterministic GetObject.
func key(ingestionLogID uuid.UUID, fileName string) string {
	return fmt.Sprintf("ingestion/%s/%s/%s", time.Now().UTC().Format("2006/01/02"), ingestionLogID, fileName)
}

// Put uploads the raw scanner file and returns the object key to persist on
// the ingestion_logs row for later retrieval.
func (a *Archiver) Put(ctx context.Context, ingestionLogID uuid.UUID, fileName string, raw []byte) (string, error) {
	objectKey := key(ingestionLogID, fileName)
	_, err := a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(a.bucket),
		Key:                  aws.String(objectKey),
		Body:                 bytes.NewReader(raw),
		ServerSideEncryption: aws.String("AES256"),
	})
	if err != nil {
		return "", fmt.Errorf("archive upload %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// Get retrieves a previously archived scanner file's raw bytes.
func (a *Archiver) Get(ctx context.Context, objectKey string) ([]byte, error) {
	result, err := a.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("archive fetch %s: %w", objectKey, err)
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("archive read %s: %w", objectKey, err)
	}
	return content, nil
}
