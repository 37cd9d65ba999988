package services

import (
	"bytes"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SheetArchiveService stores submitted order sheets in S3 so a batch can be
// audited after the fact.
type SheetArchiveService struct {
	s3Client *s3.S3
	bucket   string
	baseURL  string
}

// NewSheetArchiveService creates the archive service from S3_* environment
// variables. Returns an error when the configuration is incomplete; the
// caller decides whether archiving is mandatory.
func NewSheetArchiveService() (*SheetArchiveService, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")

	if accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("S3 configuration missing")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("ap-northeast-2"),
		Endpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentials(
			accessKey,
			secretKey,
			"",
		),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &SheetArchiveService{
		s3Client: s3.New(sess),
		bucket:   bucket,
		baseURL:  fmt.Sprintf("https://%s", bucket),
	}, nil
}

// ArchiveOrderSheet uploads the original sheet bytes under
// organization_id/order-sheets/date/uuid_filename and returns the object URL.
func (s *SheetArchiveService) ArchiveOrderSheet(organizationID uuid.UUID, fileName string, data []byte) (string, error) {
	ext := filepath.Ext(fileName)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/order-sheets/%s/%s_%s",
		organizationID.String(),
		time.Now().Format("2006-01-02"),
		uuid.New().String(),
		sanitizeFileName(fileName),
	)

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload sheet to S3: %w", err)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, key)
	log.Debug().Str("key", key).Msg("order sheet archived")
	return url, nil
}

// DeleteArchivedSheet removes an archived sheet object.
func (s *SheetArchiveService) DeleteArchivedSheet(key string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete sheet from S3: %w", err)
	}
	return nil
}

// sanitizeFileName keeps S3 keys free of path separators and whitespace.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, name)
}
