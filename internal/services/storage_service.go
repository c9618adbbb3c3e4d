// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/beirutvibes/menu-backend/internal/config"
)

// ObjectStore is the object storage collaborator: upload-by-path with no
// overwrite, public URL derivation, and delete-by-path (single or batch).
type ObjectStore interface {
	Upload(path string, body io.Reader, contentType string) error
	PublicURL(path string) string
	Remove(paths ...string) error
}

type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// Upload writes the object at path. An object already present at the same
// path is never overwritten.
func (s *StorageService) Upload(path string, body io.Reader, contentType string) error {
	if s.s3Client == nil {
		// Local development - just log
		logrus.WithField("path", path).Info("File would be uploaded")
		return nil
	}

	_, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(path),
	})
	if err == nil {
		return fmt.Errorf("object already exists at %s", path)
	}
	if aerr, ok := err.(awserr.RequestFailure); !ok || aerr.StatusCode() != 404 {
		return fmt.Errorf("failed to check object existence: %w", err)
	}

	fileBytes, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		CacheControl:  aws.String("max-age=3600"),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

func (s *StorageService) PublicURL(path string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, path)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, path)
}

// Remove deletes the given objects in one batch call.
func (s *StorageService) Remove(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	if s.s3Client == nil {
		logrus.WithField("paths", strings.Join(paths, ",")).Info("Files would be deleted")
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(p)})
	}

	out, err := s.s3Client.DeleteObjects(&s3.DeleteObjectsInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to delete %s: %s", aws.StringValue(first.Key), aws.StringValue(first.Message))
	}

	return nil
}

// ValidateImage checks the file signature of common web image formats.
func ValidateImage(buffer []byte) error {
	if !isValidImageType(buffer) {
		return fmt.Errorf("invalid image file")
	}
	return nil
}

func isValidImageType(buffer []byte) bool {
	// Check for JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// Check for PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// Check for GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	// Check for WebP
	if len(buffer) >= 12 && string(buffer[0:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}
