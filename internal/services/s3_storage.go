package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3StorageService struct {
	client s3API
	bucket string
}

// NewS3StorageService loads credentials from the default AWS chain.
func NewS3StorageService(ctx context.Context, bucket, region string) (*S3StorageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3StorageService{client: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

func (s *S3StorageService) Upload(ctx context.Context, body io.Reader, objectKey string, contentType string) (string, error) {
	objectKey = strings.Trim(objectKey, "/")
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, objectKey), nil
}

func (s *S3StorageService) Delete(ctx context.Context, fileURL string) error {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("parse file url: %w", err)
	}
	if parsed.Host != s.bucket+".s3.amazonaws.com" {
		return fmt.Errorf("file url does not belong to bucket %q", s.bucket)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(parsed.Path, "/")),
	})
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
