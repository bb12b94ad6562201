package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"foodgram/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetObjectKeyFromLink(link string) string
		GetPublicLinkKey(objectKey string) string
	}

	awsS3 struct {
		client   *s3.Client
		bucket   string
		region   string
		endpoint string
	}

	S3Config struct {
		Bucket    string
		Region    string
		Endpoint  string
		AccessKey string
		SecretKey string
	}
)

func NewAwsS3() (AwsS3, error) {
	s, err := newAwsS3(context.Background(), S3Config{
		Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
		Region:    utils.GetConfig("AWS_S3_REGION"),
		Endpoint:  utils.GetConfig("AWS_S3_ENDPOINT"),
		AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newAwsS3(ctx context.Context, c S3Config) (*awsS3, error) {
	endpoint := strings.TrimRight(c.Endpoint, "/")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &awsS3{
		client:   client,
		bucket:   c.Bucket,
		region:   c.Region,
		endpoint: endpoint,
	}, nil
}

func (s *awsS3) UploadFile(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectKey, err)
	}
	return objectKey, nil
}

func (s *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (s *awsS3) baseURL() string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/", s.endpoint, s.bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
}

func (s *awsS3) GetObjectKeyFromLink(link string) string {
	base := s.baseURL()
	if !strings.HasPrefix(link, base) {
		return ""
	}
	return strings.TrimPrefix(link, base)
}

func (s *awsS3) GetPublicLinkKey(objectKey string) string {
	return s.baseURL() + objectKey
}
