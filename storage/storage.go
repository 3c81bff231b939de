package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the slice of the S3 client used for writes and deletes.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// presignAPI is the slice of the presign client used for signed URLs.
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Options configures the connection to the platform's S3-compatible
// storage endpoint.
type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	// PublicBaseURL is joined with object keys to produce public image URLs.
	PublicBaseURL string
}

// Service wraps the two storage buckets behind the validations above.
type Service struct {
	client        s3API
	presigner     presignAPI
	publicBaseURL string
}

// New connects to the platform's S3-compatible storage endpoint.
func New(ctx context.Context, opts Options) (*Service, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Service{
		client:        client,
		presigner:     s3.NewPresignClient(client),
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
	}, nil
}

// UploadCV validates and stores a CV document in the private bucket,
// returning the object key.
func (s *Service) UploadCV(ctx context.Context, key, contentType string, size int64, body io.Reader) (string, error) {
	if err := ValidateCV(size, contentType); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(BucketCVs),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload CV: %w", err)
	}
	return key, nil
}

// DeleteCV removes a CV object. Used both by callers and as the
// compensating action when the application insert fails after upload.
func (s *Service) DeleteCV(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(BucketCVs),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete CV: %w", err)
	}
	return nil
}

// SignedCVURL returns a time-limited URL granting read access to a private
// CV object. The link expires after SignedURLTTL.
func (s *Service) SignedCVURL(ctx context.Context, key string) (string, error) {
	presigned, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(BucketCVs),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = SignedURLTTL
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign CV url: %w", err)
	}
	return presigned.URL, nil
}

// UploadProductImage validates and stores an image in the public bucket,
// returning the public URL.
func (s *Service) UploadProductImage(ctx context.Context, key, contentType string, size int64, body io.Reader) (string, error) {
	if err := ValidateProductImage(size, contentType); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(BucketProductImages),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload product image: %w", err)
	}
	return s.PublicImageURL(key), nil
}

// PublicImageURL joins the public bucket base URL with an object key.
func (s *Service) PublicImageURL(key string) string {
	if s.publicBaseURL == "" {
		return key
	}
	return s.publicBaseURL + "/" + BucketProductImages + "/" + key
}
