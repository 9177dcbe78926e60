package fetch

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var _ Fetcher = &S3Client{}

// S3Config describes the object store holding sheet images.
type S3Config struct {
	// Endpoint overrides the AWS endpoint, e.g. for MinIO. Path style
	// addressing is used whenever it is set.
	Endpoint string

	Region string

	// AccessKeyID and SecretAccessKey are optional; without them the default
	// AWS credential chain applies.
	AccessKeyID     string
	SecretAccessKey string
}

// objectGetter is the part of the S3 API the fetcher needs.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Client reads images from s3://bucket/key locations.
type S3Client struct {
	client objectGetter

	maxBytes  int64
	maxPixels int
}

// NewS3 builds an S3Client from cfg.
func NewS3(ctx context.Context, cfg S3Config) (*S3Client, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:    client,
		maxBytes:  DefaultMaxBytes,
		maxPixels: DefaultMaxPixels,
	}, nil
}

// WithObjectMaxBytes caps the object size. Zero or less removes the cap.
func (c *S3Client) WithObjectMaxBytes(n int64) *S3Client {
	c.maxBytes = n
	return c
}

// WithObjectMaxPixels caps the decoded image size. Zero or less removes the
// cap.
func (c *S3Client) WithObjectMaxPixels(n int) *S3Client {
	c.maxPixels = n
	return c
}

func (c *S3Client) Fetch(ctx context.Context, location string) (image.Image, error) {
	bucket, key, err := parseS3Location(location)
	if err != nil {
		return nil, err
	}

	output, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	defer output.Body.Close()

	data, err := readLimited(output.Body, c.maxBytes)
	if err != nil {
		return nil, err
	}

	return decode(data, c.maxPixels)
}

func parseS3Location(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedLocation, location)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs a bucket and a key", ErrUnsupportedLocation, location)
	}

	return u.Host, key, nil
}
