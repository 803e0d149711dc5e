package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	appconfig "github.com/xxxsen/s3drop/internal/config"
	"github.com/xxxsen/s3drop/internal/metrics"
)

// s3API is the slice of the SDK client surface the wrapper relies on, kept
// narrow so tests can substitute an in-memory implementation.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type s3Client struct {
	api    s3API
	bucket string
}

// regionPattern matches partition region identifiers such as us-east-1 or
// ap-southeast-3. Anything else is rejected before a client is handed out, so
// a typo fails at construction instead of on the first request.
var regionPattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]+)+-\d+$`)

// NewAWSConfig resolves region and credentials for the backend. Explicit
// static credentials are used only when both halves are present; otherwise
// resolution is left entirely to the SDK default provider chain (environment,
// shared config, instance role). The two sources are never mixed.
func NewAWSConfig(ctx context.Context, cfg appconfig.S3Config) (aws.Config, error) {
	region := cfg.Region
	if region == "" {
		region = appconfig.DefaultRegion
	}
	if !regionPattern.MatchString(region) {
		return aws.Config{}, fmt.Errorf("invalid region identifier %q", region)
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// NewS3Client builds a storage client backed by AWS S3 (or compatible) bound
// to the given bucket.
func NewS3Client(ctx context.Context, cfg appconfig.S3Config, bucket string) (Client, error) {
	awsCfg, err := NewAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewS3ClientFromConfig(awsCfg, cfg, bucket), nil
}

// NewS3ClientFromConfig builds a storage client from an already resolved AWS
// configuration. Factories use this to share one credential resolution across
// many clients.
func NewS3ClientFromConfig(awsCfg aws.Config, cfg appconfig.S3Config, bucket string) Client {
	endpoint := normalizeEndpoint(cfg.Host)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return &s3Client{api: client, bucket: bucket}
}

// ListKeys returns every object key in the bucket, following continuation
// tokens until the listing is exhausted.
func (c *s3Client) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var continuation *string

	for {
		resp, err := c.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(c.bucket),
			ContinuationToken: continuation,
		})
		if err != nil {
			metrics.StorageOp("list", err)
			return nil, fmt.Errorf("list objects in %s: %w", c.bucket, err)
		}

		for _, obj := range resp.Contents {
			if obj.Key == nil {
				continue
			}
			keys = append(keys, *obj.Key)
		}

		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		continuation = resp.NextContinuationToken
	}

	metrics.StorageOp("list", nil)
	return keys, nil
}

// Read fetches the object under key and decodes its body as UTF-8 text.
func (c *s3Client) Read(ctx context.Context, key string) (string, error) {
	res, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.StorageOp("read", err)
		return "", fmt.Errorf("get object %s/%s: %w", c.bucket, key, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.StorageOp("read", err)
		return "", fmt.Errorf("read object body %s/%s: %w", c.bucket, key, err)
	}

	metrics.StorageOp("read", nil)
	return string(data), nil
}

// Write stores content under key, replacing any previous object.
func (c *s3Client) Write(ctx context.Context, key string, content string) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          strings.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String("text/plain; charset=utf-8"),
	})
	metrics.StorageOp("write", err)
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Delete removes the object under key. Deleting a key that does not exist is
// not an error; the backend treats it as a no-op and so does this wrapper.
func (c *s3Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	metrics.StorageOp("delete", err)
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Stat returns metadata for the object under key without fetching its body.
func (c *s3Client) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	res, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	metrics.StorageOp("stat", err)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("head object %s/%s: %w", c.bucket, key, err)
	}

	return ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(res.ContentLength),
		ETag:         strings.Trim(aws.ToString(res.ETag), `"`),
		LastModified: aws.ToTime(res.LastModified),
	}, nil
}

// IsNotFound reports whether err represents a missing object on the backend.
func IsNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func normalizeEndpoint(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	if strings.Contains(host, "://") {
		return host
	}

	u := url.URL{
		Scheme: "https",
		Host:   host,
	}
	return u.String()
}
