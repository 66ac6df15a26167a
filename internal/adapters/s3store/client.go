// Package s3store provides a BlobStore adapter for S3-compatible object
// storage (AWS S3, MinIO and friends).
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/moodcat-labs/moodcat/internal/core/ports"
)

// Config holds the settings for an S3-backed blob store.
type Config struct {
	Region string
	Bucket string
	// Endpoint overrides the AWS endpoint for S3-compatible providers.
	Endpoint string
	// PublicURL is the base URL stored objects are reachable under. When
	// empty it is derived from the bucket and region (or the endpoint).
	PublicURL string
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("s3 adapter: bucket is required")
	}
	if c.Region == "" {
		return errors.New("s3 adapter: region is required")
	}
	return nil
}

func (c *Config) publicBase() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	if c.Endpoint != "" {
		return strings.TrimRight(c.Endpoint, "/") + "/" + c.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
}

// Client is a BlobStore backed by the S3 API.
type Client struct {
	s3cli   s3iface.S3API
	bucket  string
	baseURL string
}

// compile-time interface assertion
var _ ports.BlobStore = (*Client)(nil)

// NewClient returns a new Client backed by S3.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3 adapter: %w", err)
	}

	return &Client{
		s3cli:   s3.New(sess),
		bucket:  cfg.Bucket,
		baseURL: cfg.publicBase(),
	}, nil
}

// Store puts the payload under the given key and returns its public URL.
func (c *Client) Store(ctx context.Context, payload []byte, name string) (ports.StoredBlob, error) {
	_, err := c.s3cli.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchBucket {
			return ports.StoredBlob{}, fmt.Errorf("s3 adapter: bucket %q does not exist", c.bucket)
		}
		return ports.StoredBlob{}, fmt.Errorf("s3 adapter: %w", err)
	}

	return ports.StoredBlob{
		URL:  c.baseURL + "/" + name,
		Size: int64(len(payload)),
	}, nil
}
