package blob

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	appcfg "github.com/ntkr/core/internal/config"
)

// Store is the narrow blob-store boundary the handlers depend on.
type Store interface {
	Upload(ctx context.Context, objectKey string, payload []byte, contentType string) (string, error)
	Delete(ctx context.Context, objectKey string) error
	// KeyFromURL maps a stored public URL back to its object key, or ""
	// when the URL is not ours.
	KeyFromURL(blobURL string) string
}

// S3Store persists audio blobs in an S3-compatible bucket and exposes a
// public URL per object.
type S3Store struct {
	client       *s3.Client
	bucket       string
	endpoint     string
	region       string
	customDomain string
	pathStyle    bool
	keyPrefix    string
}

func NewS3Store(opts appcfg.S3Options) (*S3Store, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	accessKey := strings.TrimSpace(opts.AccessKeyID)
	secretKey := strings.TrimSpace(opts.SecretAccessKey)
	if bucket == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/access_key_id/secret_access_key are required")
	}

	region := strings.TrimSpace(opts.Region)
	endpoint := strings.TrimSpace(opts.Endpoint)
	if region == "" && endpoint == "" {
		return nil, fmt.Errorf("incomplete s3 config: region or endpoint is required")
	}
	if region == "" {
		region = "us-east-1"
	}
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	// Custom endpoints (MinIO, R2, ...) generally need path-style access.
	pathStyle := opts.PathStyleAccess
	if endpoint != "" && !opts.PathStyleAccess {
		pathStyle = true
	}

	awsCfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	return &S3Store{
		client:       client,
		bucket:       bucket,
		endpoint:     endpoint,
		region:       region,
		customDomain: strings.TrimRight(strings.TrimSpace(opts.CustomDomain), "/"),
		pathStyle:    pathStyle,
		keyPrefix:    normalizeObjectKey(opts.KeyPrefix),
	}, nil
}

// Upload stores the payload and returns the object's public URL.
func (s *S3Store) Upload(ctx context.Context, objectKey string, payload []byte, contentType string) (string, error) {
	key := s.fullKey(objectKey)
	if key == "" {
		return "", fmt.Errorf("invalid blob object key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("blob upload failed: %w", err)
	}
	return s.publicURL(key), nil
}

// Delete removes an object. Missing objects are not an error.
func (s *S3Store) Delete(ctx context.Context, objectKey string) error {
	key := s.fullKey(objectKey)
	if key == "" {
		return fmt.Errorf("invalid blob object key")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blob delete failed: %w", err)
	}
	return nil
}

// KeyFromURL recovers the object key from a stored public URL so deletion can
// target the right object. Returns "" when the URL does not belong to this
// store.
func (s *S3Store) KeyFromURL(blobURL string) string {
	parsed, err := url.Parse(blobURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(parsed.Path, "/")
	if s.pathStyle {
		path = strings.TrimPrefix(path, s.bucket+"/")
	}
	return normalizeObjectKey(path)
}

func (s *S3Store) fullKey(objectKey string) string {
	key := normalizeObjectKey(objectKey)
	if key == "" {
		return ""
	}
	if s.keyPrefix != "" && !strings.HasPrefix(key, s.keyPrefix+"/") {
		key = s.keyPrefix + "/" + key
	}
	return key
}

func (s *S3Store) publicURL(key string) string {
	encoded := encodeObjectKey(key)
	if s.customDomain != "" {
		return s.customDomain + "/" + encoded
	}
	if s.endpoint != "" {
		if s.pathStyle {
			return s.endpoint + "/" + s.bucket + "/" + encoded
		}
		return strings.Replace(s.endpoint, "://", "://"+s.bucket+".", 1) + "/" + encoded
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, encoded)
}

// ObjectKey builds a collision-resistant key for an uploaded file: concurrent
// uploads of equally named files must never overwrite one another.
func ObjectKey(filename string, now time.Time) string {
	base := sanitizeFilename(filename)
	if base == "" {
		base = "recording"
	}
	return fmt.Sprintf("voice-notes/%d-%s-%s", now.UnixMilli(), uuid.New().String()[:8], base)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

func normalizeObjectKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.Trim(key, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return key
}

func encodeObjectKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
