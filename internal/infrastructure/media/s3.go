package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// s3API is the slice of the S3 client the uploader needs.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores image payloads in an S3 bucket and hands back public
// URLs. It implements domain.ImageStore.
type Uploader struct {
	client    s3API
	bucket    string
	region    string
	publicURL string
	keyPrefix string
	logger    zerolog.Logger
}

// NewUploader creates an S3-backed image store. Credentials come from the
// default AWS chain (environment, shared config, instance role).
func NewUploader(ctx context.Context, bucket, region, publicURL, keyPrefix string, logger zerolog.Logger) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return newUploader(s3.NewFromConfig(cfg), bucket, region, publicURL, keyPrefix, logger), nil
}

func newUploader(client s3API, bucket, region, publicURL, keyPrefix string, logger zerolog.Logger) *Uploader {
	if keyPrefix == "" {
		keyPrefix = "food-images"
	}
	return &Uploader{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		keyPrefix: keyPrefix,
		logger:    logger.With().Str("component", "media").Logger(),
	}
}

// Upload stores one image under a unique key and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%d%s", u.keyPrefix, time.Now().UnixNano(), extensionFor(contentType))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		u.logger.Error().Err(err).Str("key", key).Msg("S3 upload failed")
		return "", fmt.Errorf("uploading image: %w", err)
	}

	u.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return u.url(key), nil
}

func (u *Uploader) url(key string) string {
	if u.publicURL != "" {
		return u.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

// extensionFor picks a file extension for a MIME type, preferring .jpg
// over mime's alphabetical .jpe.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if _, subtype, ok := strings.Cut(contentType, "/"); ok && subtype != "" {
		return "." + subtype
	}
	return ""
}

// ParseDataURL splits a data URL ("data:<mime>;base64,<payload>") into
// its still-encoded payload and content type.
func ParseDataURL(s string) (payload, contentType string, err error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return "", "", fmt.Errorf("%w: not a data URL", domain.ErrValidation)
	}
	contentType = strings.TrimPrefix(meta, "data:")
	contentType, _, _ = strings.Cut(contentType, ";")
	if contentType == "" {
		return "", "", fmt.Errorf("%w: data URL without content type", domain.ErrValidation)
	}
	return payload, contentType, nil
}

// DecodeDataURL parses a data URL and decodes its base64 payload.
func DecodeDataURL(s string) ([]byte, string, error) {
	payload, contentType, err := ParseDataURL(s)
	if err != nil {
		return nil, "", err
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: broken base64 image payload", domain.ErrValidation)
	}
	return data, contentType, nil
}
