package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	defaultPresignExpiry = 15 * time.Minute

	// DefaultPrefix is the key prefix used when S3_PREFIX is unset.
	DefaultPrefix = "clips"
)

// UploadTarget is a presigned PUT the client uses to upload a clip file.
type UploadTarget struct {
	URL       string    `json:"upload_url"`
	Key       string    `json:"file_path"`
	ExpiresAt time.Time `json:"expires_at"`
}

type presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error)
}

// PresignedRequest mirrors the part of the SDK result the service uses.
type PresignedRequest struct {
	URL string
}

type sdkPresigner struct {
	client *s3.PresignClient
}

func (p *sdkPresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	req, err := p.client.PresignPutObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &PresignedRequest{URL: req.URL}, nil
}

func (p *sdkPresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedRequest, error) {
	req, err := p.client.PresignGetObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &PresignedRequest{URL: req.URL}, nil
}

// ClipStorage issues presigned URLs for clip objects in one bucket.
type ClipStorage struct {
	presigner presigner
	bucket    string
	prefix    string
	expiry    time.Duration
	now       func() time.Time
}

// NewS3ClipStorage loads the default AWS credential chain for the region.
func NewS3ClipStorage(ctx context.Context, region, bucket, prefix string, expiry time.Duration) (*ClipStorage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return newClipStorage(&sdkPresigner{client: s3.NewPresignClient(client)}, bucket, prefix, expiry), nil
}

func newClipStorage(p presigner, bucket, prefix string, expiry time.Duration) *ClipStorage {
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	return &ClipStorage{
		presigner: p,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		expiry:    expiry,
		now:       time.Now,
	}
}

// ObjectKey places an editor's clip under <prefix>/<editor id>/<uuid>-<name>.
func (s *ClipStorage) ObjectKey(editorID uuid.UUID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "clip"
	}
	return path.Join(s.prefix, editorID.String(), uuid.NewString()+"-"+name)
}

// KeyBelongsTo reports whether key is a clean object key inside the
// editor's <prefix>/<editor id>/ folder.
func KeyBelongsTo(prefix string, editorID uuid.UUID, key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key {
		return false
	}
	folder := path.Join(strings.Trim(prefix, "/"), editorID.String()) + "/"
	return strings.HasPrefix(key, folder) && len(key) > len(folder)
}

// OwnsKey reports whether key was issued for editorID by PresignUpload.
func (s *ClipStorage) OwnsKey(editorID uuid.UUID, key string) bool {
	return KeyBelongsTo(s.prefix, editorID, key)
}

func (s *ClipStorage) PresignUpload(ctx context.Context, editorID uuid.UUID, fileName, contentType string) (*UploadTarget, error) {
	key := s.ObjectKey(editorID, fileName)
	params := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		params.ContentType = aws.String(contentType)
	}

	req, err := s.presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign clip upload: %w", err)
	}
	return &UploadTarget{URL: req.URL, Key: key, ExpiresAt: s.now().Add(s.expiry)}, nil
}

func (s *ClipStorage) PresignRead(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	req, err := s.presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign clip read: %w", err)
	}
	return req.URL, nil
}
