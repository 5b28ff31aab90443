package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// KeyPrefix is the path prefix reserved for uploaded assets. Image
	// values outside this prefix are treated as legacy absolute URLs and
	// passed through unsigned.
	KeyPrefix = "uploads/"

	// DefaultUploadExpiry bounds the window in which a presigned PUT is valid.
	DefaultUploadExpiry = 5 * time.Minute
	// DefaultViewExpiry bounds the window in which a presigned GET is valid.
	DefaultViewExpiry = time.Hour
)

// Signer issues time-limited view URLs. Satisfied by *Client; services hold
// this narrow interface so tests can fake signing.
type Signer interface {
	PresignView(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// IsManagedKey reports whether the value is a storage key under the managed
// prefix, as opposed to a legacy absolute URL or empty value.
func IsManagedKey(value string) bool {
	return strings.HasPrefix(value, KeyPrefix)
}

// Client wraps the object store for presigned access and direct upload.
type Client struct {
	mc     *minio.Client
	bucket string
}

// Config holds object store connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// New connects a storage client. The bucket must already exist.
func New(cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}
	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

// PresignUpload derives a fresh key from the file's extension and returns a
// URL authorizing one PUT of that key within the expiry window. The content
// type is bound into the signature, so the PUT must carry it verbatim. The
// object is not created until the client uploads.
func (c *Client) PresignUpload(ctx context.Context, fileName, contentType string, expiry time.Duration) (uploadURL, key string, err error) {
	key = newKey(fileName)
	u, err := c.mc.PresignHeader(ctx, http.MethodPut, c.bucket, key, expiry, url.Values{},
		http.Header{"Content-Type": []string{contentType}})
	if err != nil {
		return "", "", fmt.Errorf("presign upload: %w", err)
	}
	return u.String(), key, nil
}

// PresignView returns a signed GET URL for the key. It does not verify the
// object exists.
func (c *Client) PresignView(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign view: %w", err)
	}
	return u.String(), nil
}

// Upload writes the object server-side and returns its generated key. Used
// where browser cross-origin restrictions rule out the presigned PUT path.
func (c *Client) Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error) {
	key := newKey(fileName)
	_, err := c.mc.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return key, nil
}

// Delete unconditionally removes the object.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func newKey(fileName string) string {
	return KeyPrefix + uuid.NewString() + strings.ToLower(path.Ext(fileName))
}
