package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"galleria/internal/cache"
	apperrors "galleria/internal/errors"
	"galleria/internal/storage"
)

const viewURLKeyPrefix = "viewurl:"

// viewURLCacheTTL stays well below the signed URL expiry so a cached URL is
// never handed out with less than ten minutes of validity left.
const viewURLCacheTTL = storage.DefaultViewExpiry - 10*time.Minute

// MediaService exposes the object store to the HTTP boundary: presigned
// upload and view URLs plus the server-mediated upload path. Storage
// failures on these paths are surfaced, unlike the per-row degradation in
// listing enrichment.
type MediaService interface {
	UploadURL(ctx context.Context, fileName, contentType string) (uploadURL, key string, err error)
	ViewURL(ctx context.Context, key string) (string, error)
	Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (key string, err error)
}

type mediaService struct {
	store ObjectGateway
	cache *cache.Client
}

// NewMediaService creates a new media service.
func NewMediaService(store ObjectGateway, cacheClient *cache.Client) MediaService {
	return &mediaService{
		store: store,
		cache: cacheClient,
	}
}

func (s *mediaService) UploadURL(ctx context.Context, fileName, contentType string) (string, string, error) {
	uploadURL, key, err := s.store.PresignUpload(ctx, fileName, contentType, storage.DefaultUploadExpiry)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", apperrors.ErrUpstreamStorage, err)
	}
	return uploadURL, key, nil
}

// ViewURL signs a GET URL for the key, serving repeat requests from the
// cache while the signature stays comfortably valid.
func (s *mediaService) ViewURL(ctx context.Context, key string) (string, error) {
	cacheKey := viewURLKeyPrefix + key
	if cached, _ := s.cache.Get(ctx, cacheKey); cached != nil {
		return string(cached), nil
	}

	url, err := s.store.PresignView(ctx, key, storage.DefaultViewExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstreamStorage, err)
	}

	_ = s.cache.Set(ctx, cacheKey, []byte(url), viewURLCacheTTL)
	return url, nil
}

func (s *mediaService) Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error) {
	key, err := s.store.Upload(ctx, r, size, fileName, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstreamStorage, err)
	}
	return key, nil
}
