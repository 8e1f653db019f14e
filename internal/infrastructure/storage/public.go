package storage

import (
	"context"
	"strings"
	"time"

	catalogapp "github.com/giftshop/backend/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*PublicImageStorage)(nil)

// PublicImageStorage serves image keys from a static base URL.
// It is used when object storage is disabled; uploads are not verified.
type PublicImageStorage struct {
	BaseURL string
}

// NewPublicImageStorage creates a PublicImageStorage. An empty baseURL
// falls back to the API's own static path.
func NewPublicImageStorage(baseURL string) *PublicImageStorage {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "/static/images"
	}
	return &PublicImageStorage{BaseURL: baseURL}
}

// GenerateUploadURL returns an upload path under the base URL
func (s *PublicImageStorage) GenerateUploadURL(
	ctx context.Context,
	key, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + key + "?expires=" + expiresAt.UTC().Format(time.RFC3339), expiresAt, nil
}

// ResolveImageURL joins an object key onto the base URL
func (s *PublicImageStorage) ResolveImageURL(ctx context.Context, ref string) (string, error) {
	if ref == "" || IsAbsoluteURL(ref) {
		return ref, nil
	}
	return s.BaseURL + "/" + strings.TrimLeft(ref, "/"), nil
}

// ObjectExists always reports true
func (s *PublicImageStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	return true, nil
}
