//go:build integration

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/giftshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func newMinioStorage(t *testing.T) *S3ImageStorage {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "http")
	require.NoError(t, err)

	s, err := NewS3ImageStorage(&config.StorageConfig{
		Bucket:       "product-images",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Endpoint:     endpoint,
		UsePathStyle: true,
	}, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.EnsureBucket(ctx), "second call is a no-op")
	return s
}

func TestS3ImageStorage_Integration(t *testing.T) {
	s := newMinioStorage(t)
	ctx := context.Background()
	key := "products/integration/photo.jpg"

	exists, err := s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.Upload(ctx, key, []byte("jpeg bytes"), "image/jpeg"))

	exists, err = s.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	url, err := s.ResolveImageURL(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Signature")

	uploadURL, expiresAt, err := s.GenerateUploadURL(ctx, "products/integration/next.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, uploadURL)
	assert.True(t, expiresAt.After(time.Now()))
}
