package storage

import (
	"context"
	"errors"
	"time"

	listingapp "github.com/rentfold/backend/internal/application/listing"
)

// StubPhotoStorage is a development stand-in for S3PhotoStorage. URLs it
// returns are not usable for real uploads.
type StubPhotoStorage struct {
	// BaseURL prefixes the generated URLs
	BaseURL string
}

// NewStubPhotoStorage creates a new StubPhotoStorage
func NewStubPhotoStorage() *StubPhotoStorage {
	return &StubPhotoStorage{
		BaseURL: "https://storage.example.com",
	}
}

// Ensure StubPhotoStorage implements PhotoStorage
var _ listingapp.PhotoStorage = (*StubPhotoStorage)(nil)

// PresignUpload returns a stub upload URL
func (s *StubPhotoStorage) PresignUpload(_ context.Context, objectKey, _ string, expiry time.Duration) (string, error) {
	if objectKey == "" {
		return "", errors.New("object key is required")
	}
	expiresAt := time.Now().Add(expiry)
	return s.BaseURL + "/upload/" + objectKey + "?expires=" + expiresAt.Format(time.RFC3339), nil
}

// PresignView returns a stub view URL
func (s *StubPhotoStorage) PresignView(_ context.Context, objectKey string, expiry time.Duration) (string, error) {
	if objectKey == "" {
		return "", errors.New("object key is required")
	}
	expiresAt := time.Now().Add(expiry)
	return s.BaseURL + "/view/" + objectKey + "?expires=" + expiresAt.Format(time.RFC3339), nil
}
