package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"taxdefense-backend/config"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")
	ErrNotText          = errors.New("document is not valid UTF-8 text")
)

// MaxDocumentSize caps how much of a stored document is read (10MB)
const MaxDocumentSize = 10 * 1024 * 1024

// Storage is a read-only source of defense documents addressed by key
type Storage interface {
	// Download retrieves a document by key. Missing keys return ErrDocumentNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

const (
	StorageTypeNone  = "none"
	StorageTypeLocal = "local"
	StorageTypeS3    = "s3"
)

// NewStorage creates a storage instance based on configuration.
// It returns nil without error when no document store is configured.
func NewStorage(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeNone, "":
		return nil, nil
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// ReadText downloads a document and returns it as text
func ReadText(ctx context.Context, s Storage, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrDocumentNotFound
	}

	body, err := s.Download(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > MaxDocumentSize {
		return "", ErrDocumentTooLarge
	}
	if !utf8.Valid(data) {
		return "", ErrNotText
	}

	return string(data), nil
}
