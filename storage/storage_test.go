package storage

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taxdefense-backend/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	t.Run("Should return no store when storage is disabled", func(t *testing.T) {
		s, err := NewStorage(testContext(t), config.StorageConfig{Type: StorageTypeNone})
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("Should require a bucket for S3", func(t *testing.T) {
		_, err := NewStorage(testContext(t), config.StorageConfig{Type: StorageTypeS3})
		assert.ErrorContains(t, err, "AWS_S3_BUCKET")
	})

	t.Run("Should reject unknown storage types", func(t *testing.T) {
		_, err := NewStorage(testContext(t), config.StorageConfig{Type: "ftp"})
		assert.ErrorContains(t, err, "unknown storage type")
	})
}

func TestLocalStorage(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "2024"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "2024", "impugnacao.txt"), []byte("Alego prescrição."), 0644))

	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	t.Run("Should read a stored document as text", func(t *testing.T) {
		text, err := ReadText(testContext(t), s, "2024/impugnacao.txt")
		require.NoError(t, err)
		assert.Equal(t, "Alego prescrição.", text)
	})

	t.Run("Should report missing documents", func(t *testing.T) {
		_, err := ReadText(testContext(t), s, "2024/missing.txt")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("Should treat directories as missing", func(t *testing.T) {
		_, err := ReadText(testContext(t), s, "2024")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("Should not escape the base path", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(base), "outside.txt")
		require.NoError(t, os.WriteFile(outside, []byte("secret"), 0644))
		t.Cleanup(func() { os.Remove(outside) })

		_, err := ReadText(testContext(t), s, "../outside.txt")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("Should reject binary content", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(base, "scan.pdf"), []byte{0xff, 0xfe, 0x00, 0x81}, 0644))

		_, err := ReadText(testContext(t), s, "scan.pdf")
		assert.ErrorIs(t, err, ErrNotText)
	})

	t.Run("Should reject an empty key", func(t *testing.T) {
		_, err := ReadText(testContext(t), s, "  ")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func newTestS3Storage(t *testing.T, handler http.HandlerFunc) *S3Storage {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(srv.URL)
		o.UsePathStyle = true
	})
	return &S3Storage{client: client, bucket: "defenses"}
}

func TestS3Storage(t *testing.T) {
	t.Run("Should download an object from the bucket", func(t *testing.T) {
		s := newTestS3Storage(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/defenses/cases/TESTE-001.txt", r.URL.Path)
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("Alego decadência."))
		})

		text, err := ReadText(testContext(t), s, "cases/TESTE-001.txt")
		require.NoError(t, err)
		assert.Equal(t, "Alego decadência.", text)
	})

	t.Run("Should map NoSuchKey to ErrDocumentNotFound", func(t *testing.T) {
		s := newTestS3Storage(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
		})

		_, err := ReadText(testContext(t), s, "cases/missing.txt")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("Should wrap other S3 failures", func(t *testing.T) {
		s := newTestS3Storage(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`))
		})

		_, err := ReadText(testContext(t), s, "cases/locked.txt")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrDocumentNotFound)
		assert.True(t, strings.Contains(err.Error(), "failed to download from S3"))
	})
}
