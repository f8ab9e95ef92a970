package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Driver abstracts where transfer receipts are kept. Local disk for
// development and demo installs, S3 or R2 in production.
type Driver interface {
	// Upload stores a file and returns the storage path and public URL.
	Upload(ctx context.Context, file io.Reader, path string) (storagePath string, publicURL string, err error)

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// PublicURL returns the URL a stored file is served from.
	PublicURL(path string) string
}

// Config selects and configures a driver.
type Config struct {
	Driver string // local, s3, r2

	// Local
	UploadsPath string

	// AWS S3
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	AWSBucket          string

	// Cloudflare R2
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2AccountID       string
	R2Bucket          string
	R2PublicURL       string
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
