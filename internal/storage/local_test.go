package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewLocalStorage(t.TempDir())

	content := []byte("receipt bytes")
	storagePath, publicURL, err := s.Upload(ctx, bytes.NewReader(content), "receipts/u1/123.jpg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if storagePath != "receipts/u1/123.jpg" {
		t.Errorf("storage path = %q", storagePath)
	}
	if publicURL != "/uploads/receipts/u1/123.jpg" {
		t.Errorf("public url = %q", publicURL)
	}

	got, err := os.ReadFile(filepath.Join(s.basePath, storagePath))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("stored bytes differ from upload")
	}

	if err := s.Delete(ctx, storagePath); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting a missing file is not an error.
	if err := s.Delete(ctx, storagePath); err != nil {
		t.Errorf("Delete of missing file: %v", err)
	}
}

func TestNewDriverDefaultsToLocal(t *testing.T) {
	driver, err := NewDriver(&Config{})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if _, ok := driver.(*LocalStorage); !ok {
		t.Errorf("default driver is %T, want *LocalStorage", driver)
	}

	if _, err := NewDriver(&Config{Driver: "ftp"}); err == nil {
		t.Error("unsupported driver must fail")
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"a.png", "image/png"},
		{"a.pdf", "application/pdf"},
		{"a.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := contentType(tt.path); got != tt.want {
			t.Errorf("contentType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
