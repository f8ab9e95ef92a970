package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
)

const (
	// maxReceiptSize caps uploaded transfer receipts at 5 MB.
	maxReceiptSize = 5 * 1024 * 1024

	// maxReceiptWidth is the width images are downscaled to before
	// storage. Phone camera shots of a bank receipt do not need more.
	maxReceiptWidth = 1600

	receiptJPEGQuality = 85
)

// processReceipt validates an uploaded receipt and returns the bytes
// to store plus the extension to store them under. PDFs pass through
// untouched; images are re-encoded as JPEG and downscaled when wider
// than maxReceiptWidth.
func processReceipt(header *multipart.FileHeader) (io.Reader, string, error) {
	if header.Size > maxReceiptSize {
		return nil, "", fmt.Errorf("%w: receipt exceeds 5MB", models.ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	case ".pdf":
		file, err := header.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open receipt: %w", err)
		}
		defer file.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, file); err != nil {
			return nil, "", fmt.Errorf("failed to read receipt: %w", err)
		}
		return &buf, ".pdf", nil
	default:
		return nil, "", fmt.Errorf("%w: receipt must be jpg, png or pdf", models.ErrValidation)
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open receipt: %w", err)
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: receipt is not a readable image", models.ErrValidation)
	}

	if img.Bounds().Dx() > maxReceiptWidth {
		img = imaging.Resize(img, maxReceiptWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(receiptJPEGQuality)); err != nil {
		return nil, "", fmt.Errorf("failed to encode receipt: %w", err)
	}

	return &buf, ".jpg", nil
}
