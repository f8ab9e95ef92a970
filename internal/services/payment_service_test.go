package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/plans"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository/memory"
)

// fakeStorage records uploads in memory.
type fakeStorage struct {
	uploads map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, file io.Reader, path string) (string, string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	f.uploads[path] = data
	return path, f.PublicURL(path), nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	delete(f.uploads, path)
	return nil
}

func (f *fakeStorage) PublicURL(path string) string {
	return "https://files.test/" + path
}

func testCheckoutConfig() config.MercadoPagoConfig {
	return config.MercadoPagoConfig{
		CheckoutBase: "https://mpago.test/base",
		CheckoutPlus: "https://mpago.test/plus",
		CheckoutPro:  "https://mpago.test/pro",
	}
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "ana@example.com", Plan: plans.TierBase}
}

// receiptFile builds a multipart.FileHeader carrying the given bytes,
// the way gin hands it to the handler.
func receiptFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("receipt", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File["receipt"][0]
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestCreateMercadoPagoReturnsTierCheckout(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewPaymentService(store.Payments(), newFakeStorage(), testCheckoutConfig())
	user := testUser()

	url, payment, err := svc.CreateMercadoPago(ctx, user, &models.MercadoPagoRequest{Plan: "pro"})
	if err != nil {
		t.Fatalf("CreateMercadoPago: %v", err)
	}
	if url != "https://mpago.test/pro" {
		t.Errorf("checkout url = %q", url)
	}
	if payment.Status != models.PaymentStatusPending {
		t.Errorf("status = %s, want pending", payment.Status)
	}
	if payment.Amount != plans.ByTier(plans.TierPro).Price {
		t.Errorf("amount = %v, want catalog price", payment.Amount)
	}

	history, err := svc.History(ctx, user.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Method != models.PaymentMercadoPago {
		t.Errorf("history = %+v", history)
	}
}

func TestCreateMercadoPagoUnconfiguredLink(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewPaymentService(store.Payments(), newFakeStorage(), config.MercadoPagoConfig{})

	if _, _, err := svc.CreateMercadoPago(ctx, testUser(), &models.MercadoPagoRequest{Plan: "base"}); err == nil {
		t.Error("expected an error when no checkout link is configured")
	}
}

func TestSubmitTransferStoresReceipt(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	files := newFakeStorage()
	svc := NewPaymentService(store.Payments(), files, testCheckoutConfig())
	user := testUser()

	header := receiptFile(t, "comprobante.png", pngBytes(t, 100, 100))
	payment, err := svc.SubmitTransfer(ctx, user, "plus", 0, header)
	if err != nil {
		t.Fatalf("SubmitTransfer: %v", err)
	}

	if payment.Status != models.PaymentStatusInReview {
		t.Errorf("status = %s, want in_review", payment.Status)
	}
	if payment.ReceiptURL == nil || !strings.HasPrefix(*payment.ReceiptURL, "https://files.test/receipts/") {
		t.Errorf("receipt url = %v", payment.ReceiptURL)
	}
	if payment.Amount != plans.ByTier(plans.TierPlus).Price {
		t.Errorf("amount = %v, want catalog price", payment.Amount)
	}
	if len(files.uploads) != 1 {
		t.Errorf("uploads = %d, want 1", len(files.uploads))
	}
	for path := range files.uploads {
		if !strings.HasSuffix(path, ".jpg") {
			t.Errorf("image receipts are stored as jpg, got %s", path)
		}
	}
}

func TestSubmitTransferDownscalesWideImages(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	files := newFakeStorage()
	svc := NewPaymentService(store.Payments(), files, testCheckoutConfig())

	header := receiptFile(t, "big.png", pngBytes(t, 2400, 1200))
	if _, err := svc.SubmitTransfer(ctx, testUser(), "base", 0, header); err != nil {
		t.Fatalf("SubmitTransfer: %v", err)
	}

	for _, data := range files.uploads {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode stored receipt: %v", err)
		}
		if w := img.Bounds().Dx(); w > 1600 {
			t.Errorf("stored width = %d, want <= 1600", w)
		}
	}
}

func TestSubmitTransferKeepsPDFsUntouched(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	files := newFakeStorage()
	svc := NewPaymentService(store.Payments(), files, testCheckoutConfig())

	pdf := []byte("%PDF-1.4 fake receipt")
	header := receiptFile(t, "comprobante.pdf", pdf)
	if _, err := svc.SubmitTransfer(ctx, testUser(), "base", 0, header); err != nil {
		t.Fatalf("SubmitTransfer: %v", err)
	}

	for path, data := range files.uploads {
		if !strings.HasSuffix(path, ".pdf") {
			t.Errorf("pdf stored as %s", path)
		}
		if !bytes.Equal(data, pdf) {
			t.Error("pdf bytes were modified")
		}
	}
}

func TestSubmitTransferValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewPaymentService(store.Payments(), newFakeStorage(), testCheckoutConfig())
	user := testUser()

	header := receiptFile(t, "receipt.gif", []byte("GIF89a"))
	if _, err := svc.SubmitTransfer(ctx, user, "base", 0, header); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad extension: got %v, want ErrValidation", err)
	}

	header = receiptFile(t, "receipt.png", pngBytes(t, 10, 10))
	header.Size = 6 * 1024 * 1024
	if _, err := svc.SubmitTransfer(ctx, user, "base", 0, header); !errors.Is(err, models.ErrValidation) {
		t.Errorf("oversized receipt: got %v, want ErrValidation", err)
	}

	header = receiptFile(t, "broken.png", []byte("not a png"))
	if _, err := svc.SubmitTransfer(ctx, user, "base", 0, header); !errors.Is(err, models.ErrValidation) {
		t.Errorf("undecodable image: got %v, want ErrValidation", err)
	}

	// Nothing was recorded for any of the rejected uploads.
	history, err := svc.History(ctx, user.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("rejected uploads left %d payments", len(history))
	}
}

func TestCheckoutURLPerTier(t *testing.T) {
	svc := NewPaymentService(memory.NewStore().Payments(), newFakeStorage(), testCheckoutConfig())

	tests := []struct {
		tier plans.Tier
		want string
	}{
		{plans.TierBase, "https://mpago.test/base"},
		{plans.TierPlus, "https://mpago.test/plus"},
		{plans.TierPro, "https://mpago.test/pro"},
	}
	for _, tt := range tests {
		if got := svc.CheckoutURL(tt.tier); got != tt.want {
			t.Errorf("CheckoutURL(%s) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}
