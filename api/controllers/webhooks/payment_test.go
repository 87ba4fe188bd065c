package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rbeltranc/stitchmarket-backend/internal/payments"
	"github.com/rbeltranc/stitchmarket-backend/pkg/db/models"
	"github.com/rbeltranc/stitchmarket-backend/pkg/enums"
)

func TestPaymentWebhook_SuccessAndIdempotent(t *testing.T) {
	orderID := uuid.New()
	payload := buildPaymentEvent(t, "pay_abc", orderID, 800, payments.StatusSucceeded)
	header := buildSignature(payload, "secret")
	verifier := &fakeVerifier{}
	guard, err := payments.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "payment-webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	handler := PaymentWebhook(verifier, &fakeSigningClient{secret: "secret"}, guard, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set(signatureHeader, header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if verifier.calls != 1 {
		t.Fatalf("expected verifier called once, got %d", verifier.calls)
	}
	if verifier.lastInput.OrderID != orderID || verifier.lastInput.AmountCents != 800 {
		t.Fatalf("unexpected verify input: %+v", verifier.lastInput)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
	req2.Header.Set(signatureHeader, header)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d", rec2.Code)
	}
	if verifier.calls != 1 {
		t.Fatalf("duplicate should not reach the verifier, got %d calls", verifier.calls)
	}
}

func TestPaymentWebhook_InvalidSignature(t *testing.T) {
	payload := buildPaymentEvent(t, "pay_def", uuid.New(), 800, payments.StatusSucceeded)
	verifier := &fakeVerifier{}
	guard, err := payments.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "payment-webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	handler := PaymentWebhook(verifier, &fakeSigningClient{secret: "secret"}, guard, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set(signatureHeader, "invalid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid signature, got %d", rec.Code)
	}
	if verifier.calls != 0 {
		t.Fatalf("verifier should not be invoked on invalid signature")
	}
}

func TestPaymentWebhook_VerifierFailureReleasesGuard(t *testing.T) {
	orderID := uuid.New()
	payload := buildPaymentEvent(t, "pay_ghi", orderID, 800, payments.StatusSucceeded)
	header := buildSignature(payload, "secret")
	verifier := &fakeVerifier{failFirst: true}
	guard, err := payments.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "payment-webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	handler := PaymentWebhook(verifier, &fakeSigningClient{secret: "secret"}, guard, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set(signatureHeader, header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		t.Fatalf("expected error status on verifier failure, got %d", rec.Code)
	}

	// The gateway retries; the released guard must let it through.
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payment", bytes.NewReader(payload))
	req2.Header.Set(signatureHeader, header)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on retry, got %d (%s)", rec2.Code, rec2.Body.String())
	}
	if verifier.calls != 2 {
		t.Fatalf("expected verifier called twice, got %d", verifier.calls)
	}
}

func buildPaymentEvent(t *testing.T, paymentID string, orderID uuid.UUID, amountCents int, status string) []byte {
	t.Helper()
	payload, err := json.Marshal(paymentEvent{
		PaymentID:   paymentID,
		OrderID:     orderID.String(),
		AmountCents: amountCents,
		Status:      status,
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return payload
}

func buildSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

type fakeVerifier struct {
	calls     int
	failFirst bool
	lastInput payments.VerifyInput
}

func (f *fakeVerifier) Verify(ctx context.Context, input payments.VerifyInput) (*payments.VerifyResult, error) {
	f.calls++
	f.lastInput = input
	if f.failFirst && f.calls == 1 {
		return nil, fmt.Errorf("transient failure")
	}
	return &payments.VerifyResult{
		Order: &models.Order{ID: input.OrderID, PaymentStatus: enums.PaymentStatusPaid},
	}, nil
}

type fakeSigningClient struct {
	secret string
}

func (c *fakeSigningClient) SigningSecret() string {
	return c.secret
}

type inMemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{data: make(map[string]string)}
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key] = fmt.Sprintf("%v", value)
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("sm:idempotency:%s:%s", scope, id)
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
