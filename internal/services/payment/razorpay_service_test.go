package payment_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"corpmatch_backend/internal/config"
	"corpmatch_backend/internal/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(baseURL string) *payment.RazorpayService {
	return payment.NewRazorpayService(&config.PaymentsConfig{
		GatewayKeyID:  "rzp_test_key",
		GatewaySecret: "key_secret",
		WebhookSecret: "webhook_secret",
		GatewayURL:    baseURL,
		Currency:      "INR",
	})
}

func sign(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := newTestService("http://localhost")

	valid := sign("order_123|pay_456", "key_secret")
	assert.True(t, svc.VerifySignature("order_123", "pay_456", valid))

	// Подпись чужим секретом отвергается
	forged := sign("order_123|pay_456", "wrong_secret")
	assert.False(t, svc.VerifySignature("order_123", "pay_456", forged))

	// Подмена платежа в подписанной паре отвергается
	assert.False(t, svc.VerifySignature("order_123", "pay_other", valid))
	assert.False(t, svc.VerifySignature("order_123", "pay_456", ""))
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := newTestService("http://localhost")
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, svc.VerifyWebhookSignature(body, sign(string(body), "webhook_secret")))
	// Webhook подписывается отдельным секретом, не ключом API
	assert.False(t, svc.VerifyWebhookSignature(body, sign(string(body), "key_secret")))
	assert.False(t, svc.VerifyWebhookSignature([]byte(`{"event":"tampered"}`), sign(string(body), "webhook_secret")))
}

func TestCreateOrder_SendsPaise(t *testing.T) {
	var received map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "key_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(payment.Order{
			ID:       "order_abc",
			Amount:   int64(received["amount"].(float64)),
			Currency: "INR",
			Receipt:  received["receipt"].(string),
			Status:   "created",
		})
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	order, err := svc.CreateOrder(context.Background(), 650, "meeting_m1_u1", map[string]string{"meeting_id": "m1"})
	require.NoError(t, err)

	// Шлюз работает в минимальных единицах валюты
	assert.Equal(t, float64(65000), received["amount"])
	assert.Equal(t, "INR", received["currency"])
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, "meeting_m1_u1", order.Receipt)
}

func TestCreateOrder_GatewayErrorPropagated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"description":"Amount too low"}}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	_, err := svc.CreateOrder(context.Background(), 0.01, "r1", nil)
	assert.Error(t, err)
}

func TestFetchPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/pay_456", r.URL.Path)
		json.NewEncoder(w).Encode(payment.Payment{
			ID:      "pay_456",
			OrderID: "order_123",
			Amount:  100000,
			Status:  "captured",
		})
	}))
	defer server.Close()

	svc := newTestService(server.URL)

	p, err := svc.FetchPayment(context.Background(), "pay_456")
	require.NoError(t, err)
	assert.Equal(t, "order_123", p.OrderID)
	assert.True(t, p.IsCaptured())

	p.Status = "authorized"
	assert.False(t, p.IsCaptured())
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_1", "order_id": "order_1", "status": "captured"}}}
	}`)

	event, err := payment.ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "payment.captured", event.Event)
	assert.Equal(t, "order_1", event.Payload.Payment.Entity.OrderID)

	_, err = payment.ParseWebhookEvent([]byte("not json"))
	assert.Error(t, err)
}
