package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"corpmatch_backend/internal/config"
	"corpmatch_backend/pkg/apperrors"
)

// RazorpayService - клиент платежного шлюза.
// Заказы создаются на стороне шлюза, оплата проходит на клиенте,
// затем бэкенд проверяет подпись и статус capture.
type RazorpayService struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
	Currency      string

	httpClient *http.Client
}

// Order - заказ созданный в шлюзе. Amount в минимальных единицах (пайсы).
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Payment - платеж в шлюзе
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"` // "created", "authorized", "captured", "failed"
	Method   string `json:"method"`

	// Заполнены только у отклоненных платежей
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

// NewRazorpayService инициализирует сервис из конфига
func NewRazorpayService(cfg *config.PaymentsConfig) *RazorpayService {
	return &RazorpayService{
		KeyID:         cfg.GatewayKeyID,
		KeySecret:     cfg.GatewaySecret,
		WebhookSecret: cfg.WebhookSecret,
		BaseURL:       cfg.GatewayURL,
		Currency:      cfg.Currency,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder создает заказ в шлюзе. amount в основных единицах валюты,
// шлюз принимает минимальные (x100).
func (s *RazorpayService) CreateOrder(ctx context.Context, amount float64, receipt string, notes map[string]string) (*Order, error) {
	payload := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": s.Currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	req.SetBasicAuth(s.KeyID, s.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ErrGatewayError.WithError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ErrGatewayError.WithError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrGatewayError.WithDetails(map[string]interface{}{
			"status_code": resp.StatusCode,
			"response":    string(respBody),
		})
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, apperrors.ErrGatewayError.WithError(err)
	}
	return &order, nil
}

// FetchPayment запрашивает платеж из шлюза
func (s *RazorpayService) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	req.SetBasicAuth(s.KeyID, s.KeySecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ErrGatewayError.WithError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ErrGatewayError.WithError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrGatewayError.WithDetails(map[string]interface{}{
			"status_code": resp.StatusCode,
			"payment_id":  paymentID,
		})
	}

	var payment Payment
	if err := json.Unmarshal(respBody, &payment); err != nil {
		return nil, apperrors.ErrGatewayError.WithError(err)
	}
	return &payment, nil
}

// VerifySignature проверяет подпись успешной оплаты с клиента.
// Подписывается строка "orderID|paymentID" секретом ключа.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	expected := s.signHMAC(orderID+"|"+paymentID, s.KeySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature проверяет подпись webhook-события.
// Подписывается сырое тело запроса webhook-секретом.
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := s.signHMAC(string(body), s.WebhookSecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *RazorpayService) signHMAC(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// IsCaptured удобная проверка что платеж реально списан
func (p *Payment) IsCaptured() bool {
	return p.Status == "captured"
}

// WebhookEvent - событие от шлюза
type WebhookEvent struct {
	Event   string `json:"event"` // "payment.captured", "payment.failed"
	Payload struct {
		Payment struct {
			Entity Payment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhookEvent разбирает тело webhook-запроса
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	return &event, nil
}
