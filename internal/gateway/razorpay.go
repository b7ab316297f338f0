package gateway

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
	"strings"
	"time"

	"github.com/estatehub/estatehub-backend/internal/common"
)

const defaultRazorpayURL = "https://api.razorpay.com"

// RazorpayConfig credentials and endpoint
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// Razorpay order API client and signature verifier
type Razorpay struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpay creates a client. Missing credentials are allowed; every
// CreateOrder call then fails with common.ErrGatewayUnavailable.
func NewRazorpay(cfg RazorpayConfig) *Razorpay {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultRazorpayURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Razorpay{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether both keys are present
func (r *Razorpay) Configured() bool {
	return r.keyID != "" && r.keySecret != ""
}

func (r *Razorpay) KeyID() string {
	return r.keyID
}

type orderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt,omitempty"`
	PaymentCapture int    `json:"payment_capture"`
}

// CreateOrder POST /v1/orders
func (r *Razorpay) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*Order, error) {
	if !r.Configured() {
		return nil, fmt.Errorf("razorpay keys not configured: %w", common.ErrGatewayUnavailable)
	}

	body, err := json.Marshal(orderRequest{
		Amount:         ToMinorUnits(amount),
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(r.keyID, r.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %v: %w", err, common.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("razorpay read body: %v: %w", err, common.ErrGatewayUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay returned status %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(raw)), common.ErrGatewayUnavailable)
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("razorpay decode order: %v: %w", err, common.ErrGatewayUnavailable)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay order without id: %w", common.ErrGatewayUnavailable)
	}
	order.Raw = raw
	return &order, nil
}

// VerifySignature checks hex(HMAC-SHA256(order_id|payment_id, key_secret))
func (r *Razorpay) VerifySignature(orderID, paymentID, signature string) bool {
	if r.keySecret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := Sign(r.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// Sign computes the checkout signature for an order/payment pair
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
