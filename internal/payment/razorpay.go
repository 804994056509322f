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
	"strings"
	"time"

	"github.com/Kavy522/TrainTicketBooking-sub002/internal/model"
	"go.uber.org/zap"
)

const (
	ProviderRazorpay = "razorpay"
	defaultBaseURL   = "https://api.razorpay.com"
	defaultTimeout   = 15 * time.Second
)

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// RazorpayClient клиент Razorpay Orders API
type RazorpayClient struct {
	config RazorpayConfig
	client *http.Client
	logger *zap.Logger
}

func NewRazorpayClient(config RazorpayConfig, logger *zap.Logger) *RazorpayClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &RazorpayClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

func (c *RazorpayClient) Name() string {
	return ProviderRazorpay
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder создаёт заказ на сумму amount (в пайсах)
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*model.PaymentOrder, error) {
	body, err := json.Marshal(orderRequest{Amount: amount, Currency: currency, Receipt: receipt})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.SetBasicAuth(c.config.KeyID, c.config.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send order request: %v", model.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read order response: %v", model.ErrPaymentGateway, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode, respBody)
	}

	var order orderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("%w: decode order response: %v", model.ErrPaymentGateway, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: order response has no id", model.ErrPaymentGateway)
	}

	c.logger.Info("Payment order created",
		zap.String("order_id", order.ID),
		zap.String("receipt", order.Receipt),
		zap.Int64("amount", order.Amount),
	)

	return &model.PaymentOrder{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}

func (c *RazorpayClient) handleAPIError(statusCode int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Description == "" {
		return fmt.Errorf("%w: status %d: %s", model.ErrPaymentGateway, statusCode, strings.TrimSpace(string(body)))
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: unauthorized, check API keys: %s", model.ErrPaymentGateway, apiErr.Error.Description)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: bad request (%s): %s", model.ErrPaymentGateway, apiErr.Error.Code, apiErr.Error.Description)
	default:
		return fmt.Errorf("%w: status %d: %s", model.ErrPaymentGateway, statusCode, apiErr.Error.Description)
	}
}

// VerifySignature проверяет подпись оплаты из checkout
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(c.config.KeySecret, orderID, paymentID, signature)
}

// Sign HMAC-SHA256 от "order_id|payment_id" в hex
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature сравнение подписи за постоянное время
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected))
}
