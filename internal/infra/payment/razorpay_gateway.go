package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/ports/adapter"
)

var _ adapter.OrderGateway = (*RazorpayGateway)(nil)

// RazorpayGateway implements the order port against the Razorpay Orders REST
// API using direct HTTP calls with basic auth.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewRazorpayGateway(keyID, keySecret string, timeout time.Duration) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay key id and key secret are required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   "https://api.razorpay.com/v1",
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

// orderResponse mirrors the fields of a Razorpay order we consume.
type orderResponse struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Status   string            `json:"status"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

// CreateOrder registers an order with Razorpay. The amount is converted to
// paise; the plan travels in notes so the descriptor stays self-describing.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, planID string, amountMajor int64) (*adapter.Order, error) {
	body := map[string]interface{}{
		"amount":   amountMajor * adapter.MinorUnitFactor,
		"currency": "INR",
		"receipt":  fmt.Sprintf("receipt_%s_%d", planID, time.Now().UnixMilli()),
		"notes":    map[string]string{"plan": planID},
	}
	return g.do(ctx, http.MethodPost, "/orders", body)
}

// FetchOrder returns the authoritative order state by id.
func (g *RazorpayGateway) FetchOrder(ctx context.Context, orderID string) (*adapter.Order, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return g.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
}

func (g *RazorpayGateway) do(ctx context.Context, method, path string, body map[string]interface{}) (*adapter.Order, error) {
	var rdr io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
		rdr = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return nil, domain.ErrGatewayTimeout
		}
		return nil, domain.ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.ErrGatewayUnavailable
	}
	switch {
	case resp.StatusCode >= 500:
		return nil, domain.ErrGatewayUnavailable
	case resp.StatusCode >= 400:
		return nil, domain.ErrGatewayRejected
	}

	var or orderResponse
	if err := json.Unmarshal(b, &or); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(b))
	}
	return &adapter.Order{
		ID:       or.ID,
		Amount:   or.Amount,
		Currency: or.Currency,
		Status:   or.Status,
		Receipt:  or.Receipt,
		Plan:     or.Notes["plan"],
	}, nil
}
