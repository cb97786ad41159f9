//go:build !integration

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/model"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*RazorpayGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewRazorpayGateway("rzp_test_key", "rzp_test_secret", 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	g.baseURL = srv.URL
	return g, srv
}

func TestCreateOrder(t *testing.T) {
	var gotBody map[string]interface{}
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "rzp_test_secret" {
			t.Error("missing or wrong basic auth")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatal(err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_123",
			"amount":   gotBody["amount"],
			"currency": "INR",
			"status":   "created",
			"notes":    gotBody["notes"],
		})
	})

	order, err := g.CreateOrder(context.Background(), model.PlanWeeklyPass, 300)
	if err != nil {
		t.Fatal(err)
	}

	// 300 rupees must reach the gateway as 30000 paise.
	if amt, _ := gotBody["amount"].(float64); int64(amt) != 30000 {
		t.Fatalf("request amount = %v, want 30000", gotBody["amount"])
	}
	if order.ID != "order_123" {
		t.Fatalf("order id = %q", order.ID)
	}
	if order.Amount != 30000 {
		t.Fatalf("order amount = %d, want 30000", order.Amount)
	}
	if order.Plan != model.PlanWeeklyPass {
		t.Fatalf("order plan = %q", order.Plan)
	}
}

func TestFetchOrder(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/order_abc" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_abc",
			"amount":   10000,
			"currency": "INR",
			"status":   "paid",
		})
	})

	order, err := g.FetchOrder(context.Background(), "order_abc")
	if err != nil {
		t.Fatal(err)
	}
	if order.Amount != 10000 || order.Status != "paid" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestFetchOrderEmptyID(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := g.FetchOrder(context.Background(), ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGatewayErrorMapping(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		g, _ := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		if _, err := g.FetchOrder(context.Background(), "order_x"); !errors.Is(err, domain.ErrGatewayUnavailable) {
			t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
		}
	})

	t.Run("client error", func(t *testing.T) {
		g, _ := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})
		if _, err := g.FetchOrder(context.Background(), "order_x"); !errors.Is(err, domain.ErrGatewayRejected) {
			t.Fatalf("expected ErrGatewayRejected, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if _, err := g.FetchOrder(ctx, "order_x"); !errors.Is(err, domain.ErrGatewayTimeout) {
			t.Fatalf("expected ErrGatewayTimeout, got %v", err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		g, srv := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {})
		srv.Close()
		if _, err := g.FetchOrder(context.Background(), "order_x"); !errors.Is(err, domain.ErrGatewayUnavailable) {
			t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
		}
	})
}
