package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/model"
)

// verifyFailedMsg is returned for every verification failure, signature or
// gateway alike, so a caller cannot probe which check rejected them.
const verifyFailedMsg = "payment could not be verified"

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// ===== auth =====

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Same response for unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if _, err := s.auth.Mint(w, user); err != nil {
		s.log.Error().Err(err).Msg("failed to mint session token")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// ===== payment =====

type createOrderRequest struct {
	Plan   string `json:"plan"`
	Amount int64  `json:"amount"` // rupees
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r)

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := s.checkoutUC.InitiateOrder(r.Context(), claims.Subject, req.Plan, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrInvalidPlan):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrGatewayTimeout):
			writeError(w, http.StatusGatewayTimeout, "payment gateway timed out")
		default:
			writeError(w, http.StatusBadGateway, "could not create order")
		}
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type verifyRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	Plan      string `json:"plan"`
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, pay, err := s.checkoutUC.ConfirmPayment(r.Context(), claims.Subject, req.OrderID, req.PaymentID, req.Signature, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrInvalidPlan):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInvalidSignature),
			errors.Is(err, domain.ErrGatewayUnavailable),
			errors.Is(err, domain.ErrGatewayTimeout),
			errors.Is(err, domain.ErrGatewayRejected):
			writeError(w, http.StatusBadRequest, verifyFailedMsg)
		case errors.Is(err, domain.ErrLockNotAcquired):
			writeError(w, http.StatusConflict, "confirmation already in progress")
		default:
			writeError(w, http.StatusInternalServerError, "payment could not be recorded")
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success      bool                `json:"success"`
		Subscription *model.Subscription `json:"subscription"`
		Payment      *model.Payment      `json:"payment"`
	}{true, sub, pay})
}

func (s *Server) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r)

	payments, err := s.checkoutUC.History(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	if payments == nil {
		payments = []*model.Payment{}
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Payment `json:"data"`
	}{payments})
}

// ===== subscription =====

type subscriptionResponse struct {
	Subscription  *model.Subscription `json:"subscription"`
	DaysRemaining int                 `json:"daysRemaining"`
}

func (s *Server) handleCurrentSubscription(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r)

	sub, err := s.subUC.GetCurrent(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, subscriptionResponse{Subscription: nil, DaysRemaining: 0})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load subscription")
		return
	}
	writeJSON(w, http.StatusOK, subscriptionResponse{Subscription: sub, DaysRemaining: s.subUC.DaysRemaining(sub)})
}

type setStatusRequest struct {
	Status model.SubscriptionStatus `json:"status"`
}

func (s *Server) handleSetSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := s.subUC.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "subscription not found")
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "invalid status")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update subscription")
		}
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// ===== admin =====

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userUC.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	total, err := s.userUC.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count users")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data   []*model.User `json:"data"`
		Total  int           `json:"total"`
		Limit  int           `json:"limit"`
		Offset int           `json:"offset"`
	}{users, total, limit, offset})
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	users, active, err := s.statsUC.Totals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get totals")
		return
	}
	week, month, year, err := s.statsUC.Revenue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get revenue")
		return
	}

	response := struct {
		TotalUsers          int `json:"total_users"`
		ActiveSubscriptions int `json:"active_subscriptions"`
		Revenue             struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		} `json:"revenue_inr"`
	}{TotalUsers: users, ActiveSubscriptions: active}
	response.Revenue.Week = week
	response.Revenue.Month = month
	response.Revenue.Year = year

	writeJSON(w, http.StatusOK, response)
}

type reminderEntry struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Plan         string `json:"plan"`
	ExpiryDate   string `json:"expiryDate"`
	WhatsAppLink string `json:"whatsappLink"`
}

// handleReminders lists active subscriptions expiring soon, each with a
// prefilled WhatsApp message link for manual outreach.
func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	subs, err := s.subUC.ListExpiring(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list expiring subscriptions")
		return
	}

	entries := make([]reminderEntry, 0, len(subs))
	for _, sub := range subs {
		user, err := s.userUC.FindByID(r.Context(), sub.UserID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", sub.UserID).Msg("skipping reminder for unknown user")
			continue
		}
		entries = append(entries, reminderEntry{
			UserID:       user.ID,
			Name:         user.Name,
			Phone:        user.Phone,
			Plan:         sub.Plan,
			ExpiryDate:   sub.ExpiryDate.Format("2006-01-02"),
			WhatsAppLink: whatsAppLink(user, sub),
		})
	}

	writeJSON(w, http.StatusOK, struct {
		Data []reminderEntry `json:"data"`
	}{entries})
}

func whatsAppLink(user *model.User, sub *model.Subscription) string {
	phone := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, user.Phone)
	msg := fmt.Sprintf("Hi %s, your %s expires on %s. Renew now to keep your access uninterrupted!",
		user.Name, sub.Plan, sub.ExpiryDate.Format("2 Jan 2006"))
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(msg)
}
