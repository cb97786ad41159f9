//go:build !integration

package web

import (
	"context"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/model"
	"institute-backend/internal/domain/ports/adapter"
	"institute-backend/internal/usecase"
)

//
// ---------------- usecase mocks with settable hooks ----------------
//

type mockCheckoutUC struct {
	initiateFn func(ctx context.Context, userID, planID string, claimedAmount int64) (*adapter.Order, error)
	confirmFn  func(ctx context.Context, userID, orderID, paymentID, signature, planID string) (*model.Subscription, *model.Payment, error)
	historyFn  func(ctx context.Context, userID string) ([]*model.Payment, error)
}

var _ usecase.CheckoutUseCase = (*mockCheckoutUC)(nil)

func (m *mockCheckoutUC) InitiateOrder(ctx context.Context, userID, planID string, claimedAmount int64) (*adapter.Order, error) {
	if m.initiateFn != nil {
		return m.initiateFn(ctx, userID, planID, claimedAmount)
	}
	return nil, domain.ErrOperationFailed
}

func (m *mockCheckoutUC) ConfirmPayment(ctx context.Context, userID, orderID, paymentID, signature, planID string) (*model.Subscription, *model.Payment, error) {
	if m.confirmFn != nil {
		return m.confirmFn(ctx, userID, orderID, paymentID, signature, planID)
	}
	return nil, nil, domain.ErrOperationFailed
}

func (m *mockCheckoutUC) History(ctx context.Context, userID string) ([]*model.Payment, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, userID)
	}
	return nil, nil
}

type mockSubUC struct {
	getCurrentFn   func(ctx context.Context, userID string) (*model.Subscription, error)
	daysFn         func(sub *model.Subscription) int
	setStatusFn    func(ctx context.Context, id string, status model.SubscriptionStatus) (*model.Subscription, error)
	listExpiringFn func(ctx context.Context, withinDays int) ([]*model.Subscription, error)
}

var _ usecase.SubscriptionUseCase = (*mockSubUC)(nil)

func (m *mockSubUC) GetCurrent(ctx context.Context, userID string) (*model.Subscription, error) {
	if m.getCurrentFn != nil {
		return m.getCurrentFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSubUC) DaysRemaining(sub *model.Subscription) int {
	if m.daysFn != nil {
		return m.daysFn(sub)
	}
	return 0
}

func (m *mockSubUC) SetStatus(ctx context.Context, id string, status model.SubscriptionStatus) (*model.Subscription, error) {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSubUC) ListExpiring(ctx context.Context, withinDays int) ([]*model.Subscription, error) {
	if m.listExpiringFn != nil {
		return m.listExpiringFn(ctx, withinDays)
	}
	return nil, nil
}

type mockUserUC struct {
	authFn     func(ctx context.Context, email, password string) (*model.User, error)
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
	listFn     func(ctx context.Context, offset, limit int) ([]*model.User, error)
	countFn    func(ctx context.Context) (int, error)
}

var _ usecase.UserUseCase = (*mockUserUC)(nil)

func (m *mockUserUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if m.authFn != nil {
		return m.authFn(ctx, email, password)
	}
	return nil, domain.ErrUnauthorized
}

func (m *mockUserUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockUserUC) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockStatsUC struct {
	totalsFn  func(ctx context.Context) (int, int, error)
	revenueFn func(ctx context.Context) (int64, int64, int64, error)
}

var _ usecase.StatsUseCase = (*mockStatsUC)(nil)

func (m *mockStatsUC) Totals(ctx context.Context) (int, int, error) {
	if m.totalsFn != nil {
		return m.totalsFn(ctx)
	}
	return 0, 0, nil
}

func (m *mockStatsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	if m.revenueFn != nil {
		return m.revenueFn(ctx)
	}
	return 0, 0, 0, nil
}
