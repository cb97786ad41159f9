// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"institute-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	Totals(ctx context.Context) (users int, activeSubscriptions int, err error)
	Revenue(ctx context.Context) (week int64, month int64, year int64, err error)
}

type statsUC struct {
	users    repository.UserRepository
	subs     repository.SubscriptionRepository
	payments repository.PaymentRepository

	log *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, subs repository.SubscriptionRepository, payments repository.PaymentRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{users: users, subs: subs, payments: payments, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (int, int, error) {
	users, err := s.users.Count(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, err
	}
	active, err := s.subs.CountActive(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, err
	}
	return users, active, nil
}

func (s *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	w, err := s.payments.SumByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := s.payments.SumByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := s.payments.SumByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return w, m, y, nil
}
