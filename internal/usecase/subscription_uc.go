// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"institute-backend/internal/domain"
	"institute-backend/internal/domain/model"
	"institute-backend/internal/domain/ports/repository"
	"institute-backend/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase owns subscription records and their status
// transitions. Expiry is evaluated lazily on read; there is no background
// job flipping statuses.
type SubscriptionUseCase interface {
	// GetCurrent returns the user's most recent subscription, flipping it to
	// Expired (and clearing the user's pointer) if its expiry has passed.
	// Returns domain.ErrNotFound when the user never purchased a pass.
	GetCurrent(ctx context.Context, userID string) (*model.Subscription, error)
	// DaysRemaining is ceil((expiry - now) / 1 day), floored at 0, and
	// always 0 for an Expired subscription.
	DaysRemaining(sub *model.Subscription) int
	// SetStatus is the administrative override. Setting Expired also clears
	// the owner's current-subscription pointer.
	SetStatus(ctx context.Context, subscriptionID string, status model.SubscriptionStatus) (*model.Subscription, error)
	// ListExpiring returns active subscriptions expiring within the next
	// withinDays days, soonest first.
	ListExpiring(ctx context.Context, withinDays int) ([]*model.Subscription, error)
}

type subscriptionUC struct {
	subs  repository.SubscriptionRepository
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionRepository, users repository.UserRepository, logger *zerolog.Logger) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{subs: subs, users: users, log: &l}
}

func (uc *subscriptionUC) GetCurrent(ctx context.Context, userID string) (*model.Subscription, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	sub, err := uc.subs.FindLatestByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if sub.Status == model.SubscriptionStatusActive && sub.ExpiryDate.Before(now) {
		if err := uc.subs.UpdateStatus(ctx, repository.NoTX, sub.ID, model.SubscriptionStatusExpired); err != nil {
			return nil, err
		}
		sub.Status = model.SubscriptionStatusExpired
		sub.UpdatedAt = now
		metrics.IncSubscriptionsExpired(1)
		uc.log.Info().Str("subscription_id", sub.ID).Str("user_id", userID).Msg("subscription lazily expired")
	}

	if sub.Status == model.SubscriptionStatusExpired {
		if err := uc.users.SetCurrentSubscription(ctx, repository.NoTX, userID, nil); err != nil {
			return nil, err
		}
	}
	return sub, nil
}

func (uc *subscriptionUC) DaysRemaining(sub *model.Subscription) int {
	if sub == nil || sub.Status == model.SubscriptionStatusExpired {
		return 0
	}
	diff := time.Until(sub.ExpiryDate)
	if diff <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	return int((diff + day - 1) / day)
}

func (uc *subscriptionUC) SetStatus(ctx context.Context, subscriptionID string, status model.SubscriptionStatus) (*model.Subscription, error) {
	if subscriptionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if status != model.SubscriptionStatusActive && status != model.SubscriptionStatusExpired {
		return nil, domain.ErrInvalidArgument
	}

	sub, err := uc.subs.FindByID(ctx, repository.NoTX, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := uc.subs.UpdateStatus(ctx, repository.NoTX, subscriptionID, status); err != nil {
		return nil, err
	}
	sub.Status = status
	sub.UpdatedAt = time.Now()

	if status == model.SubscriptionStatusExpired {
		if err := uc.users.SetCurrentSubscription(ctx, repository.NoTX, sub.UserID, nil); err != nil {
			return nil, err
		}
	}
	uc.log.Info().Str("subscription_id", subscriptionID).Str("status", string(status)).Msg("subscription status overridden")
	return sub, nil
}

func (uc *subscriptionUC) ListExpiring(ctx context.Context, withinDays int) ([]*model.Subscription, error) {
	if withinDays <= 0 {
		withinDays = 3
	}
	return uc.subs.FindActiveExpiringWithin(ctx, repository.NoTX, withinDays)
}
